package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/config"
	"github.com/spec-kit/farmstore-service/internal/domain"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

const defaultAPIBase = "https://api.cloudinary.com/v1_1"

// ErrNotConfigured is returned when no media host credentials are set.
var ErrNotConfigured = errors.New("media host not configured")

// CloudinaryUploader relays files to Cloudinary's signed upload endpoint.
type CloudinaryUploader struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	timeout   time.Duration
	maxBytes  int
	apiBase   string
	now       func() time.Time
	logger    *zap.Logger
}

// NewCloudinaryUploader builds an uploader from config.
func NewCloudinaryUploader(cfg config.MediaConfig, logger *zap.Logger) *CloudinaryUploader {
	return &CloudinaryUploader{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		folder:    cfg.Folder,
		timeout:   cfg.UploadTimeout(),
		maxBytes:  cfg.MaxUploadBytes,
		apiBase:   defaultAPIBase,
		now:       time.Now,
		logger:    logger,
	}
}

// Configured reports whether credentials are present.
func (u *CloudinaryUploader) Configured() bool {
	return u.cloudName != "" && u.apiKey != "" && u.apiSecret != ""
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends file as kind and returns the secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, file *domain.MediaFile, kind domain.MediaKind) (string, error) {
	if !u.Configured() {
		return "", apperrors.NewMediaUnavailable(ErrNotConfigured)
	}
	if file.Empty() {
		return "", apperrors.NewValidationError("empty file", nil)
	}
	if u.maxBytes > 0 && len(file.Data) > u.maxBytes {
		return "", apperrors.NewValidationError("file too large", map[string]any{"maxBytes": u.maxBytes})
	}
	if err := ctx.Err(); err != nil {
		return "", apperrors.NewMediaUnavailable(err)
	}
	if kind != domain.MediaVideo {
		kind = domain.MediaImage
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(u.now().Unix(), 10),
	}
	if u.folder != "" {
		params["folder"] = u.folder
	}
	signature := Sign(params, u.apiSecret)

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	for k, v := range params {
		args.Set(k, v)
	}
	args.Set("api_key", u.apiKey)
	args.Set("signature", signature)

	filename := file.Filename
	if filename == "" {
		filename = "upload"
	}
	endpoint := fmt.Sprintf("%s/%s/%s/upload", strings.TrimRight(u.apiBase, "/"), u.cloudName, kind)
	agent := fiber.Post(endpoint).
		FileData(&fiber.FormFile{Fieldname: "file", Name: filename, Content: file.Data}).
		MultipartForm(args).
		Timeout(u.requestTimeout(ctx))

	var resp uploadResponse
	status, _, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		return "", apperrors.NewMediaUnavailable(errs[0])
	}
	if status >= fiber.StatusBadRequest || resp.Error != nil {
		msg := fmt.Sprintf("status %d", status)
		if resp.Error != nil {
			msg = resp.Error.Message
		}
		return "", apperrors.NewMediaUnavailable(errors.New(msg))
	}

	url := resp.SecureURL
	if url == "" {
		url = resp.URL
	}
	if url == "" {
		return "", apperrors.NewMediaUnavailable(errors.New("response carried no url"))
	}
	u.logger.Debug("media uploaded",
		zap.String("kind", string(kind)),
		zap.String("public_id", resp.PublicID),
		zap.Int("bytes", len(file.Data)))
	return url, nil
}

func (u *CloudinaryUploader) requestTimeout(ctx context.Context) time.Duration {
	timeout := u.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// Sign computes the upload signature: sha1 over the params sorted by key and
// joined as k=v with '&', followed by the api secret.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}
