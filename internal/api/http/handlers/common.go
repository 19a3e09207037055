package handlers

import (
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/domain"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"data": data})
}

// mediaFromForm reads an optional multipart file. A missing field or a
// non-multipart body yields nil.
func mediaFromForm(c *fiber.Ctx, field string) (*domain.MediaFile, error) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := header.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable upload", map[string]any{"field": field})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable upload", map[string]any{"field": field})
	}
	return &domain.MediaFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func parseBoolQuery(c *fiber.Ctx, key string, defaultVal bool) bool {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
