package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/repository"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

// CatalogService manages storefront content: products, blogs, reviews, plans,
// the floating banner and both lucky-winner boards.
type CatalogService struct {
	products repository.ProductRepository
	blogs    repository.BlogRepository
	reviews  repository.ReviewRepository
	plans    repository.PlanRepository
	banners  repository.FloatingTextRepository
	lucky    repository.LuckyRepository
	uploader MediaUploader
	logger   *zap.Logger
}

// CatalogDependencies bundles repositories.
type CatalogDependencies struct {
	ProductRepo      repository.ProductRepository
	BlogRepo         repository.BlogRepository
	ReviewRepo       repository.ReviewRepository
	PlanRepo         repository.PlanRepository
	FloatingTextRepo repository.FloatingTextRepository
	LuckyRepo        repository.LuckyRepository
	Uploader         MediaUploader
	Logger           *zap.Logger
}

// NewCatalogService creates the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		products: deps.ProductRepo,
		blogs:    deps.BlogRepo,
		reviews:  deps.ReviewRepo,
		plans:    deps.PlanRepo,
		banners:  deps.FloatingTextRepo,
		lucky:    deps.LuckyRepo,
		uploader: deps.Uploader,
		logger:   loggerOrNop(deps.Logger),
	}
}

// ProductInput describes a new product. Image, when present, replaces ImageURL.
type ProductInput struct {
	Product domain.Product
	Image   *domain.MediaFile
}

// BlogInput describes a new blog post. Media, when present, replaces MediaURL.
type BlogInput struct {
	Blog  domain.Blog
	Media *domain.MediaFile
}

// ReviewInput describes a new review.
type ReviewInput struct {
	Review domain.Review
	Image  *domain.MediaFile
}

// PlanInput describes a new plan.
type PlanInput struct {
	Plan  domain.Plan
	Image *domain.MediaFile
}

// LuckyInput describes a new lucky-board entry.
type LuckyInput struct {
	Entry domain.LuckyEntry
	Image *domain.MediaFile
}

// CreateProduct stores a product.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p := in.Product
	p.Name = strings.TrimSpace(p.Name)
	if err := requireField(p.Name, "name"); err != nil {
		return nil, err
	}
	url, err := s.uploadOr(ctx, in.Image, domain.MediaImage, p.ImageURL)
	if err != nil {
		return nil, err
	}
	p.ImageURL = url
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("product created", zap.String("product_id", p.ID))
	return &p, nil
}

// ListProducts returns products, newest first.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return mapList(s.products.List(ctx))
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return deleteResource(ctx, "product", id, s.products.Delete)
}

// CreateBlog stores a blog post. A video mime type or an explicit video media
// type uploads as video; the media type otherwise defaults to image when a URL
// exists and none when it does not.
func (s *CatalogService) CreateBlog(ctx context.Context, in BlogInput) (*domain.Blog, error) {
	b := in.Blog
	b.Title = strings.TrimSpace(b.Title)
	if err := requireField(b.Title, "title"); err != nil {
		return nil, err
	}
	mediaType := domain.BlogMediaType(strings.ToLower(strings.TrimSpace(string(b.MediaType))))

	if !in.Media.Empty() {
		kind := domain.MediaImage
		if mediaType == domain.BlogMediaVideo || strings.HasPrefix(in.Media.ContentType, "video/") {
			kind = domain.MediaVideo
		}
		url, err := s.upload(ctx, in.Media, kind)
		if err != nil {
			return nil, err
		}
		b.MediaURL = url
		mediaType = domain.BlogMediaType(kind)
	}
	switch mediaType {
	case domain.BlogMediaImage, domain.BlogMediaVideo, domain.BlogMediaNone:
	case "":
		mediaType = domain.BlogMediaNone
		if strings.TrimSpace(b.MediaURL) != "" {
			mediaType = domain.BlogMediaImage
		}
	default:
		return nil, apperrors.NewValidationError("mediaType must be none, image or video", map[string]any{"mediaType": mediaType})
	}
	b.MediaType = mediaType

	if err := s.blogs.Create(ctx, &b); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("blog created", zap.String("blog_id", b.ID), zap.String("media_type", string(b.MediaType)))
	return &b, nil
}

// ListBlogs returns blog posts, newest first.
func (s *CatalogService) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	return mapList(s.blogs.List(ctx))
}

// DeleteBlog removes a blog post.
func (s *CatalogService) DeleteBlog(ctx context.Context, id string) error {
	return deleteResource(ctx, "blog", id, s.blogs.Delete)
}

// CreateReview stores a testimonial.
func (s *CatalogService) CreateReview(ctx context.Context, in ReviewInput) (*domain.Review, error) {
	r := in.Review
	r.Text = strings.TrimSpace(r.Text)
	if err := requireField(r.Text, "text"); err != nil {
		return nil, err
	}
	url, err := s.uploadOr(ctx, in.Image, domain.MediaImage, r.ImageURL)
	if err != nil {
		return nil, err
	}
	r.ImageURL = url
	if err := s.reviews.Create(ctx, &r); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &r, nil
}

// ListReviews returns testimonials, newest first.
func (s *CatalogService) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return mapList(s.reviews.List(ctx))
}

// DeleteReview removes a testimonial.
func (s *CatalogService) DeleteReview(ctx context.Context, id string) error {
	return deleteResource(ctx, "review", id, s.reviews.Delete)
}

// CreatePlan stores a subscription plan.
func (s *CatalogService) CreatePlan(ctx context.Context, in PlanInput) (*domain.Plan, error) {
	p := in.Plan
	p.Title = strings.TrimSpace(p.Title)
	if err := requireField(p.Title, "title"); err != nil {
		return nil, err
	}
	if p.BillingPeriod == "" {
		p.BillingPeriod = domain.BillingMonthly
	}
	if !p.BillingPeriod.Valid() {
		return nil, apperrors.NewValidationError("unsupported billingPeriod", map[string]any{"billingPeriod": p.BillingPeriod})
	}
	url, err := s.uploadOr(ctx, in.Image, domain.MediaImage, p.ImageURL)
	if err != nil {
		return nil, err
	}
	p.ImageURL = url
	if err := s.plans.Create(ctx, &p); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &p, nil
}

// ListPlans returns plans by display order, then newest first.
func (s *CatalogService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return mapList(s.plans.List(ctx))
}

// DeletePlan removes a plan.
func (s *CatalogService) DeletePlan(ctx context.Context, id string) error {
	return deleteResource(ctx, "plan", id, s.plans.Delete)
}

// CreateFloatingText publishes a new banner message.
func (s *CatalogService) CreateFloatingText(ctx context.Context, text string) (*domain.FloatingText, error) {
	text = strings.TrimSpace(text)
	if err := requireField(text, "text"); err != nil {
		return nil, err
	}
	banner := &domain.FloatingText{Text: text}
	if err := s.banners.Create(ctx, banner); err != nil {
		return nil, apperrors.MapError(err)
	}
	return banner, nil
}

// LatestFloatingText returns the newest banner, or nil when there is none.
func (s *CatalogService) LatestFloatingText(ctx context.Context) (*domain.FloatingText, error) {
	banner, err := s.banners.Latest(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return banner, nil
}

// DeleteFloatingText removes a banner message.
func (s *CatalogService) DeleteFloatingText(ctx context.Context, id string) error {
	return deleteResource(ctx, "floating text", id, s.banners.Delete)
}

// CreateLucky adds an entry to the board named by in.Entry.Kind.
func (s *CatalogService) CreateLucky(ctx context.Context, in LuckyInput) (*domain.LuckyEntry, error) {
	e := in.Entry
	e.Name = strings.TrimSpace(e.Name)
	if err := requireField(e.Name, "name"); err != nil {
		return nil, err
	}
	url, err := s.uploadOr(ctx, in.Image, domain.MediaImage, e.ImageURL)
	if err != nil {
		return nil, err
	}
	e.ImageURL = url
	if err := s.lucky.Create(ctx, &e); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &e, nil
}

// ListLucky returns one board, newest first.
func (s *CatalogService) ListLucky(ctx context.Context, kind domain.LuckyKind) ([]domain.LuckyEntry, error) {
	return mapList(s.lucky.List(ctx, kind))
}

// DeleteLucky removes an entry from one board.
func (s *CatalogService) DeleteLucky(ctx context.Context, kind domain.LuckyKind, id string) error {
	return deleteResource(ctx, "lucky "+string(kind), id, func(ctx context.Context, id string) error {
		return s.lucky.Delete(ctx, kind, id)
	})
}

// UploadImage relays a standalone admin image and returns its URL.
func (s *CatalogService) UploadImage(ctx context.Context, file *domain.MediaFile) (string, error) {
	if file.Empty() {
		return "", apperrors.NewValidationError("no image uploaded", map[string]any{"field": "image"})
	}
	return s.upload(ctx, file, domain.MediaImage)
}

// ParseFeatures accepts either a JSON array or a comma-separated list.
func ParseFeatures(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return compact(list)
	}
	return compact(strings.Split(raw, ","))
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (s *CatalogService) uploadOr(ctx context.Context, file *domain.MediaFile, kind domain.MediaKind, fallback string) (string, error) {
	if file.Empty() {
		return strings.TrimSpace(fallback), nil
	}
	return s.upload(ctx, file, kind)
}

func (s *CatalogService) upload(ctx context.Context, file *domain.MediaFile, kind domain.MediaKind) (string, error) {
	return uploadMedia(ctx, s.uploader, s.logger, file, kind)
}

func uploadMedia(ctx context.Context, uploader MediaUploader, logger *zap.Logger, file *domain.MediaFile, kind domain.MediaKind) (string, error) {
	if uploader == nil {
		return "", apperrors.NewMediaUnavailable(nil)
	}
	url, err := uploader.Upload(ctx, file, kind)
	if err != nil {
		logger.Error("media upload failed", zap.String("kind", string(kind)), zap.Error(err))
		if apperrors.ToDomainError(err).Code == "MEDIA_UNAVAILABLE" {
			return "", err
		}
		return "", apperrors.NewMediaUnavailable(err)
	}
	return url, nil
}

func mapList[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

func deleteResource(ctx context.Context, resource, id string, del func(context.Context, string) error) error {
	details := map[string]any{"id": id}
	if !validID(id) {
		return apperrors.NewNotFound(resource, details)
	}
	if err := del(ctx, id); err != nil {
		return notFoundOrMap(err, resource, details)
	}
	return nil
}
