package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/api/dto"
	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/service"
)

// CatalogHandler serves storefront content. Reads are public; writes are admin only.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts GET /api/products.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	items, err := h.catalog.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// CreateProduct POST /api/products.
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	image, err := mediaFromForm(c, "image")
	if err != nil {
		return err
	}
	product, err := h.catalog.CreateProduct(c.UserContext(), service.ProductInput{
		Product: domain.Product{
			Name:           req.Name,
			Description:    req.Description,
			Price:          req.Price,
			VideoURL:       req.VideoURL,
			WhatsappNumber: req.WhatsappNumber,
			ImageURL:       req.ImageURL,
		},
		Image: image,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, product)
}

// DeleteProduct DELETE /api/products/:id.
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	return deleted(c, h.catalog.DeleteProduct(c.UserContext(), c.Params("id")))
}

// ListBlogs GET /api/blogs.
func (h *CatalogHandler) ListBlogs(c *fiber.Ctx) error {
	items, err := h.catalog.ListBlogs(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// CreateBlog POST /api/blogs.
func (h *CatalogHandler) CreateBlog(c *fiber.Ctx) error {
	var req dto.BlogRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	media, err := mediaFromForm(c, "media")
	if err != nil {
		return err
	}
	blog, err := h.catalog.CreateBlog(c.UserContext(), service.BlogInput{
		Blog: domain.Blog{
			Title:     req.Title,
			Content:   req.Content,
			MediaType: domain.BlogMediaType(req.MediaType),
			MediaURL:  req.MediaURL,
		},
		Media: media,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, blog)
}

// DeleteBlog DELETE /api/blogs/:id.
func (h *CatalogHandler) DeleteBlog(c *fiber.Ctx) error {
	return deleted(c, h.catalog.DeleteBlog(c.UserContext(), c.Params("id")))
}

// ListReviews GET /api/reviews.
func (h *CatalogHandler) ListReviews(c *fiber.Ctx) error {
	items, err := h.catalog.ListReviews(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// CreateReview POST /api/reviews.
func (h *CatalogHandler) CreateReview(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	image, err := mediaFromForm(c, "image")
	if err != nil {
		return err
	}
	review, err := h.catalog.CreateReview(c.UserContext(), service.ReviewInput{
		Review: domain.Review{Name: req.Name, Text: req.Text, ImageURL: req.ImageURL},
		Image:  image,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, review)
}

// DeleteReview DELETE /api/reviews/:id.
func (h *CatalogHandler) DeleteReview(c *fiber.Ctx) error {
	return deleted(c, h.catalog.DeleteReview(c.UserContext(), c.Params("id")))
}

// ListPlans GET /api/plans.
func (h *CatalogHandler) ListPlans(c *fiber.Ctx) error {
	items, err := h.catalog.ListPlans(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// CreatePlan POST /api/plans.
func (h *CatalogHandler) CreatePlan(c *fiber.Ctx) error {
	var req dto.PlanRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	image, err := mediaFromForm(c, "image")
	if err != nil {
		return err
	}
	plan, err := h.catalog.CreatePlan(c.UserContext(), service.PlanInput{
		Plan: domain.Plan{
			Title:         req.Title,
			Price:         req.Price,
			BillingPeriod: domain.BillingPeriod(req.BillingPeriod),
			Features:      planFeatures(c, req.Features),
			Description:   req.Description,
			ImageURL:      req.ImageURL,
			Popular:       req.Popular,
			SortOrder:     req.Order,
		},
		Image: image,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, plan)
}

// DeletePlan DELETE /api/plans/:id.
func (h *CatalogHandler) DeletePlan(c *fiber.Ctx) error {
	return deleted(c, h.catalog.DeletePlan(c.UserContext(), c.Params("id")))
}

// LatestFloatingText GET /api/floating-text. The body is {"data": null} when none exists.
func (h *CatalogHandler) LatestFloatingText(c *fiber.Ctx) error {
	banner, err := h.catalog.LatestFloatingText(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, banner)
}

// CreateFloatingText POST /api/floating-text.
func (h *CatalogHandler) CreateFloatingText(c *fiber.Ctx) error {
	var req dto.FloatingTextRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	banner, err := h.catalog.CreateFloatingText(c.UserContext(), req.Text)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, banner)
}

// DeleteFloatingText DELETE /api/floating-text/:id.
func (h *CatalogHandler) DeleteFloatingText(c *fiber.Ctx) error {
	return deleted(c, h.catalog.DeleteFloatingText(c.UserContext(), c.Params("id")))
}

// ListLucky serves GET for one lucky board.
func (h *CatalogHandler) ListLucky(kind domain.LuckyKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := h.catalog.ListLucky(c.UserContext(), kind)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, items)
	}
}

// CreateLucky serves POST for one lucky board.
func (h *CatalogHandler) CreateLucky(kind domain.LuckyKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.LuckyRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		image, err := mediaFromForm(c, "image")
		if err != nil {
			return err
		}
		entry, err := h.catalog.CreateLucky(c.UserContext(), service.LuckyInput{
			Entry: domain.LuckyEntry{
				Kind:     kind,
				Name:     req.Name,
				Content:  req.Content,
				Phone:    req.Phone,
				ImageURL: req.ImageURL,
			},
			Image: image,
		})
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusCreated, entry)
	}
}

// DeleteLucky serves DELETE for one lucky board.
func (h *CatalogHandler) DeleteLucky(kind domain.LuckyKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return deleted(c, h.catalog.DeleteLucky(c.UserContext(), kind, c.Params("id")))
	}
}

// UploadImage POST /api/upload-image.
func (h *CatalogHandler) UploadImage(c *fiber.Ctx) error {
	image, err := mediaFromForm(c, "image")
	if err != nil {
		return err
	}
	url, err := h.catalog.UploadImage(c.UserContext(), image)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, dto.UploadResponse{URL: url})
}

func planFeatures(c *fiber.Ctx, raw json.RawMessage) []string {
	if v := c.FormValue("features"); v != "" {
		return service.ParseFeatures(v)
	}
	if len(raw) == 0 {
		return []string{}
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return service.ParseFeatures(text)
	}
	return service.ParseFeatures(string(raw))
}

func deleted(c *fiber.Ctx, err error) error {
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"id": c.Params("id"), "deleted": true})
}
