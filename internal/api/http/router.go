package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/api/http/handlers"
	"github.com/spec-kit/farmstore-service/internal/auth"
	"github.com/spec-kit/farmstore-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	Workflow       *handlers.WorkflowHandler
	Catalog        *handlers.CatalogHandler
	Forms          *handlers.FormsHandler
	Payments       *handlers.PaymentsHandler
	Surveys        *handlers.SurveysHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	admin := cfg.AuthMiddleware.RequireAdmin()
	staff := cfg.AuthMiddleware.RequireStaff()
	adminOrStaff := cfg.AuthMiddleware.RequireAdminOrStaff()

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Get("/health", cfg.Health.API)

	api.Post("/admin/login", cfg.Auth.AdminLogin)
	api.Get("/admin/metrics", admin, cfg.Admin.Metrics)
	api.Get("/admin/transfers", admin, cfg.Workflow.ListAllTransfers)
	api.Patch("/admin/orders/:orderNumber/status", admin, cfg.Workflow.OverrideStatus)

	// Fixed staff paths are registered before /staff/:id.
	api.Post("/staff/login", cfg.Auth.StaffLogin)
	api.Get("/staff/list", adminOrStaff, cfg.Staff.Directory)
	api.Post("/staff/assign", staff, cfg.Workflow.Claim)
	api.Get("/staff/my-assignments", staff, cfg.Workflow.MyAssignments)
	api.Get("/staff/my-completed", staff, cfg.Workflow.MyCompleted)
	api.Post("/staff/complete", staff, cfg.Workflow.Complete)
	api.Post("/staff/transfers", staff, cfg.Workflow.ProposeTransfer)
	api.Get("/staff/transfers", staff, cfg.Workflow.MyTransfers)
	api.Post("/staff/transfers/:id/accept", staff, cfg.Workflow.AcceptTransfer)
	api.Post("/staff/transfers/:id/reject", staff, cfg.Workflow.RejectTransfer)
	api.Get("/staff/orders/:orderNumber/progress", adminOrStaff, cfg.Workflow.Progress)

	api.Get("/staff", admin, cfg.Staff.ListStaff)
	api.Post("/staff", admin, cfg.Staff.CreateStaff)
	api.Patch("/staff/:id/active", admin, cfg.Staff.SetActive)
	api.Delete("/staff/:id", admin, cfg.Staff.Deactivate)

	api.Post("/staff-actions", staff, cfg.Workflow.RecordStatusAction)
	api.Get("/staff-actions", adminOrStaff, cfg.Workflow.LatestStatusActions)

	registerContentRoutes(api, cfg.Catalog, admin)
	registerFormRoutes(api, cfg.Forms, cfg.Payments, admin, adminOrStaff)

	api.Post("/surveys", admin, cfg.Surveys.Create)
	api.Get("/surveys", admin, cfg.Surveys.List)
	api.Get("/surveys/latest", cfg.Surveys.Latest)
	api.Delete("/surveys/:id", admin, cfg.Surveys.Delete)
	api.Post("/surveys/:id/responses", cfg.Surveys.Respond)
	api.Get("/surveys/:id/responses", admin, cfg.Surveys.Responses)
}

func registerContentRoutes(api fiber.Router, h *handlers.CatalogHandler, admin fiber.Handler) {
	api.Get("/floating-text", h.LatestFloatingText)
	api.Post("/floating-text", admin, h.CreateFloatingText)
	api.Delete("/floating-text/:id", admin, h.DeleteFloatingText)

	api.Get("/products", h.ListProducts)
	api.Post("/products", admin, h.CreateProduct)
	api.Delete("/products/:id", admin, h.DeleteProduct)

	api.Get("/blogs", h.ListBlogs)
	api.Post("/blogs", admin, h.CreateBlog)
	api.Delete("/blogs/:id", admin, h.DeleteBlog)

	api.Get("/reviews", h.ListReviews)
	api.Post("/reviews", admin, h.CreateReview)
	api.Delete("/reviews/:id", admin, h.DeleteReview)

	api.Get("/plans", h.ListPlans)
	api.Post("/plans", admin, h.CreatePlan)
	api.Delete("/plans/:id", admin, h.DeletePlan)

	for path, kind := range map[string]domain.LuckyKind{
		"/lucky-farmers":     domain.LuckyFarmer,
		"/lucky-subscribers": domain.LuckySubscriber,
	} {
		api.Get(path, h.ListLucky(kind))
		api.Post(path, admin, h.CreateLucky(kind))
		api.Delete(path+"/:id", admin, h.DeleteLucky(kind))
	}

	api.Post("/upload-image", admin, h.UploadImage)
}

func registerFormRoutes(api fiber.Router, forms *handlers.FormsHandler, payments *handlers.PaymentsHandler, admin, adminOrStaff fiber.Handler) {
	for path, kind := range map[string]domain.InquiryKind{
		"/contact":   domain.InquiryContact,
		"/callbacks": domain.InquiryCallback,
		"/enquiries": domain.InquiryEnquiry,
	} {
		api.Post(path, forms.SubmitInquiry(kind))
		api.Get(path, admin, forms.ListInquiries(kind))
		api.Delete(path+"/:id", admin, forms.DeleteInquiry(kind))
	}

	api.Post("/participants", forms.SubmitParticipant)
	api.Get("/participants", admin, forms.ListParticipants)
	api.Delete("/participants/:id", admin, forms.DeleteParticipant)

	api.Post("/subscribers", forms.Subscribe)
	api.Get("/subscribers", admin, forms.ListSubscribers)
	api.Delete("/subscribers/:id", admin, forms.DeleteSubscriber)

	api.Post("/payments", payments.Submit)
	api.Get("/payments", adminOrStaff, payments.List)
	api.Patch("/payments/:id/approve", admin, payments.Approve)
	api.Patch("/payments/:id/reject", admin, payments.Reject)
	api.Delete("/payments/:id", admin, payments.Delete)
}
