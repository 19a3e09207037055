package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/api/dto"
	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/service"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

// StaffHandler exposes staff account management and the staff directory.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staffService}
}

// CreateStaff handles POST /api/staff.
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.StaffCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	member, err := h.staff.Create(c.UserContext(), service.StaffCreateInput{
		Name:      req.Name,
		Username:  req.Username,
		Password:  req.Password,
		StaffCode: req.StaffCode,
		Active:    req.Active,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, staffResponse(member))
}

// ListStaff handles GET /api/staff.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	members, err := h.staff.List(c.UserContext())
	if err != nil {
		return err
	}
	onlyActive := parseBoolQuery(c, "active", false)
	resp := make([]dto.StaffResponse, 0, len(members))
	for i := range members {
		if onlyActive && !members[i].Active {
			continue
		}
		resp = append(resp, staffResponse(&members[i]))
	}
	return respond(c, fiber.StatusOK, resp)
}

// SetActive handles PATCH /api/staff/:id/active.
func (h *StaffHandler) SetActive(c *fiber.Ctx) error {
	var req dto.StaffActiveRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Active == nil {
		return apperrors.NewValidationError("active required", map[string]any{"field": "active"})
	}
	member, err := h.staff.SetActive(c.UserContext(), c.Params("id"), *req.Active)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, staffResponse(member))
}

// Deactivate handles DELETE /api/staff/:id. Staff rows are never hard-deleted.
func (h *StaffHandler) Deactivate(c *fiber.Ctx) error {
	member, err := h.staff.SetActive(c.UserContext(), c.Params("id"), false)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, staffResponse(member))
}

// Directory handles GET /api/staff/list.
func (h *StaffHandler) Directory(c *fiber.Ctx) error {
	entries, err := h.staff.Directory(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, entries)
}

func staffResponse(staff *domain.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		ID:        staff.ID,
		Name:      staff.Name,
		Username:  staff.Username,
		StaffCode: staff.StaffCode,
		Active:    staff.Active,
		CreatedAt: staff.CreatedAt,
		UpdatedAt: staff.UpdatedAt,
	}
}
