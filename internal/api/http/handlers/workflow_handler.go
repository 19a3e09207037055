package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/api/dto"
	"github.com/spec-kit/farmstore-service/internal/auth"
	"github.com/spec-kit/farmstore-service/internal/service"
)

// WorkflowHandler serves the staff order workflow: claims, transfers and status moves.
type WorkflowHandler struct {
	assignments *service.AssignmentService
	transfers   *service.TransferService
	status      *service.StatusService
}

// NewWorkflowHandler constructs handler.
func NewWorkflowHandler(assignments *service.AssignmentService, transfers *service.TransferService, status *service.StatusService) *WorkflowHandler {
	return &WorkflowHandler{assignments: assignments, transfers: transfers, status: status}
}

// Claim POST /api/staff/assign.
func (h *WorkflowHandler) Claim(c *fiber.Ctx) error {
	staff, err := auth.StaffIdentity(c)
	if err != nil {
		return err
	}
	var req dto.ClaimRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	assignment, err := h.assignments.Claim(c.UserContext(), staff.StaffCode, service.ClaimInput{
		OrderNumber: req.OrderNumber,
		OrderID:     req.OrderID,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, assignment)
}

// MyAssignments GET /api/staff/my-assignments.
func (h *WorkflowHandler) MyAssignments(c *fiber.Ctx) error {
	staff, err := auth.StaffIdentity(c)
	if err != nil {
		return err
	}
	items, err := h.assignments.ListActive(c.UserContext(), staff.StaffCode)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// MyCompleted GET /api/staff/my-completed.
func (h *WorkflowHandler) MyCompleted(c *fiber.Ctx) error {
	staff, err := auth.StaffIdentity(c)
	if err != nil {
		return err
	}
	items, err := h.assignments.ListCompleted(c.UserContext(), staff.StaffCode)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// Complete POST /api/staff/complete.
func (h *WorkflowHandler) Complete(c *fiber.Ctx) error {
	staff, err := auth.StaffIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CompleteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	assignment, err := h.assignments.Complete(c.UserContext(), staff.StaffCode, req.OrderNumber)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, assignment)
}

// ProposeTransfer POST /api/staff/transfers.
func (h *WorkflowHandler) ProposeTransfer(c *fiber.Ctx) error {
	staff, err := auth.StaffIdentity(c)
	if err != nil {
		return err
	}
	var req dto.TransferCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	transfer, err := h.transfers.Propose(c.UserContext(), staff.StaffCode, req.OrderNumber, req.ToStaff)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, transfer)
}

// MyTransfers GET /api/staff/transfers.
func (h *WorkflowHandler) MyTransfers(c *fiber.Ctx) error {
	staff, err := auth.StaffIdentity(c)
	if err != nil {
		return err
	}
	items, err := h.transfers.ListMine(c.UserContext(), staff.StaffCode)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// AcceptTransfer POST /api/staff/transfers/:id/accept.
func (h *WorkflowHandler) AcceptTransfer(c *fiber.Ctx) error {
	staff, err := auth.StaffIdentity(c)
	if err != nil {
		return err
	}
	transfer, err := h.transfers.Accept(c.UserContext(), staff.StaffCode, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, transfer)
}

// RejectTransfer POST /api/staff/transfers/:id/reject.
func (h *WorkflowHandler) RejectTransfer(c *fiber.Ctx) error {
	staff, err := auth.StaffIdentity(c)
	if err != nil {
		return err
	}
	transfer, err := h.transfers.Reject(c.UserContext(), staff.StaffCode, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, transfer)
}

// ListAllTransfers GET /api/admin/transfers.
func (h *WorkflowHandler) ListAllTransfers(c *fiber.Ctx) error {
	items, err := h.transfers.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// RecordStatusAction POST /api/staff-actions.
func (h *WorkflowHandler) RecordStatusAction(c *fiber.Ctx) error {
	staff, err := auth.StaffIdentity(c)
	if err != nil {
		return err
	}
	var req dto.StatusActionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	action, err := h.status.RecordStatusAction(c.UserContext(), staff.StaffCode, service.StatusActionInput{
		OrderNumber: req.OrderNumber,
		OrderID:     req.OrderID,
		PrevStatus:  req.PrevStatus,
		NewStatus:   req.NewStatus,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, action)
}

// LatestStatusActions GET /api/staff-actions?orderNumbers=a,b.
func (h *WorkflowHandler) LatestStatusActions(c *fiber.Ctx) error {
	latest, err := h.status.LatestStatusActions(c.UserContext(), strings.Split(c.Query("orderNumbers"), ","))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, latest)
}

// Progress GET /api/staff/orders/:orderNumber/progress.
func (h *WorkflowHandler) Progress(c *fiber.Ctx) error {
	progress, err := h.status.Progress(c.UserContext(), c.Params("orderNumber"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, progress)
}

// OverrideStatus PATCH /api/admin/orders/:orderNumber/status.
func (h *WorkflowHandler) OverrideStatus(c *fiber.Ctx) error {
	var req dto.StatusOverrideRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	orderNumber := c.Params("orderNumber")
	status, err := h.status.OverrideStatus(c.UserContext(), orderNumber, req.Status)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"orderNumber": orderNumber, "status": status})
}
