package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/api/dto"
	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/service"
)

// FormsHandler captures public form submissions and exposes them to admins.
type FormsHandler struct {
	forms *service.FormsService
}

// NewFormsHandler constructs handler.
func NewFormsHandler(forms *service.FormsService) *FormsHandler {
	return &FormsHandler{forms: forms}
}

// SubmitInquiry serves the public POST for one inquiry kind.
func (h *FormsHandler) SubmitInquiry(kind domain.InquiryKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.InquiryRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		inquiry, err := h.forms.SubmitInquiry(c.UserContext(), domain.Inquiry{
			Kind:        kind,
			ProductName: req.ProductName,
			Name:        req.Name,
			Email:       req.Email,
			Phone:       req.Phone,
			Message:     req.Message,
		})
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusCreated, inquiry)
	}
}

// ListInquiries serves the admin GET for one inquiry kind.
func (h *FormsHandler) ListInquiries(kind domain.InquiryKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := h.forms.ListInquiries(c.UserContext(), kind)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, items)
	}
}

// DeleteInquiry serves the admin DELETE for one inquiry kind.
func (h *FormsHandler) DeleteInquiry(kind domain.InquiryKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return deleted(c, h.forms.DeleteInquiry(c.UserContext(), kind, c.Params("id")))
	}
}

// SubmitParticipant POST /api/participants.
func (h *FormsHandler) SubmitParticipant(c *fiber.Ctx) error {
	var req dto.ParticipantRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	participant, err := h.forms.SubmitParticipant(c.UserContext(), domain.Participant{
		Name:    req.Name,
		Role:    domain.ParticipantRole(req.Role),
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, participant)
}

// ListParticipants GET /api/participants.
func (h *FormsHandler) ListParticipants(c *fiber.Ctx) error {
	items, err := h.forms.ListParticipants(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// DeleteParticipant DELETE /api/participants/:id.
func (h *FormsHandler) DeleteParticipant(c *fiber.Ctx) error {
	return deleted(c, h.forms.DeleteParticipant(c.UserContext(), c.Params("id")))
}

// Subscribe POST /api/subscribers.
func (h *FormsHandler) Subscribe(c *fiber.Ctx) error {
	var req dto.SubscribeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sub, err := h.forms.Subscribe(c.UserContext(), req.Email, req.Source)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, sub)
}

// ListSubscribers GET /api/subscribers.
func (h *FormsHandler) ListSubscribers(c *fiber.Ctx) error {
	items, err := h.forms.ListSubscribers(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// DeleteSubscriber DELETE /api/subscribers/:id.
func (h *FormsHandler) DeleteSubscriber(c *fiber.Ctx) error {
	return deleted(c, h.forms.DeleteSubscriber(c.UserContext(), c.Params("id")))
}
