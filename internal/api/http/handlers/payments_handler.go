package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/api/dto"
	"github.com/spec-kit/farmstore-service/internal/service"
)

// PaymentsHandler accepts payment proofs and serves the moderation queue.
type PaymentsHandler struct {
	payments *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// Submit POST /api/payments (multipart, "proof" file).
func (h *PaymentsHandler) Submit(c *fiber.Ctx) error {
	var req dto.PaymentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	proof, err := mediaFromForm(c, "proof")
	if err != nil {
		return err
	}
	payment, err := h.payments.Submit(c.UserContext(), service.PaymentInput{
		OrderNumber:   req.OrderNumber,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Amount:        req.Amount,
		Method:        req.Method,
		Proof:         proof,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, payment)
}

// List GET /api/payments.
func (h *PaymentsHandler) List(c *fiber.Ctx) error {
	items, err := h.payments.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// Approve PATCH /api/payments/:id/approve.
func (h *PaymentsHandler) Approve(c *fiber.Ctx) error {
	payment, err := h.payments.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, payment)
}

// Reject PATCH /api/payments/:id/reject.
func (h *PaymentsHandler) Reject(c *fiber.Ctx) error {
	payment, err := h.payments.Reject(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, payment)
}

// Delete DELETE /api/payments/:id.
func (h *PaymentsHandler) Delete(c *fiber.Ctx) error {
	return deleted(c, h.payments.Delete(c.UserContext(), c.Params("id")))
}
