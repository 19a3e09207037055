package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/api/dto"
	"github.com/spec-kit/farmstore-service/internal/service"
)

// SurveysHandler serves survey definitions and responses.
type SurveysHandler struct {
	surveys *service.SurveyService
}

// NewSurveysHandler constructs handler.
func NewSurveysHandler(surveys *service.SurveyService) *SurveysHandler {
	return &SurveysHandler{surveys: surveys}
}

// Create POST /api/surveys.
func (h *SurveysHandler) Create(c *fiber.Ctx) error {
	var req dto.SurveyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	survey, err := h.surveys.Create(c.UserContext(), service.SurveyInput{
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, survey)
}

// List GET /api/surveys.
func (h *SurveysHandler) List(c *fiber.Ctx) error {
	items, err := h.surveys.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// Latest GET /api/surveys/latest.
func (h *SurveysHandler) Latest(c *fiber.Ctx) error {
	survey, err := h.surveys.Latest(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, survey)
}

// Delete DELETE /api/surveys/:id.
func (h *SurveysHandler) Delete(c *fiber.Ctx) error {
	return deleted(c, h.surveys.Delete(c.UserContext(), c.Params("id")))
}

// Respond POST /api/surveys/:id/responses.
func (h *SurveysHandler) Respond(c *fiber.Ctx) error {
	var req dto.SurveyAnswerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.surveys.Respond(c.UserContext(), c.Params("id"), req.AnswerStrings(), req.Meta)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, resp)
}

// Responses GET /api/surveys/:id/responses.
func (h *SurveysHandler) Responses(c *fiber.Ctx) error {
	items, err := h.surveys.Responses(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}
