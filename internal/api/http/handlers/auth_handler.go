package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/api/dto"
	"github.com/spec-kit/farmstore-service/internal/service"
)

// AuthHandler exposes the admin and staff login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// AdminLogin handles POST /api/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.auth.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.AuthResponse{Token: res.Token, ExpiresAt: res.ExpiresAt})
}

// StaffLogin handles POST /api/staff/login.
func (h *AuthHandler) StaffLogin(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.auth.LoginStaff(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.StaffLoginResponse{
		AuthResponse: dto.AuthResponse{Token: res.Token, ExpiresAt: res.ExpiresAt},
		StaffCode:    res.Identity.StaffCode,
		Username:     res.Identity.Username,
		Name:         res.Identity.Name,
	})
}
