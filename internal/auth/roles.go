package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// RequireAdmin admits callers presenting the admin key or an admin token.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return m.require(domain.RoleAdmin)
}

// RequireStaff admits callers presenting a staff token.
func (m *AuthMiddleware) RequireStaff() fiber.Handler {
	return m.require(domain.RoleStaff)
}

// RequireAdminOrStaff admits either role, for shared read endpoints.
func (m *AuthMiddleware) RequireAdminOrStaff() fiber.Handler {
	return m.require(domain.RoleAdmin, domain.RoleStaff)
}
