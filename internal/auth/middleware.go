package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/domain"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// AdminKeyHeader carries the static admin secret.
const AdminKeyHeader = "X-Admin-Key"

// AuthMiddleware adapts the Guard to Fiber routes.
type AuthMiddleware struct {
	guard *Guard
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(guard *Guard) *AuthMiddleware {
	return &AuthMiddleware{guard: guard}
}

// CredentialsFromRequest extracts credential headers from the request.
func CredentialsFromRequest(c *fiber.Ctx) Credentials {
	return Credentials{
		AdminKey:      c.Get(AdminKeyHeader),
		Authorization: c.Get(fiber.HeaderAuthorization),
	}
}

func (m *AuthMiddleware) require(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := m.guard.Authorize(CredentialsFromRequest(c), allowed...)
		if err != nil {
			return err
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// IdentityFromContext retrieves the identity attached by one of the Require guards.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}

// StaffIdentity returns the acting staff member or an unauthorized error.
func StaffIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := IdentityFromContext(c)
	if !ok || !identity.IsStaff() {
		return domain.Identity{}, apperrors.NewUnauthorized("staff required")
	}
	return identity, nil
}
