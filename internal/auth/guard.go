package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/spec-kit/farmstore-service/internal/domain"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

// Credentials is the raw credential material presented with a request.
type Credentials struct {
	AdminKey      string
	Authorization string
}

// Guard classifies callers from their credentials.
type Guard struct {
	tokens   *TokenManager
	adminKey string
}

// NewGuard builds a guard. An empty adminKey disables the shared-secret path.
func NewGuard(tokens *TokenManager, adminKey string) *Guard {
	return &Guard{tokens: tokens, adminKey: adminKey}
}

// Classify returns the caller identity. Missing credentials yield an anonymous
// identity; a bearer token that fails verification is an error.
func (g *Guard) Classify(creds Credentials) (domain.Identity, error) {
	if g.adminKeyMatches(creds.AdminKey) {
		return domain.Identity{Role: domain.RoleAdmin, Subject: "admin-key"}, nil
	}

	header := strings.TrimSpace(creds.Authorization)
	if header == "" {
		return domain.Identity{Role: domain.RoleAnonymous}, nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return domain.Identity{Role: domain.RoleAnonymous}, nil
	}

	claims, err := g.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.Identity{}, apperrors.NewUnauthorized("invalid token")
	}

	identity := claims.Identity()
	switch identity.Role {
	case domain.RoleAdmin:
		return identity, nil
	case domain.RoleStaff:
		if !identity.IsStaff() {
			return domain.Identity{}, apperrors.NewUnauthorized("staff token missing staff code")
		}
		return identity, nil
	default:
		return domain.Identity{}, apperrors.NewUnauthorized("unknown role")
	}
}

// Authorize classifies the caller and requires its role to be one of allowed.
func (g *Guard) Authorize(creds Credentials, allowed ...domain.Role) (domain.Identity, error) {
	identity, err := g.Classify(creds)
	if err != nil {
		return domain.Identity{}, err
	}
	for _, role := range allowed {
		if identity.Role == role {
			return identity, nil
		}
	}
	return domain.Identity{}, apperrors.NewUnauthorized("unauthorized")
}

func (g *Guard) adminKeyMatches(presented string) bool {
	if g.adminKey == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(g.adminKey)) == 1
}
