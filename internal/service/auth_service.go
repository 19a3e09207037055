package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/auth"
	"github.com/spec-kit/farmstore-service/internal/config"
	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/repository"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

// AuthService coordinates admin and staff login and admin bootstrap.
type AuthService struct {
	admins     repository.AdminRepository
	staff      repository.StaffRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	cfg        config.AuthConfig
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AdminRepo    repository.AdminRepository
	StaffRepo    repository.StaffRepository
	TokenManager *auth.TokenManager
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	tokens := deps.TokenManager
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	}
	return &AuthService{
		admins:     deps.AdminRepo,
		staff:      deps.StaffRepo,
		tokenMgr:   tokens,
		bcryptCost: cfg.Auth.BcryptCost,
		cfg:        cfg.Auth,
		logger:     loggerOrNop(deps.Logger),
	}
}

// LoginResult is a signed token plus the identity it was issued for.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  domain.Identity
}

var errInvalidCredentials = apperrors.NewUnauthorized("invalid credentials")

// LoginAdmin authenticates a console administrator.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if isNoRows(err) {
			return nil, errInvalidCredentials
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.PasswordMatches(admin.PasswordHash, password) {
		return nil, errInvalidCredentials
	}
	return s.issue(domain.Identity{Role: domain.RoleAdmin, Subject: admin.ID, Email: admin.Email})
}

// LoginStaff authenticates an active staff member by username.
func (s *AuthService) LoginStaff(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password required", nil)
	}
	staff, err := s.staff.GetByUsername(ctx, username)
	if err != nil {
		if isNoRows(err) {
			return nil, errInvalidCredentials
		}
		return nil, apperrors.MapError(err)
	}
	if !staff.Active || !auth.PasswordMatches(staff.PasswordHash, password) {
		return nil, errInvalidCredentials
	}
	return s.issue(domain.Identity{
		Role:      domain.RoleStaff,
		Subject:   staff.ID,
		StaffCode: staff.StaffCode,
		Username:  staff.Username,
		Name:      staff.Name,
	})
}

func (s *AuthService) issue(identity domain.Identity) (*LoginResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, Identity: identity}, nil
}

// BootstrapAdmin makes sure a usable admin account exists. With ADMIN_EMAIL and
// ADMIN_PASSWORD set, that account is created or its password re-hashed to match.
// Otherwise a default admin is created only when the table is empty.
func (s *AuthService) BootstrapAdmin(ctx context.Context) error {
	email := strings.ToLower(strings.TrimSpace(s.cfg.AdminEmail))
	if email != "" && s.cfg.AdminPassword != "" {
		return s.ensureAdmin(ctx, email, s.cfg.AdminPassword)
	}

	count, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := s.cfg.DefaultAdminPassword
	generated := password == ""
	if generated {
		password = uuid.NewString()
	}
	defaultEmail := strings.ToLower(strings.TrimSpace(s.cfg.DefaultAdminEmail))
	if err := s.createAdmin(ctx, defaultEmail, password); err != nil {
		return err
	}
	fields := []zap.Field{zap.String("email", defaultEmail)}
	if generated {
		fields = append(fields, zap.String("password", password))
	}
	s.logger.Warn("default admin created", fields...)
	return nil
}

func (s *AuthService) ensureAdmin(ctx context.Context, email, password string) error {
	existing, err := s.admins.GetByEmail(ctx, email)
	if err != nil && !isNoRows(err) {
		return err
	}
	if existing == nil {
		if err := s.createAdmin(ctx, email, password); err != nil {
			return err
		}
		s.logger.Info("admin created from environment", zap.String("email", email))
		return nil
	}
	if auth.PasswordMatches(existing.PasswordHash, password) {
		return nil
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.admins.UpdatePassword(ctx, existing.ID, hash); err != nil {
		return err
	}
	s.logger.Info("admin password updated from environment", zap.String("email", email))
	return nil
}

func (s *AuthService) createAdmin(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.admins.Create(ctx, &domain.Admin{Email: email, PasswordHash: hash})
}
