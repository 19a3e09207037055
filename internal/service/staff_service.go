package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/auth"
	"github.com/spec-kit/farmstore-service/internal/config"
	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/repository"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

// StaffDirectoryCache stores the active staff directory between requests.
type StaffDirectoryCache interface {
	Get(ctx context.Context) ([]domain.StaffSummary, bool, error)
	Set(ctx context.Context, entries []domain.StaffSummary) error
	Invalidate(ctx context.Context) error
}

// StaffService manages staff accounts and the directory used by transfer pickers.
type StaffService struct {
	staff      repository.StaffRepository
	cache      StaffDirectoryCache
	bcryptCost int
	logger     *zap.Logger
}

// StaffDependencies bundles collaborators.
type StaffDependencies struct {
	StaffRepo repository.StaffRepository
	Cache     StaffDirectoryCache
	Logger    *zap.Logger
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, deps StaffDependencies) *StaffService {
	return &StaffService{
		staff:      deps.StaffRepo,
		cache:      deps.Cache,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     loggerOrNop(deps.Logger),
	}
}

// StaffCreateInput describes a new staff account.
type StaffCreateInput struct {
	Name      string
	Username  string
	Password  string
	StaffCode string
	Active    *bool
}

// Create registers a staff member. Username is stored lowercase and the code uppercase.
func (s *StaffService) Create(ctx context.Context, in StaffCreateInput) (*domain.StaffMember, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	code := strings.ToUpper(strings.TrimSpace(in.StaffCode))
	if username == "" || in.Password == "" || code == "" {
		return nil, apperrors.NewValidationError("username, password, staffCode required", nil)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	member := &domain.StaffMember{
		Name:         strings.TrimSpace(in.Name),
		Username:     username,
		PasswordHash: hash,
		StaffCode:    code,
		Active:       in.Active == nil || *in.Active,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.NewConflict("username or staff code already in use", map[string]any{
				"username":  username,
				"staffCode": code,
			})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("staff created", zap.String("staff_code", code), zap.String("username", username))
	s.invalidate(ctx)
	return member, nil
}

// List returns every staff account, newest first.
func (s *StaffService) List(ctx context.Context) ([]domain.StaffMember, error) {
	items, err := s.staff.List(ctx, repository.StaffFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// SetActive toggles a staff account. Accounts are never hard-deleted.
func (s *StaffService) SetActive(ctx context.Context, id string, active bool) (*domain.StaffMember, error) {
	details := map[string]any{"id": id}
	if !validID(id) {
		return nil, apperrors.NewNotFound("staff", details)
	}
	member, err := s.staff.SetActive(ctx, id, active)
	if err != nil {
		return nil, notFoundOrMap(err, "staff", details)
	}
	s.logger.Info("staff active changed", zap.String("staff_code", member.StaffCode), zap.Bool("active", active))
	s.invalidate(ctx)
	return member, nil
}

// Directory lists active staff for transfer pickers, served from cache when possible.
func (s *StaffService) Directory(ctx context.Context) ([]domain.StaffSummary, error) {
	if s.cache != nil {
		entries, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("staff directory cache read failed", zap.Error(err))
		} else if ok {
			return entries, nil
		}
	}

	active := true
	members, err := s.staff.List(ctx, repository.StaffFilter{Active: &active})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	entries := make([]domain.StaffSummary, 0, len(members))
	for _, m := range members {
		entries = append(entries, m.Summary())
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, entries); err != nil {
			s.logger.Warn("staff directory cache write failed", zap.Error(err))
		}
	}
	return entries, nil
}

func (s *StaffService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("staff directory cache invalidation failed", zap.Error(err))
	}
}
