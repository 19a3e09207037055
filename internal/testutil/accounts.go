package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/repository"
)

// Staff is an in-memory repository.StaffRepository with unique username and code.
type Staff struct {
	mu    sync.Mutex
	clock *Clock
	rows  []*domain.StaffMember
	// ListCalls counts List invocations.
	ListCalls int
}

// NewStaff builds an empty staff store.
func NewStaff(clock *Clock) *Staff {
	return &Staff{clock: clock}
}

var _ repository.StaffRepository = (*Staff)(nil)

func (s *Staff) Create(_ context.Context, staff *domain.StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Username == staff.Username || row.StaffCode == staff.StaffCode {
			return fmt.Errorf("%w: staff_members", repository.ErrDuplicate)
		}
	}
	now := s.clock.Now()
	staff.ID = newID()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	row := *staff
	s.rows = append(s.rows, &row)
	return nil
}

func (s *Staff) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	return s.find(func(m *domain.StaffMember) bool { return m.ID == id })
}

func (s *Staff) GetByUsername(_ context.Context, username string) (*domain.StaffMember, error) {
	return s.find(func(m *domain.StaffMember) bool { return m.Username == username })
}

func (s *Staff) GetByStaffCode(_ context.Context, code string) (*domain.StaffMember, error) {
	return s.find(func(m *domain.StaffMember) bool { return m.StaffCode == code })
}

func (s *Staff) List(_ context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	out := []domain.StaffMember{}
	for _, row := range s.rows {
		if filter.Active != nil && row.Active != *filter.Active {
			continue
		}
		out = append(out, *row)
	}
	sortNewestFirst(out, func(m domain.StaffMember) time.Time { return m.CreatedAt })
	return out, nil
}

func (s *Staff) SetActive(_ context.Context, id string, active bool) (*domain.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.ID == id {
			row.Active = active
			row.UpdatedAt = s.clock.Now()
			out := *row
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *Staff) find(match func(*domain.StaffMember) bool) (*domain.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if match(row) {
			out := *row
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// Admins is an in-memory repository.AdminRepository.
type Admins struct {
	mu    sync.Mutex
	clock *Clock
	rows  []*domain.Admin
}

// NewAdmins builds an empty admin store.
func NewAdmins(clock *Clock) *Admins {
	return &Admins{clock: clock}
}

var _ repository.AdminRepository = (*Admins)(nil)

func (a *Admins) Create(_ context.Context, admin *domain.Admin) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, row := range a.rows {
		if row.Email == admin.Email {
			return fmt.Errorf("%w: admins_email", repository.ErrDuplicate)
		}
	}
	now := a.clock.Now()
	admin.ID = newID()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	row := *admin
	a.rows = append(a.rows, &row)
	return nil
}

func (a *Admins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, row := range a.rows {
		if row.Email == email {
			out := *row
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (a *Admins) Count(_ context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.rows), nil
}

func (a *Admins) UpdatePassword(_ context.Context, id, passwordHash string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, row := range a.rows {
		if row.ID == id {
			row.PasswordHash = passwordHash
			row.UpdatedAt = a.clock.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}
