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

// Assignments is an in-memory repository.AssignmentRepository.
type Assignments struct {
	mu    sync.Mutex
	clock *Clock
	rows  []*domain.StaffAssignment
	// CreateErr, when set, is returned by the next Create.
	CreateErr error
}

// NewAssignments builds an empty ledger.
func NewAssignments(clock *Clock) *Assignments {
	return &Assignments{clock: clock}
}

var _ repository.AssignmentRepository = (*Assignments)(nil)

func (a *Assignments) Create(_ context.Context, assignment *domain.StaffAssignment) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.CreateErr != nil {
		err := a.CreateErr
		a.CreateErr = nil
		return err
	}
	if assignment.Status == domain.AssignmentActive && a.activeLocked(assignment.OrderNumber) != nil {
		return fmt.Errorf("%w: staff_assignments_one_active", repository.ErrDuplicate)
	}
	now := a.clock.Now()
	assignment.ID = newID()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	row := *assignment
	a.rows = append(a.rows, &row)
	return nil
}

func (a *Assignments) GetActiveByOrder(_ context.Context, orderNumber string) (*domain.StaffAssignment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	row := a.activeLocked(orderNumber)
	if row == nil {
		return nil, pgx.ErrNoRows
	}
	out := *row
	return &out, nil
}

func (a *Assignments) ListByStaff(_ context.Context, staffCode string, status domain.AssignmentStatus) ([]domain.StaffAssignment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []domain.StaffAssignment{}
	for _, row := range a.rows {
		if row.StaffCode == staffCode && row.Status == status {
			out = append(out, *row)
		}
	}
	if status == domain.AssignmentCompleted {
		sortNewestFirst(out, func(r domain.StaffAssignment) time.Time { return r.UpdatedAt })
	} else {
		sortNewestFirst(out, func(r domain.StaffAssignment) time.Time { return r.CreatedAt })
	}
	return out, nil
}

func (a *Assignments) CompleteActive(_ context.Context, orderNumber, staffCode string) (*domain.StaffAssignment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	row := a.activeLocked(orderNumber)
	if row == nil || row.StaffCode != staffCode {
		return nil, pgx.ErrNoRows
	}
	row.Status = domain.AssignmentCompleted
	row.UpdatedAt = a.clock.Now()
	out := *row
	return &out, nil
}

func (a *Assignments) Reassign(_ context.Context, orderNumber, fromStaff, toStaff string) (*domain.StaffAssignment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	row := a.activeLocked(orderNumber)
	if row == nil || (row.StaffCode != fromStaff && row.StaffCode != toStaff) {
		return nil, pgx.ErrNoRows
	}
	row.StaffCode = toStaff
	row.UpdatedAt = a.clock.Now()
	out := *row
	return &out, nil
}

// All returns a copy of every row in insertion order.
func (a *Assignments) All() []domain.StaffAssignment {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.StaffAssignment, 0, len(a.rows))
	for _, row := range a.rows {
		out = append(out, *row)
	}
	return out
}

// ActiveCount returns how many active rows exist for orderNumber.
func (a *Assignments) ActiveCount(orderNumber string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, row := range a.rows {
		if row.OrderNumber == orderNumber && row.Status == domain.AssignmentActive {
			n++
		}
	}
	return n
}

func (a *Assignments) activeLocked(orderNumber string) *domain.StaffAssignment {
	for _, row := range a.rows {
		if row.OrderNumber == orderNumber && row.Status == domain.AssignmentActive {
			return row
		}
	}
	return nil
}

// Transfers is an in-memory repository.TransferRepository.
type Transfers struct {
	mu    sync.Mutex
	clock *Clock
	rows  []*domain.TransferRequest
	// DecideErr, when set, is returned by the next Decide.
	DecideErr error
	// BeforeDecide, when set, runs at the start of every Decide before the
	// store lock is taken.
	BeforeDecide func()
}

// NewTransfers builds an empty transfer store.
func NewTransfers(clock *Clock) *Transfers {
	return &Transfers{clock: clock}
}

var _ repository.TransferRepository = (*Transfers)(nil)

func (t *Transfers) Create(_ context.Context, transfer *domain.TransferRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if transfer.Status == domain.TransferPending && t.pendingLocked(transfer.OrderNumber) != nil {
		return fmt.Errorf("%w: transfer_requests_one_pending", repository.ErrDuplicate)
	}
	now := t.clock.Now()
	transfer.ID = newID()
	transfer.CreatedAt = now
	transfer.UpdatedAt = now
	row := *transfer
	t.rows = append(t.rows, &row)
	return nil
}

func (t *Transfers) GetByID(_ context.Context, id string) (*domain.TransferRequest, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range t.rows {
		if row.ID == id {
			out := *row
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (t *Transfers) GetPendingByOrder(_ context.Context, orderNumber string) (*domain.TransferRequest, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row := t.pendingLocked(orderNumber)
	if row == nil {
		return nil, pgx.ErrNoRows
	}
	out := *row
	return &out, nil
}

func (t *Transfers) ListByStaff(_ context.Context, staffCode string) ([]domain.TransferRequest, error) {
	return t.list(func(r *domain.TransferRequest) bool {
		return r.FromStaff == staffCode || r.ToStaff == staffCode
	}), nil
}

func (t *Transfers) ListAll(_ context.Context) ([]domain.TransferRequest, error) {
	return t.list(func(*domain.TransferRequest) bool { return true }), nil
}

func (t *Transfers) Decide(_ context.Context, id string, status domain.TransferStatus) (*domain.TransferRequest, error) {
	if t.BeforeDecide != nil {
		t.BeforeDecide()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.DecideErr != nil {
		err := t.DecideErr
		t.DecideErr = nil
		return nil, err
	}
	for _, row := range t.rows {
		if row.ID == id && row.Status == domain.TransferPending {
			now := t.clock.Now()
			row.Status = status
			row.DecidedAt = &now
			row.UpdatedAt = now
			out := *row
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (t *Transfers) list(keep func(*domain.TransferRequest) bool) []domain.TransferRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := []domain.TransferRequest{}
	for _, row := range t.rows {
		if keep(row) {
			out = append(out, *row)
		}
	}
	sortNewestFirst(out, func(r domain.TransferRequest) time.Time { return r.CreatedAt })
	return out
}

func (t *Transfers) pendingLocked(orderNumber string) *domain.TransferRequest {
	for _, row := range t.rows {
		if row.OrderNumber == orderNumber && row.Status == domain.TransferPending {
			return row
		}
	}
	return nil
}

// Actions is an in-memory repository.StaffActionRepository.
type Actions struct {
	mu    sync.Mutex
	clock *Clock
	rows  []domain.StaffOrderAction
	// CreateErr, when set, is returned by the next Create.
	CreateErr error
}

// NewActions builds an empty action log.
func NewActions(clock *Clock) *Actions {
	return &Actions{clock: clock}
}

var _ repository.StaffActionRepository = (*Actions)(nil)

// Create appends an entry; AdvanceStatus calls it under the order lock.
func (a *Actions) Create(_ context.Context, action *domain.StaffOrderAction) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.CreateErr != nil {
		err := a.CreateErr
		a.CreateErr = nil
		return err
	}
	action.ID = newID()
	action.CreatedAt = a.clock.Now()
	a.rows = append(a.rows, *action)
	return nil
}

func (a *Actions) LatestPerOrder(_ context.Context, orderNumbers []string) (map[string]domain.StaffOrderAction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	wanted := make(map[string]struct{}, len(orderNumbers))
	for _, n := range orderNumbers {
		wanted[n] = struct{}{}
	}
	out := map[string]domain.StaffOrderAction{}
	for _, row := range a.rows {
		if _, ok := wanted[row.OrderNumber]; !ok {
			continue
		}
		if cur, ok := out[row.OrderNumber]; !ok || !row.CreatedAt.Before(cur.CreatedAt) {
			out[row.OrderNumber] = row
		}
	}
	return out, nil
}

func (a *Actions) latestID(orderNumber string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.rows) - 1; i >= 0; i-- {
		if a.rows[i].OrderNumber == orderNumber {
			return a.rows[i].ID
		}
	}
	return ""
}

// ForOrder returns every entry for orderNumber in insertion order.
func (a *Actions) ForOrder(orderNumber string) []domain.StaffOrderAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []domain.StaffOrderAction
	for _, row := range a.rows {
		if row.OrderNumber == orderNumber {
			out = append(out, row)
		}
	}
	return out
}

// Orders is an in-memory repository.OrderRepository. AdvanceStatus writes to
// the attached action log and assignment ledger under the order lock.
type Orders struct {
	mu          sync.Mutex
	statuses    map[string]domain.OrderStatus
	actions     *Actions
	assignments *Assignments
	// BeforeAdvance, when set, runs at the start of every AdvanceStatus
	// before the order lock is taken.
	BeforeAdvance func()
}

// NewOrders builds an order store seeded with statuses keyed by order number.
func NewOrders(seed map[string]domain.OrderStatus) *Orders {
	statuses := make(map[string]domain.OrderStatus, len(seed))
	for k, v := range seed {
		statuses[k] = v
	}
	return &Orders{statuses: statuses}
}

// Attach links the stores AdvanceStatus writes through to.
func (o *Orders) Attach(actions *Actions, assignments *Assignments) *Orders {
	o.actions = actions
	o.assignments = assignments
	return o
}

var _ repository.OrderRepository = (*Orders)(nil)

func (o *Orders) GetStatus(_ context.Context, orderNumber string) (domain.OrderStatus, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status, ok := o.statuses[orderNumber]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return status, nil
}

func (o *Orders) SetStatus(_ context.Context, orderNumber string, status domain.OrderStatus) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.statuses[orderNumber]; !ok {
		return pgx.ErrNoRows
	}
	o.statuses[orderNumber] = status
	return nil
}

func (o *Orders) AdvanceStatus(ctx context.Context, adv repository.StatusAdvance) (*domain.StaffAssignment, error) {
	if o.BeforeAdvance != nil {
		o.BeforeAdvance()
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	action := adv.Action
	current, ok := o.statuses[action.OrderNumber]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if current != adv.ExpectedStatus {
		return nil, repository.ErrStaleStatus
	}
	if o.actions != nil {
		if o.actions.latestID(action.OrderNumber) != adv.ExpectedLatestActionID {
			return nil, repository.ErrStaleStatus
		}
		if err := o.actions.Create(ctx, action); err != nil {
			return nil, err
		}
	}

	var completed *domain.StaffAssignment
	if adv.CompleteAssignment && o.assignments != nil {
		assignment, err := o.assignments.CompleteActive(ctx, action.OrderNumber, action.StaffCode)
		if err == nil {
			completed = assignment
		}
	}
	o.statuses[action.OrderNumber] = action.NewStatus
	return completed, nil
}

// Put sets a status out of band, as the checkout service would.
func (o *Orders) Put(orderNumber string, status domain.OrderStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses[orderNumber] = status
}
