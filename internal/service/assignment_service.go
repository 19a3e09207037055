package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/events"
	"github.com/spec-kit/farmstore-service/internal/repository"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

// AssignmentService owns the order ownership ledger.
type AssignmentService struct {
	assignments repository.AssignmentRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	AssignmentRepo repository.AssignmentRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		assignments: deps.AssignmentRepo,
		dispatcher:  deps.Dispatcher,
		logger:      loggerOrNop(deps.Logger),
	}
}

// ClaimInput describes a claim request.
type ClaimInput struct {
	OrderNumber string
	OrderID     *string
}

// Claim makes staffCode the holder of an unassigned order. First claim wins;
// a concurrent loser hits the unique index and gets the same Conflict.
func (s *AssignmentService) Claim(ctx context.Context, staffCode string, in ClaimInput) (*domain.StaffAssignment, error) {
	orderNumber := strings.TrimSpace(in.OrderNumber)
	if err := requireField(orderNumber, "orderNumber"); err != nil {
		return nil, err
	}

	existing, err := s.assignments.GetActiveByOrder(ctx, orderNumber)
	if err == nil && existing != nil {
		return nil, apperrors.NewConflict("order already assigned", map[string]any{
			"orderNumber": orderNumber,
			"staffCode":   existing.StaffCode,
		})
	}
	if err != nil && !isNoRows(err) {
		return nil, apperrors.MapError(err)
	}

	assignment := &domain.StaffAssignment{
		OrderNumber: orderNumber,
		OrderID:     in.OrderID,
		StaffCode:   staffCode,
		Status:      domain.AssignmentActive,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.NewConflict("order already assigned", map[string]any{"orderNumber": orderNumber})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("order claimed", zap.String("order_number", orderNumber), zap.String("staff_code", staffCode))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventAssignmentClaimed,
		OrderNumber: orderNumber,
		Actor:       staffActor(staffCode),
		Payload:     events.AssignmentPayload{AssignmentID: assignment.ID, StaffCode: staffCode},
	})
	return assignment, nil
}

// ListActive returns the caller's active assignments, newest first.
func (s *AssignmentService) ListActive(ctx context.Context, staffCode string) ([]domain.StaffAssignment, error) {
	items, err := s.assignments.ListByStaff(ctx, staffCode, domain.AssignmentActive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// ListCompleted returns the caller's completed assignments, most recently completed first.
func (s *AssignmentService) ListCompleted(ctx context.Context, staffCode string) ([]domain.StaffAssignment, error) {
	items, err := s.assignments.ListByStaff(ctx, staffCode, domain.AssignmentCompleted)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Complete closes the caller's own active assignment for orderNumber.
func (s *AssignmentService) Complete(ctx context.Context, staffCode, orderNumber string) (*domain.StaffAssignment, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if err := requireField(orderNumber, "orderNumber"); err != nil {
		return nil, err
	}
	return s.complete(ctx, staffCode, orderNumber, false)
}

func (s *AssignmentService) complete(ctx context.Context, staffCode, orderNumber string, auto bool) (*domain.StaffAssignment, error) {
	assignment, err := s.assignments.CompleteActive(ctx, orderNumber, staffCode)
	if err != nil {
		return nil, notFoundOrMap(err, "active assignment", map[string]any{"orderNumber": orderNumber})
	}

	s.announceCompleted(ctx, assignment, auto)
	return assignment, nil
}

func (s *AssignmentService) announceCompleted(ctx context.Context, assignment *domain.StaffAssignment, auto bool) {
	s.logger.Info("assignment completed",
		zap.String("order_number", assignment.OrderNumber),
		zap.String("staff_code", assignment.StaffCode),
		zap.Bool("auto", auto))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventAssignmentCompleted,
		OrderNumber: assignment.OrderNumber,
		Actor:       staffActor(assignment.StaffCode),
		Payload:     events.AssignmentPayload{AssignmentID: assignment.ID, StaffCode: assignment.StaffCode, AutoComplete: auto},
	})
}
