package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/events"
	"github.com/spec-kit/farmstore-service/internal/repository"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

// StatusService applies order status moves and keeps the staff action log.
type StatusService struct {
	orders      repository.OrderRepository
	actions     repository.StaffActionRepository
	assignments *AssignmentService
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// StatusDependencies bundles collaborators.
type StatusDependencies struct {
	OrderRepo         repository.OrderRepository
	ActionRepo        repository.StaffActionRepository
	AssignmentService *AssignmentService
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewStatusService creates the service.
func NewStatusService(deps StatusDependencies) *StatusService {
	return &StatusService{
		orders:      deps.OrderRepo,
		actions:     deps.ActionRepo,
		assignments: deps.AssignmentService,
		dispatcher:  deps.Dispatcher,
		logger:      loggerOrNop(deps.Logger),
	}
}

// StatusActionInput is a staff status move. PrevStatus is what the client last
// saw; the stored entry uses the order status read at write time instead.
type StatusActionInput struct {
	OrderNumber string
	OrderID     *string
	PrevStatus  string
	NewStatus   string
}

// Progress describes where an order stands for the staff surface.
type Progress struct {
	OrderNumber    string                   `json:"orderNumber"`
	Status         domain.OrderStatus       `json:"status"`
	LatestAction   *domain.StaffOrderAction `json:"latestAction"`
	Progress       int                      `json:"progress"`
	ProgressStatus domain.OrderStatus       `json:"progressStatus,omitempty"`
	AllowedTargets []domain.OrderStatus     `json:"allowedTargets"`
}

// RecordStatusAction moves an order forward on behalf of staffCode. The move is
// legal only past the effective progress; illegal moves record nothing.
func (s *StatusService) RecordStatusAction(ctx context.Context, staffCode string, in StatusActionInput) (*domain.StaffOrderAction, error) {
	orderNumber := strings.TrimSpace(in.OrderNumber)
	if orderNumber == "" || strings.TrimSpace(in.NewStatus) == "" {
		return nil, apperrors.NewValidationError("orderNumber and newStatus required", nil)
	}
	target, known := domain.ParseOrderStatus(in.NewStatus)
	if !known || !target.InFlow() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"newStatus": in.NewStatus})
	}

	progress, err := s.Progress(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if !domain.CanAdvance(progress.Progress, target) {
		return nil, apperrors.NewValidationError("status cannot move backward", map[string]any{
			"orderNumber":    orderNumber,
			"current":        progress.ProgressStatus,
			"newStatus":      target,
			"allowedTargets": progress.AllowedTargets,
		})
	}

	action := &domain.StaffOrderAction{
		OrderNumber: orderNumber,
		OrderID:     in.OrderID,
		PrevStatus:  progress.Status,
		NewStatus:   target,
		StaffCode:   staffCode,
	}
	adv := repository.StatusAdvance{
		ExpectedStatus:     progress.Status,
		Action:             action,
		CompleteAssignment: target == domain.OrderStatusDelivered && s.assignments != nil,
	}
	if progress.LatestAction != nil {
		adv.ExpectedLatestActionID = progress.LatestAction.ID
	}
	completed, err := s.orders.AdvanceStatus(ctx, adv)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.NewConflict("order status changed concurrently", map[string]any{
				"orderNumber": orderNumber,
				"newStatus":   target,
			})
		}
		return nil, notFoundOrMap(err, "order", map[string]any{"orderNumber": orderNumber})
	}

	s.logger.Info("order status advanced",
		zap.String("order_number", orderNumber),
		zap.String("staff_code", staffCode),
		zap.String("prev_status", string(action.PrevStatus)),
		zap.String("new_status", string(target)))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventOrderStatusAdvanced,
		OrderNumber: orderNumber,
		Actor:       staffActor(staffCode),
		Payload:     events.StatusChangedPayload{PrevStatus: action.PrevStatus, NewStatus: target},
	})
	if completed != nil {
		s.assignments.announceCompleted(ctx, completed, true)
	}
	return action, nil
}

// LatestStatusActions returns the newest log entry for each requested order.
// Orders without entries are absent.
func (s *StatusService) LatestStatusActions(ctx context.Context, orderNumbers []string) (map[string]domain.StaffOrderAction, error) {
	cleaned := normalizeOrderNumbers(orderNumbers)
	if len(cleaned) == 0 {
		return map[string]domain.StaffOrderAction{}, nil
	}
	latest, err := s.actions.LatestPerOrder(ctx, cleaned)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return latest, nil
}

// Progress computes the effective progress of orderNumber from both the order
// record and the action log.
func (s *StatusService) Progress(ctx context.Context, orderNumber string) (*Progress, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if err := requireField(orderNumber, "orderNumber"); err != nil {
		return nil, err
	}

	current, err := s.orders.GetStatus(ctx, orderNumber)
	if err != nil {
		return nil, notFoundOrMap(err, "order", map[string]any{"orderNumber": orderNumber})
	}
	latest, err := s.actions.LatestPerOrder(ctx, []string{orderNumber})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var last *domain.StaffOrderAction
	if action, ok := latest[orderNumber]; ok {
		last = &action
	}
	idx := domain.EffectiveProgress(current, last)
	allowed := domain.AllowedTargets(idx)
	if allowed == nil {
		allowed = []domain.OrderStatus{}
	}
	return &Progress{
		OrderNumber:    orderNumber,
		Status:         current,
		LatestAction:   last,
		Progress:       idx,
		ProgressStatus: domain.StatusAt(idx),
		AllowedTargets: allowed,
	}, nil
}

// OverrideStatus lets an admin set any recognized status regardless of progress.
// Nothing is appended to the staff action log.
func (s *StatusService) OverrideStatus(ctx context.Context, orderNumber, rawStatus string) (domain.OrderStatus, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if err := requireField(orderNumber, "orderNumber"); err != nil {
		return "", err
	}
	status, known := domain.ParseOrderStatus(rawStatus)
	if !known {
		return "", apperrors.NewValidationError("unknown status", map[string]any{"status": rawStatus})
	}

	prev, err := s.orders.GetStatus(ctx, orderNumber)
	if err != nil {
		return "", notFoundOrMap(err, "order", map[string]any{"orderNumber": orderNumber})
	}
	if err := s.orders.SetStatus(ctx, orderNumber, status); err != nil {
		return "", notFoundOrMap(err, "order", map[string]any{"orderNumber": orderNumber})
	}

	s.logger.Info("order status overridden",
		zap.String("order_number", orderNumber),
		zap.String("prev_status", string(prev)),
		zap.String("new_status", string(status)))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventOrderStatusOverridden,
		OrderNumber: orderNumber,
		Actor:       adminActor,
		Payload:     events.StatusChangedPayload{PrevStatus: prev, NewStatus: status},
	})
	return status, nil
}

func normalizeOrderNumbers(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}
