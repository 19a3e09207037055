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

// TransferService runs the propose/accept/reject handshake that moves order
// ownership between staff members.
type TransferService struct {
	transfers   repository.TransferRepository
	assignments repository.AssignmentRepository
	staff       repository.StaffRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// TransferDependencies bundles repositories.
type TransferDependencies struct {
	TransferRepo   repository.TransferRepository
	AssignmentRepo repository.AssignmentRepository
	StaffRepo      repository.StaffRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewTransferService creates the service.
func NewTransferService(deps TransferDependencies) *TransferService {
	return &TransferService{
		transfers:   deps.TransferRepo,
		assignments: deps.AssignmentRepo,
		staff:       deps.StaffRepo,
		dispatcher:  deps.Dispatcher,
		logger:      loggerOrNop(deps.Logger),
	}
}

// Propose creates a pending request to hand orderNumber from fromStaff to toStaff.
func (s *TransferService) Propose(ctx context.Context, fromStaff, orderNumber, toStaff string) (*domain.TransferRequest, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	toStaff = strings.ToUpper(strings.TrimSpace(toStaff))
	if orderNumber == "" || toStaff == "" {
		return nil, apperrors.NewValidationError("orderNumber and toStaff required", nil)
	}
	if toStaff == fromStaff {
		return nil, apperrors.NewValidationError("cannot transfer to yourself", map[string]any{"toStaff": toStaff})
	}

	assignment, err := s.assignments.GetActiveByOrder(ctx, orderNumber)
	if err != nil && !isNoRows(err) {
		return nil, apperrors.MapError(err)
	}
	if assignment == nil || assignment.StaffCode != fromStaff {
		return nil, apperrors.NewForbidden("you do not own this assignment")
	}

	target, err := s.staff.GetByStaffCode(ctx, toStaff)
	if err != nil && !isNoRows(err) {
		return nil, apperrors.MapError(err)
	}
	if target == nil || !target.Active {
		return nil, apperrors.NewValidationError("unknown or inactive target staff", map[string]any{"toStaff": toStaff})
	}

	if pending, err := s.transfers.GetPendingByOrder(ctx, orderNumber); err == nil && pending != nil {
		return nil, apperrors.NewConflict("transfer already pending", map[string]any{"transferId": pending.ID})
	} else if err != nil && !isNoRows(err) {
		return nil, apperrors.MapError(err)
	}

	transfer := &domain.TransferRequest{
		OrderNumber: orderNumber,
		FromStaff:   fromStaff,
		ToStaff:     toStaff,
		Status:      domain.TransferPending,
	}
	if err := s.transfers.Create(ctx, transfer); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.NewConflict("transfer already pending", map[string]any{"orderNumber": orderNumber})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("transfer proposed",
		zap.String("transfer_id", transfer.ID),
		zap.String("order_number", orderNumber),
		zap.String("from_staff", fromStaff),
		zap.String("to_staff", toStaff))
	s.publish(ctx, events.EventTransferProposed, fromStaff, transfer)
	return transfer, nil
}

// ListMine returns requests the caller sent or received, newest first.
func (s *TransferService) ListMine(ctx context.Context, staffCode string) ([]domain.TransferRequest, error) {
	items, err := s.transfers.ListByStaff(ctx, staffCode)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// ListAll returns every request, newest first.
func (s *TransferService) ListAll(ctx context.Context) ([]domain.TransferRequest, error) {
	items, err := s.transfers.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Accept moves the ledger row to the caller and closes the request.
//
// The ledger is reassigned before the request is marked. When marking fails,
// including when a concurrent Reject closed the request first, the row is
// handed back to fromStaff. A crash in between leaves the row owned by toStaff
// and the request still pending; the holder check accepts toStaff as well as
// fromStaff, so a retried Accept completes the handshake.
func (s *TransferService) Accept(ctx context.Context, staffCode, transferID string) (*domain.TransferRequest, error) {
	transfer, err := s.loadDecidable(ctx, staffCode, transferID)
	if err != nil {
		return nil, err
	}

	conflict := apperrors.NewConflict("assignment no longer valid", map[string]any{
		"transferId":  transfer.ID,
		"orderNumber": transfer.OrderNumber,
	})
	holder, err := s.assignments.GetActiveByOrder(ctx, transfer.OrderNumber)
	if err != nil && !isNoRows(err) {
		return nil, apperrors.MapError(err)
	}
	if holder == nil || (holder.StaffCode != transfer.FromStaff && holder.StaffCode != transfer.ToStaff) {
		return nil, conflict
	}

	if _, err := s.assignments.Reassign(ctx, transfer.OrderNumber, transfer.FromStaff, transfer.ToStaff); err != nil {
		if isNoRows(err) {
			return nil, conflict
		}
		return nil, apperrors.MapError(err)
	}

	decided, err := s.transfers.Decide(ctx, transfer.ID, domain.TransferAccepted)
	if err != nil {
		s.restoreHolder(ctx, transfer)
		if isNoRows(err) {
			return nil, alreadyDecided(transfer.ID)
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("transfer accepted",
		zap.String("transfer_id", decided.ID),
		zap.String("order_number", decided.OrderNumber),
		zap.String("to_staff", decided.ToStaff))
	s.publish(ctx, events.EventTransferAccepted, staffCode, decided)
	return decided, nil
}

// Reject closes the request without touching the ledger.
func (s *TransferService) Reject(ctx context.Context, staffCode, transferID string) (*domain.TransferRequest, error) {
	transfer, err := s.loadDecidable(ctx, staffCode, transferID)
	if err != nil {
		return nil, err
	}

	decided, err := s.transfers.Decide(ctx, transfer.ID, domain.TransferRejected)
	if err != nil {
		if isNoRows(err) {
			return nil, alreadyDecided(transfer.ID)
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("transfer rejected",
		zap.String("transfer_id", decided.ID),
		zap.String("order_number", decided.OrderNumber),
		zap.String("to_staff", decided.ToStaff))
	s.publish(ctx, events.EventTransferRejected, staffCode, decided)
	return decided, nil
}

// restoreHolder undoes Accept's reassignment after the request could not be marked accepted.
func (s *TransferService) restoreHolder(ctx context.Context, transfer *domain.TransferRequest) {
	if _, err := s.assignments.Reassign(ctx, transfer.OrderNumber, transfer.ToStaff, transfer.FromStaff); err != nil {
		s.logger.Error("transfer reassignment not restored",
			zap.String("transfer_id", transfer.ID),
			zap.String("order_number", transfer.OrderNumber),
			zap.String("from_staff", transfer.FromStaff),
			zap.String("to_staff", transfer.ToStaff),
			zap.Error(err))
	}
}

// loadDecidable applies the checks shared by Accept and Reject, in order:
// existence, still pending, caller is the target.
func (s *TransferService) loadDecidable(ctx context.Context, staffCode, transferID string) (*domain.TransferRequest, error) {
	details := map[string]any{"transferId": transferID}
	if !validID(transferID) {
		return nil, apperrors.NewNotFound("transfer request", details)
	}
	transfer, err := s.transfers.GetByID(ctx, transferID)
	if err != nil {
		return nil, notFoundOrMap(err, "transfer request", details)
	}
	if !transfer.IsPending() {
		return nil, alreadyDecided(transfer.ID)
	}
	if transfer.ToStaff != staffCode {
		return nil, apperrors.NewForbidden("not your transfer")
	}
	return transfer, nil
}

func (s *TransferService) publish(ctx context.Context, eventType events.EventType, actor string, t *domain.TransferRequest) {
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        eventType,
		OrderNumber: t.OrderNumber,
		Actor:       staffActor(actor),
		Payload: events.TransferPayload{
			TransferID: t.ID,
			FromStaff:  t.FromStaff,
			ToStaff:    t.ToStaff,
			Status:     t.Status,
		},
	})
}

func alreadyDecided(transferID string) error {
	return apperrors.NewValidationError("transfer already decided", map[string]any{"transferId": transferID})
}
