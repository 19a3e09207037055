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

// PaymentService accepts payment proofs and lets admins moderate them.
type PaymentService struct {
	payments   repository.PaymentRepository
	uploader   MediaUploader
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PaymentDependencies bundles collaborators.
type PaymentDependencies struct {
	PaymentRepo repository.PaymentRepository
	Uploader    MediaUploader
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewPaymentService creates the service.
func NewPaymentService(deps PaymentDependencies) *PaymentService {
	return &PaymentService{
		payments:   deps.PaymentRepo,
		uploader:   deps.Uploader,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// PaymentInput is a customer's payment proof submission.
type PaymentInput struct {
	OrderNumber   string
	CustomerName  string
	CustomerPhone string
	Amount        *float64
	Method        string
	Proof         *domain.MediaFile
}

// Submit uploads the proof and stores the payment as pending.
func (s *PaymentService) Submit(ctx context.Context, in PaymentInput) (*domain.Payment, error) {
	orderNumber := strings.TrimSpace(in.OrderNumber)
	if err := requireField(orderNumber, "orderNumber"); err != nil {
		return nil, err
	}
	if in.Proof.Empty() {
		return nil, apperrors.NewValidationError("no proof uploaded", map[string]any{"field": "proof"})
	}
	method := domain.PaymentMethod(strings.ToLower(strings.TrimSpace(in.Method)))
	switch method {
	case domain.PaymentQR, domain.PaymentUPI, domain.PaymentCard, domain.PaymentUnknown:
	case "":
		method = domain.PaymentUnknown
	default:
		return nil, apperrors.NewValidationError("unsupported payment method", map[string]any{"method": in.Method})
	}

	url, err := uploadMedia(ctx, s.uploader, s.logger, in.Proof, domain.MediaImage)
	if err != nil {
		return nil, err
	}
	payment := &domain.Payment{
		OrderNumber:   orderNumber,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		Amount:        in.Amount,
		Method:        method,
		ProofURL:      url,
		Status:        domain.PaymentPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("payment submitted", zap.String("payment_id", payment.ID), zap.String("order_number", orderNumber))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventPaymentSubmitted,
		OrderNumber: orderNumber,
		Actor:       events.Actor{Role: domain.RoleAnonymous},
		Payload:     events.PaymentPayload{PaymentID: payment.ID, Status: payment.Status, Method: method},
	})
	return payment, nil
}

// List returns payments, newest first.
func (s *PaymentService) List(ctx context.Context) ([]domain.Payment, error) {
	return mapList(s.payments.List(ctx))
}

// Approve marks a payment approved.
func (s *PaymentService) Approve(ctx context.Context, id string) (*domain.Payment, error) {
	return s.moderate(ctx, id, domain.PaymentApproved)
}

// Reject marks a payment rejected.
func (s *PaymentService) Reject(ctx context.Context, id string) (*domain.Payment, error) {
	return s.moderate(ctx, id, domain.PaymentRejected)
}

// Delete removes a payment record.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	return deleteResource(ctx, "payment", id, s.payments.Delete)
}

func (s *PaymentService) moderate(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	details := map[string]any{"id": id}
	if !validID(id) {
		return nil, apperrors.NewNotFound("payment", details)
	}
	payment, err := s.payments.SetStatus(ctx, id, status)
	if err != nil {
		return nil, notFoundOrMap(err, "payment", details)
	}

	s.logger.Info("payment moderated", zap.String("payment_id", id), zap.String("status", string(status)))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventPaymentModerated,
		OrderNumber: payment.OrderNumber,
		Actor:       adminActor,
		Payload:     events.PaymentPayload{PaymentID: payment.ID, Status: status},
	})
	return payment, nil
}
