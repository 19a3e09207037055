package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/repository"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

const defaultSubscriberSource = "footer"

// FormsService captures public form submissions.
type FormsService struct {
	inquiries    repository.InquiryRepository
	participants repository.ParticipantRepository
	subscribers  repository.SubscriberRepository
	logger       *zap.Logger
}

// FormsDependencies bundles repositories.
type FormsDependencies struct {
	InquiryRepo     repository.InquiryRepository
	ParticipantRepo repository.ParticipantRepository
	SubscriberRepo  repository.SubscriberRepository
	Logger          *zap.Logger
}

// NewFormsService creates the service.
func NewFormsService(deps FormsDependencies) *FormsService {
	return &FormsService{
		inquiries:    deps.InquiryRepo,
		participants: deps.ParticipantRepo,
		subscribers:  deps.SubscriberRepo,
		logger:       loggerOrNop(deps.Logger),
	}
}

// SubmitInquiry stores a contact, callback or enquiry submission. Each needs a
// name and some way to reach the sender.
func (s *FormsService) SubmitInquiry(ctx context.Context, in domain.Inquiry) (*domain.Inquiry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ProductName = strings.TrimSpace(in.ProductName)
	switch in.Kind {
	case domain.InquiryContact, domain.InquiryCallback, domain.InquiryEnquiry:
	default:
		return nil, apperrors.NewValidationError("unknown inquiry kind", map[string]any{"kind": in.Kind})
	}
	if err := requireField(in.Name, "name"); err != nil {
		return nil, err
	}
	if in.Email == "" && in.Phone == "" {
		return nil, apperrors.NewValidationError("email or phone required", nil)
	}

	if err := s.inquiries.Create(ctx, &in); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("inquiry received", zap.String("kind", string(in.Kind)), zap.String("inquiry_id", in.ID))
	return &in, nil
}

// ListInquiries returns submissions of one kind, newest first.
func (s *FormsService) ListInquiries(ctx context.Context, kind domain.InquiryKind) ([]domain.Inquiry, error) {
	return mapList(s.inquiries.List(ctx, kind))
}

// DeleteInquiry removes a submission of one kind.
func (s *FormsService) DeleteInquiry(ctx context.Context, kind domain.InquiryKind, id string) error {
	return deleteResource(ctx, string(kind), id, func(ctx context.Context, id string) error {
		return s.inquiries.Delete(ctx, kind, id)
	})
}

// SubmitParticipant stores a lucky-draw sign up.
func (s *FormsService) SubmitParticipant(ctx context.Context, in domain.Participant) (*domain.Participant, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = domain.ParticipantRole(strings.ToLower(strings.TrimSpace(string(in.Role))))
	if in.Name == "" || in.Role == "" || in.Email == "" {
		return nil, apperrors.NewValidationError("name, role and email are required", nil)
	}
	if in.Role != domain.ParticipantFarmer && in.Role != domain.ParticipantSubscriber {
		return nil, apperrors.NewValidationError("role must be farmer or subscriber", map[string]any{"role": in.Role})
	}
	if err := s.participants.Create(ctx, &in); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &in, nil
}

// ListParticipants returns sign ups, newest first.
func (s *FormsService) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	return mapList(s.participants.List(ctx))
}

// DeleteParticipant removes a sign up.
func (s *FormsService) DeleteParticipant(ctx context.Context, id string) error {
	return deleteResource(ctx, "participant", id, s.participants.Delete)
}

// Subscribe records email as a newsletter subscriber and remembers source.
// Subscribing again from another source only extends the source set.
func (s *FormsService) Subscribe(ctx context.Context, email, source string) (*domain.NewsletterSubscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := requireField(email, "email"); err != nil {
		return nil, err
	}
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		source = defaultSubscriberSource
	}
	sub, err := s.subscribers.Upsert(ctx, email, source)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return sub, nil
}

// ListSubscribers returns subscribers, newest first.
func (s *FormsService) ListSubscribers(ctx context.Context) ([]domain.NewsletterSubscriber, error) {
	return mapList(s.subscribers.List(ctx))
}

// DeleteSubscriber removes a subscriber.
func (s *FormsService) DeleteSubscriber(ctx context.Context, id string) error {
	return deleteResource(ctx, "subscriber", id, s.subscribers.Delete)
}
