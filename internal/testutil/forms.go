package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/repository"
)

// Inquiries is an in-memory repository.InquiryRepository.
type Inquiries struct{ t *table[domain.Inquiry] }

// NewInquiries builds an empty inquiry store.
func NewInquiries(clock *Clock) *Inquiries {
	return &Inquiries{t: newTable(clock,
		func(i *domain.Inquiry) *string { return &i.ID },
		func(i *domain.Inquiry) *time.Time { return &i.CreatedAt })}
}

var _ repository.InquiryRepository = (*Inquiries)(nil)

func (s *Inquiries) Create(_ context.Context, inquiry *domain.Inquiry) error {
	s.t.insert(inquiry)
	return nil
}

func (s *Inquiries) List(_ context.Context, kind domain.InquiryKind) ([]domain.Inquiry, error) {
	return s.t.list(func(i domain.Inquiry) bool { return i.Kind == kind }), nil
}

func (s *Inquiries) Delete(_ context.Context, kind domain.InquiryKind, id string) error {
	return s.t.remove(id, func(i domain.Inquiry) bool { return i.Kind == kind })
}

// Participants is an in-memory repository.ParticipantRepository.
type Participants struct{ t *table[domain.Participant] }

// NewParticipants builds an empty participant store.
func NewParticipants(clock *Clock) *Participants {
	return &Participants{t: newTable(clock,
		func(p *domain.Participant) *string { return &p.ID },
		func(p *domain.Participant) *time.Time { return &p.CreatedAt })}
}

var _ repository.ParticipantRepository = (*Participants)(nil)

func (s *Participants) Create(_ context.Context, participant *domain.Participant) error {
	s.t.insert(participant)
	return nil
}

func (s *Participants) List(context.Context) ([]domain.Participant, error) {
	return s.t.list(nil), nil
}

func (s *Participants) Delete(_ context.Context, id string) error { return s.t.remove(id, nil) }

// Subscribers is an in-memory repository.SubscriberRepository keyed by email.
type Subscribers struct {
	mu    sync.Mutex
	clock *Clock
	rows  []*domain.NewsletterSubscriber
}

// NewSubscribers builds an empty subscriber store.
func NewSubscribers(clock *Clock) *Subscribers {
	return &Subscribers{clock: clock}
}

var _ repository.SubscriberRepository = (*Subscribers)(nil)

func (s *Subscribers) Upsert(_ context.Context, email, source string) (*domain.NewsletterSubscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	for _, row := range s.rows {
		if row.Email != email {
			continue
		}
		if !contains(row.Sources, source) {
			row.Sources = append(row.Sources, source)
		}
		row.UpdatedAt = now
		out := *row
		out.Sources = append([]string(nil), row.Sources...)
		return &out, nil
	}
	row := &domain.NewsletterSubscriber{
		ID:        newID(),
		Email:     email,
		Sources:   []string{source},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.rows = append(s.rows, row)
	out := *row
	return &out, nil
}

func (s *Subscribers) List(context.Context) ([]domain.NewsletterSubscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.NewsletterSubscriber{}
	for _, row := range s.rows {
		out = append(out, *row)
	}
	sortNewestFirst(out, func(n domain.NewsletterSubscriber) time.Time { return n.CreatedAt })
	return out, nil
}

func (s *Subscribers) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.rows {
		if row.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// Payments is an in-memory repository.PaymentRepository.
type Payments struct{ t *table[domain.Payment] }

// NewPayments builds an empty payment store.
func NewPayments(clock *Clock) *Payments {
	return &Payments{t: newTable(clock,
		func(p *domain.Payment) *string { return &p.ID },
		func(p *domain.Payment) *time.Time { return &p.CreatedAt })}
}

var _ repository.PaymentRepository = (*Payments)(nil)

func (s *Payments) Create(_ context.Context, payment *domain.Payment) error {
	s.t.insert(payment)
	payment.UpdatedAt = payment.CreatedAt
	return nil
}

func (s *Payments) List(context.Context) ([]domain.Payment, error) { return s.t.list(nil), nil }

func (s *Payments) SetStatus(_ context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	for i := range s.t.rows {
		if s.t.rows[i].ID == id {
			s.t.rows[i].Status = status
			s.t.rows[i].UpdatedAt = s.t.clock.Now()
			out := s.t.rows[i]
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *Payments) Delete(_ context.Context, id string) error { return s.t.remove(id, nil) }

// Surveys is an in-memory repository.SurveyRepository. Deleting a survey
// drops its responses from the linked response store.
type Surveys struct {
	t         *table[domain.Survey]
	responses *SurveyResponses
}

// NewSurveys builds an empty survey store cascading deletes into responses.
func NewSurveys(clock *Clock, responses *SurveyResponses) *Surveys {
	return &Surveys{
		t: newTable(clock,
			func(s *domain.Survey) *string { return &s.ID },
			func(s *domain.Survey) *time.Time { return &s.CreatedAt }),
		responses: responses,
	}
}

var _ repository.SurveyRepository = (*Surveys)(nil)

func (s *Surveys) Create(_ context.Context, survey *domain.Survey) error {
	s.t.insert(survey)
	survey.UpdatedAt = survey.CreatedAt
	return nil
}

func (s *Surveys) GetByID(_ context.Context, id string) (*domain.Survey, error) {
	for _, survey := range s.t.list(nil) {
		if survey.ID == id {
			return &survey, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *Surveys) List(context.Context) ([]domain.Survey, error) { return s.t.list(nil), nil }

func (s *Surveys) LatestActive(context.Context) (*domain.Survey, error) {
	items := s.t.list(func(survey domain.Survey) bool { return survey.Active })
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *Surveys) Delete(_ context.Context, id string) error {
	if err := s.t.remove(id, nil); err != nil {
		return err
	}
	if s.responses != nil {
		s.responses.dropSurvey(id)
	}
	return nil
}

// SurveyResponses is an in-memory repository.SurveyResponseRepository.
type SurveyResponses struct{ t *table[domain.SurveyResponse] }

// NewSurveyResponses builds an empty response store.
func NewSurveyResponses(clock *Clock) *SurveyResponses {
	return &SurveyResponses{t: newTable(clock,
		func(r *domain.SurveyResponse) *string { return &r.ID },
		func(r *domain.SurveyResponse) *time.Time { return &r.CreatedAt })}
}

var _ repository.SurveyResponseRepository = (*SurveyResponses)(nil)

func (s *SurveyResponses) Create(_ context.Context, response *domain.SurveyResponse) error {
	s.t.insert(response)
	return nil
}

func (s *SurveyResponses) ListBySurvey(_ context.Context, surveyID string) ([]domain.SurveyResponse, error) {
	return s.t.list(func(r domain.SurveyResponse) bool { return r.SurveyID == surveyID }), nil
}

func (s *SurveyResponses) dropSurvey(surveyID string) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	kept := s.t.rows[:0]
	for _, row := range s.t.rows {
		if row.SurveyID != surveyID {
			kept = append(kept, row)
		}
	}
	s.t.rows = kept
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
