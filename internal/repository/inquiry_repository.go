package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// InquiryRepository stores contact, callback and enquiry submissions in one table.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	List(ctx context.Context, kind domain.InquiryKind) ([]domain.Inquiry, error)
	Delete(ctx context.Context, kind domain.InquiryKind, id string) error
}

// ParticipantRepository stores lucky-draw sign ups.
type ParticipantRepository interface {
	Create(ctx context.Context, participant *domain.Participant) error
	List(ctx context.Context) ([]domain.Participant, error)
	Delete(ctx context.Context, id string) error
}

// SubscriberRepository stores newsletter subscribers keyed by email.
type SubscriberRepository interface {
	Upsert(ctx context.Context, email, source string) (*domain.NewsletterSubscriber, error)
	List(ctx context.Context) ([]domain.NewsletterSubscriber, error)
	Delete(ctx context.Context, id string) error
}

type inquiryRepository struct{ pool *pgxpool.Pool }

type participantRepository struct{ pool *pgxpool.Pool }

type subscriberRepository struct{ pool *pgxpool.Pool }

// NewInquiryRepository instantiates repository.
func NewInquiryRepository(pool *pgxpool.Pool) InquiryRepository {
	return &inquiryRepository{pool: pool}
}

// NewParticipantRepository instantiates repository.
func NewParticipantRepository(pool *pgxpool.Pool) ParticipantRepository {
	return &participantRepository{pool: pool}
}

// NewSubscriberRepository instantiates repository.
func NewSubscriberRepository(pool *pgxpool.Pool) SubscriberRepository {
	return &subscriberRepository{pool: pool}
}

func (r *inquiryRepository) Create(ctx context.Context, in *domain.Inquiry) error {
	const query = `
        INSERT INTO inquiries (kind, product_name, name, email, phone, message)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, in.Kind, in.ProductName, in.Name, in.Email, in.Phone, in.Message).
		Scan(&in.ID, &in.CreatedAt)
}

func (r *inquiryRepository) List(ctx context.Context, kind domain.InquiryKind) ([]domain.Inquiry, error) {
	const query = `
        SELECT id, kind, product_name, name, email, phone, message, created_at
        FROM inquiries WHERE kind=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Inquiry{}
	for rows.Next() {
		var in domain.Inquiry
		if err := rows.Scan(&in.ID, &in.Kind, &in.ProductName, &in.Name, &in.Email, &in.Phone,
			&in.Message, &in.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, in)
	}
	return result, rows.Err()
}

func (r *inquiryRepository) Delete(ctx context.Context, kind domain.InquiryKind, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM inquiries WHERE id=$1 AND kind=$2`, id, kind)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	const query = `
        INSERT INTO participants (name, role, email, phone, message)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, p.Name, p.Role, p.Email, p.Phone, p.Message).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *participantRepository) List(ctx context.Context) ([]domain.Participant, error) {
	const query = `
        SELECT id, name, role, email, phone, message, created_at
        FROM participants ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Participant{}
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.Email, &p.Phone, &p.Message, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *participantRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, `DELETE FROM participants WHERE id=$1`, id)
}

// Upsert creates the subscriber or adds source to its existing source set.
func (r *subscriberRepository) Upsert(ctx context.Context, email, source string) (*domain.NewsletterSubscriber, error) {
	const query = `
        INSERT INTO newsletter_subscribers (email, sources)
        VALUES ($1, ARRAY[$2::text])
        ON CONFLICT (email) DO UPDATE SET
            sources = CASE
                WHEN $2::text = ANY(newsletter_subscribers.sources) THEN newsletter_subscribers.sources
                ELSE array_append(newsletter_subscribers.sources, $2::text)
            END,
            updated_at = NOW()
        RETURNING id, email, sources, created_at, updated_at`
	var s domain.NewsletterSubscriber
	if err := r.pool.QueryRow(ctx, query, email, source).
		Scan(&s.ID, &s.Email, &s.Sources, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subscriberRepository) List(ctx context.Context) ([]domain.NewsletterSubscriber, error) {
	const query = `
        SELECT id, email, sources, created_at, updated_at
        FROM newsletter_subscribers ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.NewsletterSubscriber{}
	for rows.Next() {
		var s domain.NewsletterSubscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.Sources, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *subscriberRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, `DELETE FROM newsletter_subscribers WHERE id=$1`, id)
}
