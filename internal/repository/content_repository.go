package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// PlanRepository persists subscription plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) error
	List(ctx context.Context) ([]domain.Plan, error)
	Delete(ctx context.Context, id string) error
}

// FloatingTextRepository persists ticker banner messages.
type FloatingTextRepository interface {
	Create(ctx context.Context, text *domain.FloatingText) error
	Latest(ctx context.Context) (*domain.FloatingText, error)
	Delete(ctx context.Context, id string) error
}

// LuckyRepository persists both lucky-winner boards, partitioned by kind.
type LuckyRepository interface {
	Create(ctx context.Context, entry *domain.LuckyEntry) error
	List(ctx context.Context, kind domain.LuckyKind) ([]domain.LuckyEntry, error)
	Delete(ctx context.Context, kind domain.LuckyKind, id string) error
}

type planRepository struct{ pool *pgxpool.Pool }

type floatingTextRepository struct{ pool *pgxpool.Pool }

type luckyRepository struct{ pool *pgxpool.Pool }

// NewPlanRepository instantiates repository.
func NewPlanRepository(pool *pgxpool.Pool) PlanRepository {
	return &planRepository{pool: pool}
}

// NewFloatingTextRepository instantiates repository.
func NewFloatingTextRepository(pool *pgxpool.Pool) FloatingTextRepository {
	return &floatingTextRepository{pool: pool}
}

// NewLuckyRepository instantiates repository.
func NewLuckyRepository(pool *pgxpool.Pool) LuckyRepository {
	return &luckyRepository{pool: pool}
}

func (r *planRepository) Create(ctx context.Context, p *domain.Plan) error {
	const query = `
        INSERT INTO plans (title, price, billing_period, features, description, image_url, popular, sort_order)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		p.Title, p.Price, p.BillingPeriod, features, p.Description, p.ImageURL, p.Popular, p.SortOrder,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *planRepository) List(ctx context.Context) ([]domain.Plan, error) {
	const query = `
        SELECT id, title, price, billing_period, features, description, image_url, popular, sort_order,
               created_at, updated_at
        FROM plans ORDER BY sort_order ASC, created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Plan{}
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.BillingPeriod, &p.Features, &p.Description,
			&p.ImageURL, &p.Popular, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, `DELETE FROM plans WHERE id=$1`, id)
}

func (r *floatingTextRepository) Create(ctx context.Context, t *domain.FloatingText) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO floating_texts (text) VALUES ($1) RETURNING id, created_at, updated_at`,
		t.Text,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Latest returns nil without error when no banner exists.
func (r *floatingTextRepository) Latest(ctx context.Context) (*domain.FloatingText, error) {
	const query = `
        SELECT id, text, created_at, updated_at
        FROM floating_texts ORDER BY created_at DESC LIMIT 1`
	var t domain.FloatingText
	err := r.pool.QueryRow(ctx, query).Scan(&t.ID, &t.Text, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *floatingTextRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, `DELETE FROM floating_texts WHERE id=$1`, id)
}

func (r *luckyRepository) Create(ctx context.Context, e *domain.LuckyEntry) error {
	const query = `
        INSERT INTO lucky_entries (kind, name, image_url, content, phone)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, e.Kind, e.Name, e.ImageURL, e.Content, e.Phone).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *luckyRepository) List(ctx context.Context, kind domain.LuckyKind) ([]domain.LuckyEntry, error) {
	const query = `
        SELECT id, kind, name, image_url, content, phone, created_at, updated_at
        FROM lucky_entries WHERE kind=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.LuckyEntry{}
	for rows.Next() {
		var e domain.LuckyEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Name, &e.ImageURL, &e.Content, &e.Phone,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *luckyRepository) Delete(ctx context.Context, kind domain.LuckyKind, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM lucky_entries WHERE id=$1 AND kind=$2`, id, kind)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
