package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// PaymentRepository persists payment proofs and their moderation state.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	List(ctx context.Context) ([]domain.Payment, error)
	SetStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error)
	Delete(ctx context.Context, id string) error
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `id, order_number, customer_name, customer_phone, amount, method, proof_url, status, created_at, updated_at`

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	const query = `
        INSERT INTO payments (order_number, customer_name, customer_phone, amount, method, proof_url, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		p.OrderNumber, p.CustomerName, p.CustomerPhone, p.Amount, p.Method, p.ProofURL, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *paymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *paymentRepository) SetStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	const query = `
        UPDATE payments SET status=$2, updated_at=NOW()
        WHERE id=$1
        RETURNING ` + paymentColumns
	return scanPayment(r.pool.QueryRow(ctx, query, id, status))
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, `DELETE FROM payments WHERE id=$1`, id)
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(
		&p.ID,
		&p.OrderNumber,
		&p.CustomerName,
		&p.CustomerPhone,
		&p.Amount,
		&p.Method,
		&p.ProofURL,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
