package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// TransferRepository persists transfer requests.
type TransferRepository interface {
	Create(ctx context.Context, transfer *domain.TransferRequest) error
	GetByID(ctx context.Context, id string) (*domain.TransferRequest, error)
	GetPendingByOrder(ctx context.Context, orderNumber string) (*domain.TransferRequest, error)
	ListByStaff(ctx context.Context, staffCode string) ([]domain.TransferRequest, error)
	ListAll(ctx context.Context) ([]domain.TransferRequest, error)
	Decide(ctx context.Context, id string, status domain.TransferStatus) (*domain.TransferRequest, error)
}

type transferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository instantiates repository.
func NewTransferRepository(pool *pgxpool.Pool) TransferRepository {
	return &transferRepository{pool: pool}
}

const transferColumns = `id, order_number, from_staff, to_staff, status, decided_at, created_at, updated_at`

func (r *transferRepository) Create(ctx context.Context, transfer *domain.TransferRequest) error {
	const query = `
        INSERT INTO transfer_requests (order_number, from_staff, to_staff, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		transfer.OrderNumber,
		transfer.FromStaff,
		transfer.ToStaff,
		transfer.Status,
	).Scan(&transfer.ID, &transfer.CreatedAt, &transfer.UpdatedAt)
	return translate(err)
}

func (r *transferRepository) GetByID(ctx context.Context, id string) (*domain.TransferRequest, error) {
	return scanTransfer(r.pool.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfer_requests WHERE id=$1`, id))
}

func (r *transferRepository) GetPendingByOrder(ctx context.Context, orderNumber string) (*domain.TransferRequest, error) {
	const query = `SELECT ` + transferColumns + `
        FROM transfer_requests WHERE order_number=$1 AND status='pending'
        ORDER BY created_at DESC LIMIT 1`
	return scanTransfer(r.pool.QueryRow(ctx, query, orderNumber))
}

func (r *transferRepository) ListByStaff(ctx context.Context, staffCode string) ([]domain.TransferRequest, error) {
	const query = `SELECT ` + transferColumns + `
        FROM transfer_requests WHERE to_staff=$1 OR from_staff=$1
        ORDER BY created_at DESC`
	return r.list(ctx, query, staffCode)
}

func (r *transferRepository) ListAll(ctx context.Context) ([]domain.TransferRequest, error) {
	return r.list(ctx, `SELECT `+transferColumns+` FROM transfer_requests ORDER BY created_at DESC`)
}

// Decide resolves a pending request. pgx.ErrNoRows means the request is missing
// or was decided concurrently.
func (r *transferRepository) Decide(ctx context.Context, id string, status domain.TransferStatus) (*domain.TransferRequest, error) {
	const query = `
        UPDATE transfer_requests SET status=$2, decided_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND status='pending'
        RETURNING ` + transferColumns
	return scanTransfer(r.pool.QueryRow(ctx, query, id, status))
}

func (r *transferRepository) list(ctx context.Context, query string, args ...any) ([]domain.TransferRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TransferRequest{}
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *transfer)
	}
	return result, rows.Err()
}

func scanTransfer(row pgx.Row) (*domain.TransferRequest, error) {
	var t domain.TransferRequest
	if err := row.Scan(
		&t.ID,
		&t.OrderNumber,
		&t.FromStaff,
		&t.ToStaff,
		&t.Status,
		&t.DecidedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
