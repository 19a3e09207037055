package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// AssignmentRepository owns the order ownership ledger. At most one active row
// exists per order number; the partial unique index enforces it.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.StaffAssignment) error
	GetActiveByOrder(ctx context.Context, orderNumber string) (*domain.StaffAssignment, error)
	ListByStaff(ctx context.Context, staffCode string, status domain.AssignmentStatus) ([]domain.StaffAssignment, error)
	CompleteActive(ctx context.Context, orderNumber, staffCode string) (*domain.StaffAssignment, error)
	Reassign(ctx context.Context, orderNumber, fromStaff, toStaff string) (*domain.StaffAssignment, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

const assignmentColumns = `id, order_number, order_id, staff_code, status, created_at, updated_at`

func (r *assignmentRepository) Create(ctx context.Context, assignment *domain.StaffAssignment) error {
	const query = `
        INSERT INTO staff_assignments (order_number, order_id, staff_code, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		assignment.OrderNumber,
		assignment.OrderID,
		assignment.StaffCode,
		assignment.Status,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	return translate(err)
}

func (r *assignmentRepository) GetActiveByOrder(ctx context.Context, orderNumber string) (*domain.StaffAssignment, error) {
	const query = `SELECT ` + assignmentColumns + `
        FROM staff_assignments WHERE order_number=$1 AND status='active'`
	return scanAssignment(r.pool.QueryRow(ctx, query, orderNumber))
}

func (r *assignmentRepository) ListByStaff(ctx context.Context, staffCode string, status domain.AssignmentStatus) ([]domain.StaffAssignment, error) {
	order := "created_at DESC"
	if status == domain.AssignmentCompleted {
		order = "updated_at DESC"
	}
	query := `SELECT ` + assignmentColumns + `
        FROM staff_assignments WHERE staff_code=$1 AND status=$2
        ORDER BY ` + order

	rows, err := r.pool.Query(ctx, query, staffCode, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.StaffAssignment{}
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *assignment)
	}
	return result, rows.Err()
}

func (r *assignmentRepository) CompleteActive(ctx context.Context, orderNumber, staffCode string) (*domain.StaffAssignment, error) {
	const query = `
        UPDATE staff_assignments SET status='completed', updated_at=NOW()
        WHERE order_number=$1 AND staff_code=$2 AND status='active'
        RETURNING ` + assignmentColumns
	return scanAssignment(r.pool.QueryRow(ctx, query, orderNumber, staffCode))
}

// Reassign moves the active row to toStaff in place. A row already held by
// toStaff is returned unchanged so a retried transfer acceptance succeeds.
func (r *assignmentRepository) Reassign(ctx context.Context, orderNumber, fromStaff, toStaff string) (*domain.StaffAssignment, error) {
	const query = `
        UPDATE staff_assignments SET staff_code=$3, updated_at=NOW()
        WHERE order_number=$1 AND status='active' AND staff_code IN ($2, $3)
        RETURNING ` + assignmentColumns
	return scanAssignment(r.pool.QueryRow(ctx, query, orderNumber, fromStaff, toStaff))
}

func scanAssignment(row pgx.Row) (*domain.StaffAssignment, error) {
	var a domain.StaffAssignment
	if err := row.Scan(
		&a.ID,
		&a.OrderNumber,
		&a.OrderID,
		&a.StaffCode,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
