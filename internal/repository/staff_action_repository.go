package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// StaffActionRepository reads the append-only status action log. Entries are
// only written by OrderRepository.AdvanceStatus.
type StaffActionRepository interface {
	LatestPerOrder(ctx context.Context, orderNumbers []string) (map[string]domain.StaffOrderAction, error)
}

type staffActionRepository struct {
	pool *pgxpool.Pool
}

// NewStaffActionRepository builds repository.
func NewStaffActionRepository(pool *pgxpool.Pool) StaffActionRepository {
	return &staffActionRepository{pool: pool}
}

// LatestPerOrder keeps, per order number, the entry with the greatest created_at.
// Orders without entries are absent from the result.
func (r *staffActionRepository) LatestPerOrder(ctx context.Context, orderNumbers []string) (map[string]domain.StaffOrderAction, error) {
	result := make(map[string]domain.StaffOrderAction, len(orderNumbers))
	if len(orderNumbers) == 0 {
		return result, nil
	}

	const query = `
        SELECT DISTINCT ON (order_number)
               id, order_number, order_id, prev_status, new_status, staff_code, created_at
        FROM staff_order_actions
        WHERE order_number = ANY($1)
        ORDER BY order_number, created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, orderNumbers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var action domain.StaffOrderAction
		if err := rows.Scan(
			&action.ID,
			&action.OrderNumber,
			&action.OrderID,
			&action.PrevStatus,
			&action.NewStatus,
			&action.StaffCode,
			&action.CreatedAt,
		); err != nil {
			return nil, err
		}
		result[action.OrderNumber] = action
	}
	return result, rows.Err()
}
