package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// OrderRepository reads and writes the status field of externally owned orders.
// Nothing else on the order row is touched.
type OrderRepository interface {
	GetStatus(ctx context.Context, orderNumber string) (domain.OrderStatus, error)
	SetStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error
	AdvanceStatus(ctx context.Context, adv StatusAdvance) (*domain.StaffAssignment, error)
}

// StatusAdvance is one staff status move applied as a single unit. The move
// only lands while the order still carries ExpectedStatus and its newest log
// entry is still ExpectedLatestActionID (empty when the log was empty).
type StatusAdvance struct {
	ExpectedStatus         domain.OrderStatus
	ExpectedLatestActionID string
	Action                 *domain.StaffOrderAction
	// CompleteAssignment closes the acting staff member's active assignment
	// for the order in the same transaction.
	CompleteAssignment bool
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) GetStatus(ctx context.Context, orderNumber string) (domain.OrderStatus, error) {
	var status domain.OrderStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE order_number=$1`, orderNumber).Scan(&status)
	return status, err
}

func (r *orderRepository) SetStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE orders SET status=$1, updated_at=NOW() WHERE order_number=$2`,
		status, orderNumber)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AdvanceStatus writes the new order status, appends adv.Action to the log and
// optionally completes the active assignment, all or nothing. It returns
// ErrStaleStatus when another move landed after the caller read the order, and
// the completed assignment when one was closed.
func (r *orderRepository) AdvanceStatus(ctx context.Context, adv StatusAdvance) (*domain.StaffAssignment, error) {
	action := adv.Action
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The conditional update also takes the row lock that serializes movers.
	cmd, err := tx.Exec(ctx,
		`UPDATE orders SET status=$1, updated_at=NOW() WHERE order_number=$2 AND status=$3`,
		action.NewStatus, action.OrderNumber, adv.ExpectedStatus)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE order_number=$1)`,
			action.OrderNumber).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, pgx.ErrNoRows
		}
		return nil, ErrStaleStatus
	}

	var latestID string
	err = tx.QueryRow(ctx, `
        SELECT id::text FROM staff_order_actions
        WHERE order_number=$1
        ORDER BY created_at DESC, id DESC
        LIMIT 1`, action.OrderNumber).Scan(&latestID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if latestID != adv.ExpectedLatestActionID {
		return nil, ErrStaleStatus
	}

	if err := tx.QueryRow(ctx, `
        INSERT INTO staff_order_actions (order_number, order_id, prev_status, new_status, staff_code)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`,
		action.OrderNumber,
		action.OrderID,
		action.PrevStatus,
		action.NewStatus,
		action.StaffCode,
	).Scan(&action.ID, &action.CreatedAt); err != nil {
		return nil, err
	}

	var completed *domain.StaffAssignment
	if adv.CompleteAssignment {
		completed, err = scanAssignment(tx.QueryRow(ctx, `
            UPDATE staff_assignments SET status='completed', updated_at=NOW()
            WHERE order_number=$1 AND staff_code=$2 AND status='active'
            RETURNING `+assignmentColumns, action.OrderNumber, action.StaffCode))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return completed, nil
}
