package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	internalErrors "github.com/BMustafa97/serverless-snacks/internal/lib/errors"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

// Repository persists orders in Postgres. Both mutations are conditional:
// create succeeds only for a fresh order id, the status update only while
// the expected status still holds at write time.
type Repository struct {
	log logger.Logger
	db  *sqlx.DB
}

func NewRepository(log logger.Logger, db *sqlx.DB) *Repository {
	return &Repository{
		log: log,
		db:  db,
	}
}

func (r *Repository) PutIfAbsent(ctx context.Context, order *models.Order) error {
	const op = "repository.order.PutIfAbsent"

	const query = `
		INSERT INTO orders (order_id, status, customer_name, snack_items, total_amount, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (order_id) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query,
		order.OrderID,
		order.Status,
		order.CustomerName,
		order.SnackItems,
		order.TotalAmount,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.log.Error(op, logger.String("error", err.Error()))
		return fmt.Errorf("%s: execute statement: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, internalErrors.ErrOrderAlreadyExists)
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, orderID string) (*models.Order, error) {
	const op = "repository.order.Get"

	const query = `
		SELECT order_id, status, customer_name, snack_items, total_amount, created_at, updated_at, processed_at
			FROM orders
			WHERE order_id = $1
	`

	var order models.Order
	if err := r.db.GetContext(ctx, &order, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, internalErrors.ErrOrderNotFound)
		}
		r.log.Error(op, logger.String("error", err.Error()))
		return nil, fmt.Errorf("%s: execute statement: %w", op, err)
	}

	return &order, nil
}

func (r *Repository) UpdateIfStatusEquals(
	ctx context.Context,
	orderID string,
	expected models.OrderStatus,
	update models.StatusUpdate,
) error {
	const op = "repository.order.UpdateIfStatusEquals"

	const query = `
		UPDATE orders
			SET status = $1, updated_at = $2, processed_at = COALESCE($3, processed_at)
			WHERE order_id = $4 AND status = $5
	`

	res, err := r.db.ExecContext(ctx, query,
		update.Status,
		update.UpdatedAt,
		update.ProcessedAt,
		orderID,
		expected,
	)
	if err != nil {
		r.log.Error(op, logger.String("error", err.Error()))
		return fmt.Errorf("%s: execute statement: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, internalErrors.ErrPreconditionFailed)
	}

	return nil
}
