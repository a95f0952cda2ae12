package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HeaderRepo struct{ DB *pgxpool.Pool }

func (r *HeaderRepo) CreateHeader(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("%w: user id must be positive", ErrValidation)
	}
	orderID := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO orders(id, user_id, status)
		VALUES ($1, $2, $3)`, orderID, userID, StatusCreated)
	if err != nil {
		return "", err
	}
	return orderID, nil
}

// MarkStatus moves an order forward. The WHERE clause pins the expected
// current status so a concurrent transition loses cleanly instead of
// overwriting.
func (r *HeaderRepo) MarkStatus(ctx context.Context, orderID string, to Status) error {
	if !CanTransition(StatusCreated, to) {
		return fmt.Errorf("%w: CREATED -> %s", ErrStatusConflict, to)
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`, orderID, to, StatusCreated)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("%w: order %s", ErrStatusConflict, orderID)
	}
	return nil
}

func (r *HeaderRepo) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, status, created_at, updated_at
		FROM orders WHERE id = $1`, orderID).
		Scan(&o.ID, &o.UserID, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
