package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LineRepo struct{ DB *pgxpool.Pool }

// WriteLine appends one line for an already-applied deduction, snapshotting
// the unit price from the catalog (never trusted from the client). Returns
// the snapshotted price.
func (r *LineRepo) WriteLine(ctx context.Context, orderID, productID string, qty int) (int, error) {
	var priceCents int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO order_items(id, order_id, product_id, qty, price_cents)
		SELECT $1, $2, $3, $4, price_cents FROM products WHERE id = $3
		RETURNING price_cents`,
		uuid.NewString(), orderID, productID, qty).Scan(&priceCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if err != nil {
		return 0, err
	}
	return priceCents, nil
}

// DeleteLines removes every line of an order. Only the rollback path of a
// failed placement calls this; a FAILED order keeps zero lines.
func (r *LineRepo) DeleteLines(ctx context.Context, orderID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	return err
}

func (r *LineRepo) LinesByOrder(ctx context.Context, orderID string) ([]OrderLine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, qty, price_cents, created_at
		FROM order_items WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Qty, &l.PriceCents, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
