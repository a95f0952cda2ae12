package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ledger owns products.stock. Nothing else in the system mutates it.
type Ledger struct{ DB *pgxpool.Pool }

// Reserve deducts qty from the product's stock. The WHERE clause re-checks
// the precondition so the read-compute-write is a single atomic statement;
// concurrent reservations against the same row serialize on it and stock can
// never go below zero.
func (l *Ledger) Reserve(ctx context.Context, productID string, qty int) (int, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	ct, err := l.DB.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`, productID, qty)
	if err != nil {
		return 0, err
	}
	if ct.RowsAffected() == 1 {
		return qty, nil
	}

	// Rejected: either the product does not exist or stock was short.
	var available int
	err = l.DB.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if err != nil {
		return 0, err
	}
	return 0, &StockShortfall{ProductID: productID, Required: qty, Available: available}
}

// Release credits a previously applied reservation back. Only the rollback
// path of a failed placement calls this.
func (l *Ledger) Release(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	ct, err := l.DB.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1`, productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return nil
}

// Stock reads the current quantity. Listing endpoints read the same column
// directly; decisions about deductions go through Reserve only.
func (l *Ledger) Stock(ctx context.Context, productID string) (int, error) {
	var n int
	err := l.DB.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return n, err
}
