package orders

import (
	"context"
	"fmt"
	"log"
)

// The coordinator talks to its collaborators through narrow interfaces so
// the placement state machine can be exercised without Postgres.
type stockLedger interface {
	Reserve(ctx context.Context, productID string, qty int) (int, error)
	Release(ctx context.Context, productID string, qty int) error
}

type headerStore interface {
	CreateHeader(ctx context.Context, userID int64) (string, error)
	MarkStatus(ctx context.Context, orderID string, to Status) error
}

type lineWriter interface {
	WriteLine(ctx context.Context, orderID, productID string, qty int) (int, error)
	DeleteLines(ctx context.Context, orderID string) error
}

type PlacedLine struct {
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
	PriceCents int    `json:"price_cents"`
}

type Placement struct {
	OrderID    string       `json:"order_id"`
	Lines      []PlacedLine `json:"lines"`
	TotalCents int          `json:"total_cents"`
}

// Coordinator runs order placement all-or-nothing: every cart line commits
// or the whole order fails and every applied reservation is released.
type Coordinator struct {
	Ledger  stockLedger
	Headers headerStore
	Lines   lineWriter
}

func NewCoordinator(ledger *Ledger, headers *HeaderRepo, lines *LineRepo) *Coordinator {
	return &Coordinator{Ledger: ledger, Headers: headers, Lines: lines}
}

// PlaceOrder validates the cart, creates the header, then reserves and
// writes each line in sequence. Any failure after the header exists takes
// the rollback path; the caller never observes a half-applied order.
func (c *Coordinator) PlaceOrder(ctx context.Context, userID int64, cart Cart) (*Placement, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", ErrValidation)
	}
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	for _, l := range cart {
		if l.ProductID == "" {
			return nil, fmt.Errorf("%w: missing product id", ErrValidation)
		}
		if l.Qty <= 0 {
			return nil, fmt.Errorf("%w: invalid qty for product %s", ErrValidation, l.ProductID)
		}
	}

	orderID, err := c.Headers.CreateHeader(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Lines are processed sequentially: reservations against different
	// products may still race with other orders, but within one order the
	// rollback list stays trivially correct.
	applied := make([]CartLine, 0, len(cart))
	lines := make([]PlacedLine, 0, len(cart))
	total := 0
	for _, l := range cart {
		qty, err := c.Ledger.Reserve(ctx, l.ProductID, l.Qty)
		if err != nil {
			return nil, c.abort(ctx, orderID, applied, err)
		}
		applied = append(applied, CartLine{ProductID: l.ProductID, Qty: qty})

		price, err := c.Lines.WriteLine(ctx, orderID, l.ProductID, qty)
		if err != nil {
			return nil, c.abort(ctx, orderID, applied, err)
		}
		lines = append(lines, PlacedLine{ProductID: l.ProductID, Qty: qty, PriceCents: price})
		total += price * qty
	}

	if err := c.Headers.MarkStatus(ctx, orderID, StatusCommitted); err != nil {
		return nil, c.abort(ctx, orderID, applied, err)
	}
	return &Placement{OrderID: orderID, Lines: lines, TotalCents: total}, nil
}

// abort releases applied reservations in reverse order, removes any written
// lines and marks the order FAILED, then returns the original cause. The
// compensation must run even when the failure was a cancelled or expired
// context, so it uses a detached context.
func (c *Coordinator) abort(ctx context.Context, orderID string, applied []CartLine, cause error) error {
	rctx := context.WithoutCancel(ctx)
	for i := len(applied) - 1; i >= 0; i-- {
		if err := c.Ledger.Release(rctx, applied[i].ProductID, applied[i].Qty); err != nil {
			// Leaked reservation: stock is under-counted until fixed by hand.
			log.Printf("order %s: release %s qty=%d failed: %v",
				orderID, applied[i].ProductID, applied[i].Qty, err)
		}
	}
	if err := c.Lines.DeleteLines(rctx, orderID); err != nil {
		log.Printf("order %s: delete lines failed: %v", orderID, err)
	}
	if err := c.Headers.MarkStatus(rctx, orderID, StatusFailed); err != nil {
		log.Printf("order %s: mark failed: %v", orderID, err)
	}
	return cause
}
