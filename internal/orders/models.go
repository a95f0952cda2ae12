package orders

import "time"

type Order struct {
	ID        string
	UserID    int64
	Status    Status // see status.go
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine rows are append-only: a line exists only for a deduction the
// ledger has already applied. Corrections are compensating rows, not updates.
type OrderLine struct {
	ID         string
	OrderID    string
	ProductID  string
	Qty        int
	PriceCents int // unit price snapshot at placement time
	CreatedAt  time.Time
}

type CartLine struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type Cart []CartLine
