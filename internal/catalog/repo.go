package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int       `json:"price_cents"`
	Stock       int       `json:"stock"`
	Images      string    `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Page mirrors the legacy listing response: the count is the number of items
// on this page, not the table total.
type Page struct {
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}

type Repo struct{ DB *pgxpool.Pool }

const productSQL = `
	SELECT p.id, c.title, p.title, p.description, p.price_cents, p.stock, p.images,
	       p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

// Normalize clamps page/limit the way the legacy API did: page and limit
// default to 1 and 10, anything non-positive falls back.
func Normalize(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return page, limit
}

func (r *Repo) List(ctx context.Context, page, limit int) (*Page, error) {
	page, limit = Normalize(page, limit)
	rows, err := r.DB.Query(ctx, productSQL+` ORDER BY p.id LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return scanPage(rows)
}

func (r *Repo) ListByCategory(ctx context.Context, category string, page, limit int) (*Page, error) {
	page, limit = Normalize(page, limit)
	rows, err := r.DB.Query(ctx,
		productSQL+` WHERE c.title ILIKE '%' || $1 || '%' ORDER BY p.id LIMIT $2 OFFSET $3`,
		category, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return scanPage(rows)
}

func (r *Repo) Get(ctx context.Context, productID string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, productSQL+` WHERE p.id = $1`, productID).
		Scan(&p.ID, &p.Category, &p.Title, &p.Description, &p.PriceCents, &p.Stock,
			&p.Images, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPage(rows pgx.Rows) (*Page, error) {
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Category, &p.Title, &p.Description, &p.PriceCents,
			&p.Stock, &p.Images, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &Page{Count: len(out), Products: out}, nil
}
