package orders

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRow is one joined line for the admin order listing: line plus product
// and buyer display fields.
type OrderRow struct {
	OrderID     string `json:"order_id"`
	Status      Status `json:"status"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int    `json:"price_cents"`
	Qty         int    `json:"qty"`
	UserName    string `json:"user_name"`
}

type QueryRepo struct{ DB *pgxpool.Pool }

const orderRowsSQL = `
	SELECT o.id, o.status, p.title, p.description, oi.price_cents, oi.qty, u.name
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	JOIN products p ON p.id = oi.product_id
	JOIN users u ON u.id = o.user_id`

func (r *QueryRepo) ListOrders(ctx context.Context) ([]OrderRow, error) {
	rows, err := r.DB.Query(ctx, orderRowsSQL+` ORDER BY o.created_at DESC, oi.created_at`)
	if err != nil {
		return nil, err
	}
	return scanOrderRows(rows)
}

func (r *QueryRepo) OrderDetail(ctx context.Context, orderID string) ([]OrderRow, error) {
	rows, err := r.DB.Query(ctx, orderRowsSQL+` WHERE o.id = $1 ORDER BY oi.created_at`, orderID)
	if err != nil {
		return nil, err
	}
	return scanOrderRows(rows)
}

func scanOrderRows(rows pgx.Rows) ([]OrderRow, error) {
	defer rows.Close()
	var out []OrderRow
	for rows.Next() {
		var o OrderRow
		if err := rows.Scan(&o.OrderID, &o.Status, &o.Title, &o.Description, &o.PriceCents, &o.Qty, &o.UserName); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
