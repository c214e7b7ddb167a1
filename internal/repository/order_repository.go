package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/arashn/storefront/internal/model"
)

type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// Create inserts the order and its items in one transaction so a failed
// item insert never leaves a headless order behind.
func (r *OrderRepo) Create(ctx context.Context, o model.Order, items []model.OrderItem) (model.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (reference, user_id, total_cents, coupon_code) VALUES (?,?,?,?)",
		o.Reference, o.UserID, o.TotalCents, o.CouponCode)
	if err != nil {
		return model.Order{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, err
	}
	o.ID = uint64(id)
	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id, quantity, price_cents) VALUES (?,?,?,?)",
			o.ID, it.ProductID, it.Quantity, it.PriceCents); err != nil {
			return model.Order{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	o.CreatedAt = time.Now().UTC()
	return o, nil
}

// SalesTotals aggregates the order count and revenue over all time.
func (r *OrderRepo) SalesTotals(ctx context.Context) (orders int64, revenueCents int64, err error) {
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(total_cents),0) FROM orders").Scan(&orders, &revenueCents)
	return
}

// DailySale is one day of aggregated sales for the analytics dashboard.
type DailySale struct {
	Date         string `json:"date"` // YYYY-MM-DD
	Orders       int64  `json:"orders"`
	RevenueCents int64  `json:"revenue_cents"`
}

// DailySales returns per-day order counts and revenue between from and to
// (inclusive). Days without orders are absent; the handler fills the gaps.
func (r *OrderRepo) DailySales(ctx context.Context, from, to time.Time) ([]DailySale, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DATE(created_at), COUNT(*), COALESCE(SUM(total_cents),0)
		 FROM orders WHERE created_at BETWEEN ? AND ?
		 GROUP BY DATE(created_at) ORDER BY DATE(created_at)`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []DailySale{}
	for rows.Next() {
		var d DailySale
		var day time.Time
		if err := rows.Scan(&day, &d.Orders, &d.RevenueCents); err != nil {
			return nil, err
		}
		d.Date = day.Format("2006-01-02")
		out = append(out, d)
	}
	return out, rows.Err()
}
