package repository

import (
	"context"
	"database/sql"

	"github.com/arashn/storefront/internal/model"
)

// CartRepo persists the per-user cart in the `cart_items` table. The table
// has a composite primary key (user_id, product_id) so each product appears
// at most once per cart.
type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// CartLine is a cart item joined with its product, ready for display.
type CartLine struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
}

// Items returns the user's cart joined with product data, in insertion order.
func (r *CartRepo) Items(ctx context.Context, userID uint64) ([]CartLine, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT p.id,p.name,p.description,p.price_cents,p.image,p.category,p.is_featured,p.created_at,p.updated_at,ci.quantity
		 FROM cart_items ci JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id=? ORDER BY ci.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []CartLine{}
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.Product.ID, &l.Product.Name, &l.Product.Description,
			&l.Product.PriceCents, &l.Product.Image, &l.Product.Category,
			&l.Product.IsFeatured, &l.Product.CreatedAt, &l.Product.UpdatedAt,
			&l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Add puts one unit of a product into the cart, incrementing the quantity
// when the product is already there.
func (r *CartRepo) Add(ctx context.Context, userID, productID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?,?,1)
		 ON DUPLICATE KEY UPDATE quantity = quantity + 1`, userID, productID)
	return err
}

// SetQuantity updates a cart line. Quantity zero removes the line; the row
// must already exist or ErrNotFound is returned.
func (r *CartRepo) SetQuantity(ctx context.Context, userID, productID uint64, quantity int) error {
	if quantity <= 0 {
		return r.Remove(ctx, userID, productID)
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity=? WHERE user_id=? AND product_id=?",
		quantity, userID, productID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "absent" from "unchanged quantity".
		var exists int
		err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM cart_items WHERE user_id=? AND product_id=? LIMIT 1",
			userID, productID).Scan(&exists)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Remove deletes a single cart line.
func (r *CartRepo) Remove(ctx context.Context, userID, productID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id=? AND product_id=?", userID, productID)
	return err
}

// Clear empties the user's cart.
func (r *CartRepo) Clear(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID)
	return err
}
