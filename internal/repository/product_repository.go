package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/arashn/storefront/internal/model"
)

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id,name,description,price_cents,image,category,is_featured,created_at,updated_at"

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Image,
		&p.Category, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectProducts(rows *sql.Rows) ([]model.Product, error) {
	defer rows.Close()
	out := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// List returns the whole catalog, newest first.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// GetByID fetches a single product.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// Featured returns all products currently flagged as featured.
func (r *ProductRepo) Featured(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE is_featured=1 ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// ByCategory returns the products of one category (stored lowercase).
func (r *ProductRepo) ByCategory(ctx context.Context, category string) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE category=? ORDER BY created_at DESC",
		strings.ToLower(strings.TrimSpace(category)))
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// Recommended returns up to n random products for the storefront carousel.
func (r *ProductRepo) Recommended(ctx context.Context, n int) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY RAND() LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// Create inserts a product and returns the stored record.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (name, description, price_cents, image, category) VALUES (?,?,?,?,?)",
		p.Name, p.Description, p.PriceCents, p.Image, strings.ToLower(strings.TrimSpace(p.Category)))
	if err != nil {
		return model.Product{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Product{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Delete removes a product. ErrNotFound is returned when no row matched.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFeatured flips the is_featured flag and returns the updated product.
func (r *ProductRepo) ToggleFeatured(ctx context.Context, id uint64) (model.Product, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE products SET is_featured = NOT is_featured WHERE id=?", id)
	if err != nil {
		return model.Product{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Product{}, err
	}
	if n == 0 {
		return model.Product{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Count returns the catalog size.
func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n)
	return n, err
}
