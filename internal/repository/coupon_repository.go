package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arashn/storefront/internal/model"
)

type CouponRepo struct{ DB *sql.DB }

func NewCouponRepo(db *sql.DB) *CouponRepo { return &CouponRepo{DB: db} }

const couponColumns = "id,code,discount_percentage,expiration_date,is_active,user_id"

func scanCoupon(row interface{ Scan(...any) error }) (model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.DiscountPercentage, &c.ExpirationDate,
		&c.IsActive, &c.UserID)
	return c, err
}

// ActiveForUser returns the user's currently active coupon, if any.
func (r *CouponRepo) ActiveForUser(ctx context.Context, userID uint64) (model.Coupon, error) {
	c, err := scanCoupon(r.DB.QueryRowContext(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE user_id=? AND is_active=1 LIMIT 1",
		userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Coupon{}, ErrNotFound
	}
	return c, err
}

// ActiveByCode returns a user's active coupon with the given code. A coupon
// that belongs to another user is indistinguishable from a missing one.
func (r *CouponRepo) ActiveByCode(ctx context.Context, userID uint64, code string) (model.Coupon, error) {
	c, err := scanCoupon(r.DB.QueryRowContext(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE code=? AND user_id=? AND is_active=1 LIMIT 1",
		code, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Coupon{}, ErrNotFound
	}
	return c, err
}

// Deactivate flips a coupon to inactive (used on expiry and after checkout).
func (r *CouponRepo) Deactivate(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE coupons SET is_active=0 WHERE id=?", id)
	return err
}

// Create inserts a coupon. Any previous active coupon for the user is
// deactivated first so at most one is live at a time.
func (r *CouponRepo) Create(ctx context.Context, userID uint64, code string, discount int, expires time.Time) (model.Coupon, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE coupons SET is_active=0 WHERE user_id=? AND is_active=1", userID); err != nil {
		return model.Coupon{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO coupons (code, discount_percentage, expiration_date, is_active, user_id) VALUES (?,?,?,1,?)",
		code, discount, expires, userID)
	if err != nil {
		return model.Coupon{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Coupon{}, err
	}
	c, err := scanCoupon(r.DB.QueryRowContext(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE id=? LIMIT 1", id))
	return c, err
}
