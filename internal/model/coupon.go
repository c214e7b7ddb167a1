package model

import "time"

// Coupon mirrors the `coupons` table.  Each coupon belongs to a single user
// and carries a percentage discount.  IsActive is the revocation flag: a
// coupon past its expiration date is flipped to inactive the first time it
// is presented.
type Coupon struct {
    ID                 uint64    `json:"id"`                  // coupons.id
    Code               string    `json:"code"`                // coupons.code (unique)
    DiscountPercentage int       `json:"discount_percentage"` // coupons.discount_percentage (1..100)
    ExpirationDate     time.Time `json:"expiration_date"`     // coupons.expiration_date
    IsActive           bool      `json:"is_active"`           // coupons.is_active
    UserID             uint64    `json:"user_id"`             // coupons.user_id
}

// Expired reports whether the coupon's expiration date has passed at now.
func (c Coupon) Expired(now time.Time) bool {
    return now.After(c.ExpirationDate)
}
