package model

import "time"

// Order mirrors the `orders` table.  Reference is an opaque identifier
// returned to clients and used in published events so internal numeric ids
// stay private.
type Order struct {
    ID         uint64    // orders.id
    Reference  string    // orders.reference (uuid)
    UserID     uint64    // orders.user_id
    TotalCents int64     // orders.total_cents (after discount)
    CouponCode string    // orders.coupon_code (empty when none applied)
    CreatedAt  time.Time // orders.created_at
}

// OrderItem mirrors a row in `order_items`.  PriceCents is the unit price
// at the moment of checkout, frozen so later catalog edits do not rewrite
// history.
type OrderItem struct {
    OrderID    uint64 // order_items.order_id
    ProductID  uint64 // order_items.product_id
    Quantity   int    // order_items.quantity
    PriceCents int64  // order_items.price_cents
}
