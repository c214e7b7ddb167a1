// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderLine is one purchased product inside an OrderPlacedEvent.
type OrderLine struct {
    ProductID  uint64 `json:"product_id"`
    Name       string `json:"name"`
    Quantity   int    `json:"quantity"`
    PriceCents int64  `json:"price_cents"`
}

// OrderPlacedEvent is published when a checkout completes. It carries enough
// information for downstream consumers to log, notify, or feed analytics
// without querying the primary database.
type OrderPlacedEvent struct {
    OrderID    uint64      `json:"order_id"`
    Reference  string      `json:"reference"`
    UserID     uint64      `json:"user_id"`
    TotalCents int64       `json:"total_cents"`
    CouponCode string      `json:"coupon_code,omitempty"`
    Items      []OrderLine `json:"items"`
    PlacedAt   string      `json:"placed_at"`
}
