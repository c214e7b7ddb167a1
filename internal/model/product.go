package model

import "time"

// Product mirrors the `products` table.  PriceCents stores money as an
// integer to avoid floating point drift in totals.  Category is stored
// lowercase.  Image holds a URL to an externally hosted picture.
type Product struct {
    ID          uint64    `json:"id"`           // products.id
    Name        string    `json:"name"`         // products.name
    Description string    `json:"description"`  // products.description
    PriceCents  int64     `json:"price_cents"`  // products.price_cents
    Image       string    `json:"image"`        // products.image (URL, may be empty)
    Category    string    `json:"category"`     // products.category (lowercase)
    IsFeatured  bool      `json:"is_featured"`  // products.is_featured
    CreatedAt   time.Time `json:"created_at"`   // products.created_at
    UpdatedAt   time.Time `json:"updated_at"`   // products.updated_at
}
