package model

import "time"

// Role values allowed for a user account.
const (
    RoleCustomer = "customer"
    RoleAdmin    = "admin"
)

// ValidRole reports whether s is one of the recognised role names.
func ValidRole(s string) bool {
    return s == RoleCustomer || s == RoleAdmin
}

// User mirrors the `users` table.  PasswordHash never leaves the repository
// layer; handlers expose users through response DTOs without it.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email (unique, normalized lowercase)
    PasswordHash string    // users.password_hash (bcrypt)
    Role         string    // users.role ("customer" | "admin")
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// CartItem mirrors a row in `cart_items`.  Quantity is always at least 1;
// setting it to zero removes the row.
type CartItem struct {
    UserID    uint64 // cart_items.user_id
    ProductID uint64 // cart_items.product_id
    Quantity  int    // cart_items.quantity
}
