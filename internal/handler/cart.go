package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arashn/storefront/internal/middleware"
	"github.com/arashn/storefront/internal/model"
	"github.com/arashn/storefront/internal/repository"
)

// CartStore is the slice of the cart repository the handlers need,
// declared as an interface so tests can use an in-memory fake.
type CartStore interface {
	Items(ctx context.Context, userID uint64) ([]repository.CartLine, error)
	Add(ctx context.Context, userID, productID uint64) error
	SetQuantity(ctx context.Context, userID, productID uint64, quantity int) error
	Remove(ctx context.Context, userID, productID uint64) error
	Clear(ctx context.Context, userID uint64) error
}

// ProductGetter is the single product lookup Add needs to reject unknown
// product ids.
type ProductGetter interface {
	GetByID(ctx context.Context, id uint64) (model.Product, error)
}

// CartHandler bundles dependencies for cart endpoints. All routes behind it
// are guarded, so the identity is always present in context.
type CartHandler struct {
	Cart     CartStore
	Products ProductGetter
}

func NewCartHandler(cart CartStore, products ProductGetter) *CartHandler {
	return &CartHandler{Cart: cart, Products: products}
}

type addCartReq struct {
	ProductID uint64 `json:"product_id"`
}
type updateCartReq struct {
	Quantity int `json:"quantity"`
}
type removeCartReq struct {
	ProductID uint64 `json:"product_id"` // zero clears the whole cart
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lines, err := h.Cart.Items(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving cart"})
	}
	var total int64
	for _, l := range lines {
		total += l.Product.PriceCents * int64(l.Quantity)
	}
	return c.JSON(http.StatusOK, echo.Map{"cart": lines, "total_cents": total})
}

// Add handles POST /api/cart, inserting one unit or incrementing quantity.
func (h *CartHandler) Add(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	var req addCartReq
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Product id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Products.GetByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error adding to cart"})
	}
	if err := h.Cart.Add(ctx, u.ID, req.ProductID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error adding to cart"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product added to cart"})
}

// Update handles PUT /api/cart/:id, setting a line's quantity. Quantity
// zero removes the line.
func (h *CartHandler) Update(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid product id"})
	}
	var req updateCartReq
	if err := c.Bind(&req); err != nil || req.Quantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Quantity must be zero or positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cart.SetQuantity(ctx, u.ID, productID, req.Quantity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not in cart"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating cart"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Cart updated"})
}

// Remove handles DELETE /api/cart. A product id removes that line; an
// empty body clears the whole cart.
func (h *CartHandler) Remove(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	var req removeCartReq
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.ProductID == 0 {
		if err := h.Cart.Clear(ctx, u.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error clearing cart"})
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Cart cleared"})
	}
	if err := h.Cart.Remove(ctx, u.ID, req.ProductID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error removing from cart"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product removed from cart"})
}
