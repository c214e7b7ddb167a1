package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arashn/storefront/internal/middleware"
	"github.com/arashn/storefront/internal/model"
	"github.com/arashn/storefront/internal/repository"
)

// CouponStore is the slice of the coupon repository the handler needs,
// declared as an interface so tests can use an in-memory fake.
type CouponStore interface {
	ActiveForUser(ctx context.Context, userID uint64) (model.Coupon, error)
	ActiveByCode(ctx context.Context, userID uint64, code string) (model.Coupon, error)
	Deactivate(ctx context.Context, id uint64) error
}

// CouponHandler bundles dependencies for coupon endpoints (all guarded).
type CouponHandler struct {
	Coupons CouponStore
}

func NewCouponHandler(coupons CouponStore) *CouponHandler {
	return &CouponHandler{Coupons: coupons}
}

type validateCouponReq struct {
	Code string `json:"code"`
}

// Get handles GET /api/coupons, returning the caller's active coupon.
func (h *CouponHandler) Get(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	coupon, err := h.Coupons.ActiveForUser(ctx, u.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Coupon not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}
	return c.JSON(http.StatusOK, coupon)
}

// Validate handles POST /api/coupons/validate. A coupon past its
// expiration date is deactivated on first presentation, so subsequent
// validations see it as missing rather than expired.
func (h *CouponHandler) Validate(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	var req validateCouponReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Coupon code is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	coupon, err := h.Coupons.ActiveByCode(ctx, u.ID, strings.TrimSpace(req.Code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Invalid or expired coupon"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}
	if coupon.Expired(time.Now().UTC()) {
		if err := h.Coupons.Deactivate(ctx, coupon.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Coupon has expired"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":             "Coupon is valid",
		"code":                coupon.Code,
		"discount_percentage": coupon.DiscountPercentage,
	})
}
