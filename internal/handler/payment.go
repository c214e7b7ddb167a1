package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/arashn/storefront/internal/middleware"
	"github.com/arashn/storefront/internal/model"
	"github.com/arashn/storefront/internal/queue"
	"github.com/arashn/storefront/internal/repository"
	queue_publisher "github.com/arashn/storefront/internal/service"
)

// Orders totalling at least this much (after discount) earn the buyer a
// 10% gift coupon valid for 30 days.
const (
	giftThresholdCents = 200_00
	giftDiscountPct    = 10
	giftValidity       = 30 * 24 * time.Hour
)

// CheckoutCart is the part of the cart store checkout reads and empties.
type CheckoutCart interface {
	Items(ctx context.Context, userID uint64) ([]repository.CartLine, error)
	Clear(ctx context.Context, userID uint64) error
}

// CheckoutCouponStore covers coupon redemption and gift issuance.
type CheckoutCouponStore interface {
	ActiveByCode(ctx context.Context, userID uint64, code string) (model.Coupon, error)
	Deactivate(ctx context.Context, id uint64) error
	Create(ctx context.Context, userID uint64, code string, discount int, expires time.Time) (model.Coupon, error)
}

// OrderStore records completed checkouts.
type OrderStore interface {
	Create(ctx context.Context, o model.Order, items []model.OrderItem) (model.Order, error)
}

// PaymentHandler implements checkout. There is no external payment gateway;
// checkout validates the cart and coupon, records the order and clears the
// cart in one pass.
type PaymentHandler struct {
	Cart    CheckoutCart
	Coupons CheckoutCouponStore
	Orders  OrderStore
	Events  *queue_publisher.Publisher // nil disables event publishing
}

func NewPaymentHandler(cart CheckoutCart, coupons CheckoutCouponStore,
	orders OrderStore, events *queue_publisher.Publisher) *PaymentHandler {
	return &PaymentHandler{Cart: cart, Coupons: coupons, Orders: orders, Events: events}
}

type checkoutReq struct {
	CouponCode string `json:"coupon_code"` // optional
}

// Checkout handles POST /api/payments/checkout.
func (h *PaymentHandler) Checkout(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	var req checkoutReq
	_ = c.Bind(&req)
	req.CouponCode = strings.TrimSpace(req.CouponCode)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	lines, err := h.Cart.Items(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}
	if len(lines) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Cart is empty"})
	}

	var total int64
	items := make([]model.OrderItem, 0, len(lines))
	eventLines := make([]queue.OrderLine, 0, len(lines))
	for _, l := range lines {
		total += l.Product.PriceCents * int64(l.Quantity)
		items = append(items, model.OrderItem{
			ProductID:  l.Product.ID,
			Quantity:   l.Quantity,
			PriceCents: l.Product.PriceCents,
		})
		eventLines = append(eventLines, queue.OrderLine{
			ProductID:  l.Product.ID,
			Name:       l.Product.Name,
			Quantity:   l.Quantity,
			PriceCents: l.Product.PriceCents,
		})
	}

	var usedCoupon model.Coupon
	if req.CouponCode != "" {
		coupon, err := h.Coupons.ActiveByCode(ctx, u.ID, req.CouponCode)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"message": "Invalid or expired coupon"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
		}
		if coupon.Expired(time.Now().UTC()) {
			_ = h.Coupons.Deactivate(ctx, coupon.ID)
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Coupon has expired"})
		}
		total -= total * int64(coupon.DiscountPercentage) / 100
		usedCoupon = coupon
	}

	order, err := h.Orders.Create(ctx, model.Order{
		Reference:  uuid.NewString(),
		UserID:     u.ID,
		TotalCents: total,
		CouponCode: usedCoupon.Code,
	}, items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	// Post-order bookkeeping is best-effort: the order exists, so a failed
	// coupon flip or cart clear must not turn the checkout into an error.
	if usedCoupon.ID != 0 {
		_ = h.Coupons.Deactivate(ctx, usedCoupon.ID)
	}
	_ = h.Cart.Clear(ctx, u.ID)

	resp := echo.Map{
		"message": "Order placed successfully",
		"order": echo.Map{
			"reference":   order.Reference,
			"total_cents": order.TotalCents,
		},
	}
	if order.TotalCents >= giftThresholdCents {
		code := "GIFT-" + strings.ToUpper(uuid.NewString()[:8])
		if gift, err := h.Coupons.Create(ctx, u.ID, code, giftDiscountPct,
			time.Now().UTC().Add(giftValidity)); err == nil {
			resp["gift_coupon"] = gift
		}
	}

	if h.Events != nil {
		_ = h.Events.OrderPlaced(ctx, queue.OrderPlacedEvent{
			OrderID:    order.ID,
			Reference:  order.Reference,
			UserID:     u.ID,
			TotalCents: order.TotalCents,
			CouponCode: usedCoupon.Code,
			Items:      eventLines,
			PlacedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, resp)
}
