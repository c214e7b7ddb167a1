package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arashn/storefront/internal/repository"
)

// AnalyticsHandler serves the admin dashboard numbers.
type AnalyticsHandler struct {
	Users    *repository.UserRepo
	Products *repository.ProductRepo
	Orders   *repository.OrderRepo
}

func NewAnalyticsHandler(users *repository.UserRepo, products *repository.ProductRepo,
	orders *repository.OrderRepo) *AnalyticsHandler {
	return &AnalyticsHandler{Users: users, Products: products, Orders: orders}
}

// Get handles GET /api/analytics (admin). It returns overall totals plus a
// 7-day daily breakdown; days without orders appear with zeros so charts
// have a continuous axis.
func (h *AnalyticsHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	users, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving analytics"})
	}
	products, err := h.Products.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving analytics"})
	}
	orders, revenue, err := h.Orders.SalesTotals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving analytics"})
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -6).Truncate(24 * time.Hour)
	daily, err := h.Orders.DailySales(ctx, from, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving analytics"})
	}

	byDate := make(map[string]repository.DailySale, len(daily))
	for _, d := range daily {
		byDate[d.Date] = d
	}
	filled := make([]repository.DailySale, 0, 7)
	for day := from; !day.After(now); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if d, ok := byDate[key]; ok {
			filled = append(filled, d)
		} else {
			filled = append(filled, repository.DailySale{Date: key})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"analytics": echo.Map{
			"users":               users,
			"products":            products,
			"total_sales":         orders,
			"total_revenue_cents": revenue,
		},
		"daily_sales": filled,
	})
}
