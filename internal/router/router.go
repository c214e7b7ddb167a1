package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/arashn/storefront/internal/config"
	"github.com/arashn/storefront/internal/handler"
	"github.com/arashn/storefront/internal/middleware"
)

// Handlers groups every handler the router wires up. main constructs it
// once all dependencies are ready.
type Handlers struct {
	Auth      *handler.AuthHandler
	Products  *handler.ProductHandler
	Cart      *handler.CartHandler
	Coupons   *handler.CouponHandler
	Payments  *handler.PaymentHandler
	Analytics *handler.AnalyticsHandler
	Users     middleware.UserGetter
}

// Register wires all application routes onto the Echo instance. The public
// catalog endpoints sit behind the Redis response cache; everything is rate
// limited; mutating and personal endpoints require the route guard, and
// administration additionally requires the admin role.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	respCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	protect := middleware.Protect(cfg.AccessSecret, handler.AccessCookie, h.Users)
	admin := middleware.AdminOnly()

	// Session lifecycle. Logout and refresh work from the refresh cookie
	// alone, so only profile sits behind the guard.
	auth := e.Group("/api/auth")
	auth.POST("/signup", h.Auth.Signup, limiter)
	auth.POST("/login", h.Auth.Login, limiter)
	auth.POST("/logout", h.Auth.Logout, limiter)
	auth.POST("/refresh", h.Auth.Refresh, limiter)
	auth.GET("/profile", h.Auth.Profile, protect, limiter)

	// Catalog: anonymous browsing is cached and limited per IP; the
	// mutating admin routes run the guard first so the limiter buckets
	// them per account.
	products := e.Group("/api/products")
	products.GET("", h.Products.List, limiter, respCache)
	products.GET("/featured", h.Products.Featured, limiter, respCache)
	products.GET("/recommendations", h.Products.Recommended, limiter, respCache)
	products.GET("/category/:category", h.Products.ByCategory, limiter, respCache)
	products.POST("", h.Products.Create, protect, admin, limiter)
	products.DELETE("/:id", h.Products.Delete, protect, admin, limiter)
	products.PATCH("/:id", h.Products.ToggleFeatured, protect, admin, limiter)

	// Personal groups run the guard before the limiter so authenticated
	// traffic is bucketed by account rather than by the shared anon key.
	cart := e.Group("/api/cart", protect, limiter)
	cart.GET("", h.Cart.Get)
	cart.POST("", h.Cart.Add)
	cart.PUT("/:id", h.Cart.Update)
	cart.DELETE("", h.Cart.Remove)

	coupons := e.Group("/api/coupons", protect, limiter)
	coupons.GET("", h.Coupons.Get)
	coupons.POST("/validate", h.Coupons.Validate)

	payments := e.Group("/api/payments", protect, limiter)
	payments.POST("/checkout", h.Payments.Checkout)

	analytics := e.Group("/api/analytics", protect, admin, limiter)
	analytics.GET("", h.Analytics.Get)
}
