package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/arashn/storefront/internal/config"
	"github.com/arashn/storefront/internal/database"
	"github.com/arashn/storefront/internal/handler"
	"github.com/arashn/storefront/internal/queue"
	"github.com/arashn/storefront/internal/repository"
	"github.com/arashn/storefront/internal/router"
	queue_publisher "github.com/arashn/storefront/internal/service"
	"github.com/arashn/storefront/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Redis holds the refresh-token sessions, so unlike the optional cache
	// and rate limiter the server refuses to start without it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Fatal("redis connect failed; the session cache is required")
	}
	sessions := session.NewRedisStore(rdb)

	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	cart := repository.NewCartRepo(db)
	coupons := repository.NewCouponRepo(db)
	orders := repository.NewOrderRepo(db)

	events := queue_publisher.NewPublisher(logger)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, sessions),
		Products:  handler.NewProductHandler(products, rdb),
		Cart:      handler.NewCartHandler(cart, products),
		Coupons:   handler.NewCouponHandler(coupons),
		Payments:  handler.NewPaymentHandler(cart, coupons, orders, events),
		Analytics: handler.NewAnalyticsHandler(users, products, orders),
		Users:     users,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	router.Register(e, cfg, h, rdb)

	// The order consumer reconnects forever on its own; run it alongside
	// the HTTP server.
	go func() {
		if err := queue.StartOrderConsumer(logger); err != nil {
			logger.Warn("order consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newLogger builds a production logger outside local development and a
// human-friendly development logger otherwise.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
