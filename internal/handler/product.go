package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/arashn/storefront/internal/model"
	"github.com/arashn/storefront/internal/repository"
)

// featuredCacheKey holds the serialized featured-product list in Redis.
// Entries live for 7 days and are rebuilt whenever an admin toggles a
// product's featured flag.
const (
	featuredCacheKey = "featuredProducts"
	featuredCacheTTL = 7 * 24 * time.Hour
)

// ProductCatalog is the slice of the product repository the catalog
// endpoints need, declared as an interface so tests can use an in-memory
// fake.
type ProductCatalog interface {
	List(ctx context.Context) ([]model.Product, error)
	Featured(ctx context.Context) ([]model.Product, error)
	Recommended(ctx context.Context, n int) ([]model.Product, error)
	ByCategory(ctx context.Context, category string) ([]model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Delete(ctx context.Context, id uint64) error
	ToggleFeatured(ctx context.Context, id uint64) (model.Product, error)
}

// ProductHandler bundles dependencies for catalog endpoints.  Cache may be
// nil, in which case featured products are always read from the database.
type ProductHandler struct {
	Products ProductCatalog
	Cache    *redis.Client
}

func NewProductHandler(products ProductCatalog, cache *redis.Client) *ProductHandler {
	return &ProductHandler{Products: products, Cache: cache}
}

type createProductReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

// List handles GET /api/products, the public catalog listing.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.Products.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving products"})
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// Featured handles GET /api/products/featured, serving from Redis when the
// cache is warm and repopulating it on a miss.
func (h *ProductHandler) Featured(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if h.Cache != nil {
		if raw, err := h.Cache.Get(ctx, featuredCacheKey).Bytes(); err == nil {
			var cached []model.Product
			if json.Unmarshal(raw, &cached) == nil {
				return c.JSON(http.StatusOK, cached)
			}
		}
	}

	featured, err := h.Products.Featured(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving featured products"})
	}
	if len(featured) > 0 && h.Cache != nil {
		if raw, err := json.Marshal(featured); err == nil {
			_ = h.Cache.Set(ctx, featuredCacheKey, raw, featuredCacheTTL).Err()
		}
	}
	return c.JSON(http.StatusOK, featured)
}

// Recommended handles GET /api/products/recommendations with a small random
// sample for the storefront carousel.
func (h *ProductHandler) Recommended(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.Products.Recommended(ctx, 3)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving recommended products"})
	}
	return c.JSON(http.StatusOK, products)
}

// ByCategory handles GET /api/products/category/:category.
func (h *ProductHandler) ByCategory(c echo.Context) error {
	category := strings.TrimSpace(c.Param("category"))
	if category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Category is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.Products.ByCategory(ctx, category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving products by category"})
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// Create handles POST /api/products (admin).
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if req.Name == "" || req.Description == "" || req.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name, description and category are required"})
	}
	if req.PriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Price must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := h.Products.Create(ctx, model.Product{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Image:       req.Image,
		Category:    req.Category,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating product"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

// Delete handles DELETE /api/products/:id (admin).
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting product"})
	}
	h.rebuildFeaturedCache(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// ToggleFeatured handles PATCH /api/products/:id (admin), flipping the
// featured flag and rebuilding the featured cache.
func (h *ProductHandler) ToggleFeatured(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := h.Products.ToggleFeatured(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error toggling featured status"})
	}
	h.rebuildFeaturedCache(ctx)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

// rebuildFeaturedCache refreshes the cached featured list. Failures are
// swallowed: the cache repopulates on the next Featured miss anyway.
func (h *ProductHandler) rebuildFeaturedCache(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	featured, err := h.Products.Featured(ctx)
	if err != nil {
		return
	}
	raw, err := json.Marshal(featured)
	if err != nil {
		return
	}
	_ = h.Cache.Set(ctx, featuredCacheKey, raw, featuredCacheTTL).Err()
}
