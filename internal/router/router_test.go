package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arashn/storefront/internal/config"
	"github.com/arashn/storefront/internal/handler"
	"github.com/arashn/storefront/internal/model"
	"github.com/arashn/storefront/internal/repository"
	"github.com/arashn/storefront/internal/utils"
)

// catalogStub satisfies both handler.ProductCatalog and handler.ProductGetter.
type catalogStub struct{ products []model.Product }

func (s *catalogStub) List(context.Context) ([]model.Product, error)     { return s.products, nil }
func (s *catalogStub) Featured(context.Context) ([]model.Product, error) { return s.products, nil }
func (s *catalogStub) Recommended(_ context.Context, _ int) ([]model.Product, error) {
	return s.products, nil
}
func (s *catalogStub) ByCategory(_ context.Context, _ string) ([]model.Product, error) {
	return s.products, nil
}
func (s *catalogStub) Create(_ context.Context, p model.Product) (model.Product, error) {
	return p, nil
}
func (s *catalogStub) Delete(context.Context, uint64) error { return nil }
func (s *catalogStub) ToggleFeatured(context.Context, uint64) (model.Product, error) {
	return model.Product{}, nil
}
func (s *catalogStub) GetByID(_ context.Context, id uint64) (model.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, repository.ErrNotFound
}

type guardUsers struct{ users map[uint64]model.User }

func (g *guardUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := g.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

type cartStub struct{}

func (cartStub) Items(context.Context, uint64) ([]repository.CartLine, error) { return nil, nil }
func (cartStub) Add(context.Context, uint64, uint64) error                    { return nil }
func (cartStub) SetQuantity(context.Context, uint64, uint64, int) error       { return nil }
func (cartStub) Remove(context.Context, uint64, uint64) error                 { return nil }
func (cartStub) Clear(context.Context, uint64) error                          { return nil }

func newTestRouter(t *testing.T) (*echo.Echo, *miniredis.Miniredis, config.Config) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.Config{
		Env:            "test",
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
	catalog := &catalogStub{products: []model.Product{{ID: 1, Name: "Mug", PriceCents: 1500}}}
	h := Handlers{
		Products: handler.NewProductHandler(catalog, rdb),
		Cart:     handler.NewCartHandler(cartStub{}, catalog),
		Users: &guardUsers{users: map[uint64]model.User{
			7: {ID: 7, Email: "alice@x.com", Role: model.RoleCustomer},
		}},
	}

	e := echo.New()
	Register(e, cfg, h, rdb)
	return e, mr, cfg
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	e, _, _ := newTestRouter(t)
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogListingIsPublic(t *testing.T) {
	e, _, _ := newTestRouter(t)
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mug")
}

func TestCatalogMutationsRequireAdmin(t *testing.T) {
	e, _, _ := newTestRouter(t)

	rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/products", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, httptest.NewRequest(http.MethodPatch, "/api/products/1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPersonalRoutesRequireAuth(t *testing.T) {
	e, _, _ := newTestRouter(t)
	for _, path := range []string{"/api/cart", "/api/coupons", "/api/analytics"} {
		rec := serve(e, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path=%s", path)
	}
}

func TestLimiterBucketsAuthenticatedTrafficByAccount(t *testing.T) {
	e, mr, cfg := newTestRouter(t)

	tok, err := utils.NewToken(cfg.AccessSecret, 7, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: handler.AccessCookie, Value: tok.Value})
	rec := serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The guard runs before the limiter on personal routes, so the bucket
	// is keyed by the account, not the shared anon key.
	keys := strings.Join(mr.Keys(), "\n")
	assert.Contains(t, keys, "user:7")
	assert.NotContains(t, keys, "user:anon")
}
