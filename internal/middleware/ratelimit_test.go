package middleware

import (
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
	"github.com/arashn/storefront/internal/model"
)

func newTestLimiter(t *testing.T, capacity int) (echo.MiddlewareFunc, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_user_route",
		Prefix:         "rl",
	}
	return NewTokenBucket(cfg, rdb), mr
}

// limitCall runs one request through the limiter. A non-nil user mimics the
// route guard having attached the identity before the limiter runs, which
// is the registration order on guarded routes.
func limitCall(t *testing.T, mw echo.MiddlewareFunc, u *model.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if u != nil {
		c.Set("user", *u)
	}
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec
}

func bucketKeys(mr *miniredis.Miniredis) string {
	return strings.Join(mr.Keys(), "\n")
}

func TestTokenBucketKeysAuthenticatedTrafficByAccount(t *testing.T) {
	mw, mr := newTestLimiter(t, 10)

	rec := limitCall(t, mw, &model.User{ID: 7})
	require.Equal(t, http.StatusOK, rec.Code)

	keys := bucketKeys(mr)
	assert.Contains(t, keys, "user:7")
	assert.NotContains(t, keys, "user:anon")
}

func TestTokenBucketAnonymousSharesOneBucket(t *testing.T) {
	mw, mr := newTestLimiter(t, 10)

	rec := limitCall(t, mw, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, bucketKeys(mr), "user:anon")
}

func TestTokenBucketSeparatesAccountsFromAnon(t *testing.T) {
	// Exhausting the anonymous bucket must not throttle a logged-in user.
	mw, _ := newTestLimiter(t, 1)

	require.Equal(t, http.StatusOK, limitCall(t, mw, nil).Code)
	require.Equal(t, http.StatusTooManyRequests, limitCall(t, mw, nil).Code)
	assert.Equal(t, http.StatusOK, limitCall(t, mw, &model.User{ID: 7}).Code)
}

func TestTokenBucketExhaustion(t *testing.T) {
	mw, _ := newTestLimiter(t, 2)

	require.Equal(t, http.StatusOK, limitCall(t, mw, nil).Code)
	require.Equal(t, http.StatusOK, limitCall(t, mw, nil).Code)

	rec := limitCall(t, mw, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
