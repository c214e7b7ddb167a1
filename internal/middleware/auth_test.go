package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arashn/storefront/internal/model"
	"github.com/arashn/storefront/internal/repository"
	"github.com/arashn/storefront/internal/utils"
)

type fakeUserGetter struct {
	users map[uint64]model.User
}

func (f *fakeUserGetter) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

const testSecret = "guard-test-secret"

func runGuard(t *testing.T, mw echo.MiddlewareFunc, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	handler := mw(func(c echo.Context) error {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"id": u.ID})
	})
	require.NoError(t, handler(c))
	return rec
}

func TestProtectMissingCookie(t *testing.T) {
	mw := Protect(testSecret, "accessToken", &fakeUserGetter{})
	rec := runGuard(t, mw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access token missing")
}

func TestProtectMalformedToken(t *testing.T) {
	mw := Protect(testSecret, "accessToken", &fakeUserGetter{})
	rec := runGuard(t, mw, &http.Cookie{Name: "accessToken", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid access token")
}

func TestProtectWrongSecret(t *testing.T) {
	tok, err := utils.NewToken("some-other-secret", 1, time.Minute)
	require.NoError(t, err)
	mw := Protect(testSecret, "accessToken", &fakeUserGetter{})
	rec := runGuard(t, mw, &http.Cookie{Name: "accessToken", Value: tok.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectUnknownUser(t *testing.T) {
	tok, err := utils.NewToken(testSecret, 42, time.Minute)
	require.NoError(t, err)
	mw := Protect(testSecret, "accessToken", &fakeUserGetter{users: map[uint64]model.User{}})
	rec := runGuard(t, mw, &http.Cookie{Name: "accessToken", Value: tok.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestProtectAttachesIdentity(t *testing.T) {
	users := &fakeUserGetter{users: map[uint64]model.User{
		7: {ID: 7, Email: "alice@x.com", Role: model.RoleCustomer},
	}}
	tok, err := utils.NewToken(testSecret, 7, time.Minute)
	require.NoError(t, err)
	mw := Protect(testSecret, "accessToken", users)
	rec := runGuard(t, mw, &http.Cookie{Name: "accessToken", Value: tok.Value})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":7`)
}

func adminCall(t *testing.T, identity any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if identity != nil {
		c.Set("user", identity)
	}
	handler := AdminOnly()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestAdminOnly(t *testing.T) {
	assert.Equal(t, http.StatusOK, adminCall(t, model.User{ID: 1, Role: model.RoleAdmin}).Code)
	assert.Equal(t, http.StatusForbidden, adminCall(t, model.User{ID: 2, Role: model.RoleCustomer}).Code)
	// Guard never ran: no identity on the context.
	assert.Equal(t, http.StatusForbidden, adminCall(t, nil).Code)
}
