package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arashn/storefront/internal/model"
	"github.com/arashn/storefront/internal/repository"
)

// fakeCartStore keeps per-user quantities and joins against a product map,
// mirroring the cart_items/products join of the real repository.
type fakeCartStore struct {
	catalog map[uint64]model.Product
	carts   map[uint64]map[uint64]int
}

func newFakeCartStore(products ...model.Product) *fakeCartStore {
	f := &fakeCartStore{
		catalog: make(map[uint64]model.Product),
		carts:   make(map[uint64]map[uint64]int),
	}
	for _, p := range products {
		f.catalog[p.ID] = p
	}
	return f
}

func (f *fakeCartStore) Items(_ context.Context, userID uint64) ([]repository.CartLine, error) {
	out := []repository.CartLine{}
	for pid, qty := range f.carts[userID] {
		out = append(out, repository.CartLine{Product: f.catalog[pid], Quantity: qty})
	}
	return out, nil
}

func (f *fakeCartStore) Add(_ context.Context, userID, productID uint64) error {
	if f.carts[userID] == nil {
		f.carts[userID] = make(map[uint64]int)
	}
	f.carts[userID][productID]++
	return nil
}

func (f *fakeCartStore) SetQuantity(_ context.Context, userID, productID uint64, quantity int) error {
	if quantity <= 0 {
		return f.Remove(context.Background(), userID, productID)
	}
	if _, ok := f.carts[userID][productID]; !ok {
		return repository.ErrNotFound
	}
	f.carts[userID][productID] = quantity
	return nil
}

func (f *fakeCartStore) Remove(_ context.Context, userID, productID uint64) error {
	delete(f.carts[userID], productID)
	return nil
}

func (f *fakeCartStore) Clear(_ context.Context, userID uint64) error {
	delete(f.carts, userID)
	return nil
}

func (f *fakeCartStore) GetByID(_ context.Context, id uint64) (model.Product, error) {
	p, ok := f.catalog[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func cartCall(t *testing.T, fn echo.HandlerFunc, method, body, param string, u model.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if param != "" {
		c.SetParamNames("id")
		c.SetParamValues(param)
	}
	c.Set("user", u)
	require.NoError(t, fn(c))
	return rec
}

func TestCartGetTotals(t *testing.T) {
	alice := model.User{ID: 1}
	store := newFakeCartStore(
		model.Product{ID: 10, Name: "Mug", PriceCents: 1500},
		model.Product{ID: 11, Name: "Shirt", PriceCents: 2500},
	)
	store.carts[1] = map[uint64]int{10: 2, 11: 1}
	h := NewCartHandler(store, store)

	rec := cartCall(t, h.Get, http.MethodGet, "", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	// 2*1500 + 1*2500
	assert.Contains(t, rec.Body.String(), `"total_cents":5500`)
}

func TestCartAdd(t *testing.T) {
	alice := model.User{ID: 1}
	store := newFakeCartStore(model.Product{ID: 10, Name: "Mug", PriceCents: 1500})
	h := NewCartHandler(store, store)

	rec := cartCall(t, h.Add, http.MethodPost, `{"product_id":10}`, "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	// Adding the same product again increments instead of duplicating.
	rec = cartCall(t, h.Add, http.MethodPost, `{"product_id":10}`, "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, store.carts[1][10])
}

func TestCartAddUnknownProduct(t *testing.T) {
	alice := model.User{ID: 1}
	store := newFakeCartStore()
	h := NewCartHandler(store, store)

	rec := cartCall(t, h.Add, http.MethodPost, `{"product_id":99}`, "", alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestCartUpdateQuantity(t *testing.T) {
	alice := model.User{ID: 1}
	store := newFakeCartStore(model.Product{ID: 10, Name: "Mug", PriceCents: 1500})
	store.carts[1] = map[uint64]int{10: 1}
	h := NewCartHandler(store, store)

	rec := cartCall(t, h.Update, http.MethodPut, `{"quantity":5}`, "10", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, store.carts[1][10])

	// Quantity zero removes the line.
	rec = cartCall(t, h.Update, http.MethodPut, `{"quantity":0}`, "10", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	_, ok := store.carts[1][10]
	assert.False(t, ok)
}

func TestCartUpdateRejectsBadInput(t *testing.T) {
	alice := model.User{ID: 1}
	store := newFakeCartStore(model.Product{ID: 10, Name: "Mug", PriceCents: 1500})
	h := NewCartHandler(store, store)

	rec := cartCall(t, h.Update, http.MethodPut, `{"quantity":-1}`, "10", alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = cartCall(t, h.Update, http.MethodPut, `{"quantity":5}`, "not-a-number", alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Product exists but is not in the cart.
	rec = cartCall(t, h.Update, http.MethodPut, `{"quantity":5}`, "10", alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartRemoveAndClear(t *testing.T) {
	alice := model.User{ID: 1}
	store := newFakeCartStore(
		model.Product{ID: 10, Name: "Mug", PriceCents: 1500},
		model.Product{ID: 11, Name: "Shirt", PriceCents: 2500},
	)
	store.carts[1] = map[uint64]int{10: 1, 11: 2}
	h := NewCartHandler(store, store)

	rec := cartCall(t, h.Remove, http.MethodDelete, `{"product_id":10}`, "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, store.carts[1], 1)

	// Without a product id the whole cart is cleared.
	rec = cartCall(t, h.Remove, http.MethodDelete, "", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cart cleared")
	assert.Empty(t, store.carts[1])
}
