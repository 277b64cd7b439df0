package wishlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/web"
)

// --- Mocks ---

type mockWishlistStore struct {
	items map[string]*models.WishlistItem

	created *models.WishlistItem
	removed bool
}

func itemKey(userID, productUID uuid.UUID) string {
	return userID.String() + "/" + productUID.String()
}

func newMockWishlist(items ...*models.WishlistItem) *mockWishlistStore {
	m := &mockWishlistStore{items: map[string]*models.WishlistItem{}}
	for _, item := range items {
		m.items[itemKey(item.UserID, item.ProductUID)] = item
	}
	return m
}

func (m *mockWishlistStore) ListForUser(_ context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var result []models.WishlistItem
	for _, item := range m.items {
		if item.UserID == userID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (m *mockWishlistStore) Get(_ context.Context, userID, productUID uuid.UUID) (*models.WishlistItem, error) {
	if item, ok := m.items[itemKey(userID, productUID)]; ok {
		return item, nil
	}
	return nil, models.ErrWishlistItemNotFound
}

func (m *mockWishlistStore) Create(_ context.Context, item *models.WishlistItem) error {
	m.created = item
	m.items[itemKey(item.UserID, item.ProductUID)] = item
	return nil
}

func (m *mockWishlistStore) Remove(_ context.Context, userID, productUID uuid.UUID) error {
	key := itemKey(userID, productUID)
	if _, ok := m.items[key]; !ok {
		return models.ErrWishlistItemNotFound
	}
	m.removed = true
	delete(m.items, key)
	return nil
}

type mockProducts struct {
	products map[uuid.UUID]*models.Product
}

func (m *mockProducts) GetByUID(_ context.Context, uid uuid.UUID) (*models.Product, error) {
	if p, ok := m.products[uid]; ok {
		return p, nil
	}
	return nil, models.ErrProductNotFound
}

// --- Helpers ---

func wishlistRouter(handler *Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/wishlist", handler.HandleList)
	router.Post("/wishlist", handler.HandleAdd)
	router.Get("/wishlist/{product_uid}", handler.HandleCheck)
	router.Delete("/wishlist/{product_uid}", handler.HandleRemove)
	return router
}

func doRequest(t *testing.T, router http.Handler, userID uuid.UUID, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req = req.WithContext(web.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func catalogWith(products ...*models.Product) *mockProducts {
	m := &mockProducts{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		m.products[p.UID] = p
	}
	return m
}

func toteBag() *models.Product {
	return &models.Product{
		UID:      uuid.New(),
		Title:    "Canvas Tote",
		Price:    decimal.NewFromFloat(10.50),
		Stock:    25,
		IsActive: true,
	}
}

// --- Tests ---

func TestHandleAdd(t *testing.T) {
	userID := uuid.New()

	t.Run("adds a product", func(t *testing.T) {
		product := toteBag()
		store := newMockWishlist()
		handler := NewHandler(store, catalogWith(product))

		rec := doRequest(t, wishlistRouter(handler), userID, "POST", "/wishlist",
			`{"product_uid": "`+product.UID.String()+`"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp ItemResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Canvas Tote", resp.Title)
		assert.True(t, resp.InStock)
		require.NotNil(t, store.created)
		assert.Equal(t, userID, store.created.UserID)
	})

	t.Run("adding an already-wishlisted product returns the existing entry", func(t *testing.T) {
		product := toteBag()
		existing := &models.WishlistItem{
			UID:        uuid.New(),
			UserID:     userID,
			ProductUID: product.UID,
			AddedAt:    time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		}
		store := newMockWishlist(existing)
		handler := NewHandler(store, catalogWith(product))

		rec := doRequest(t, wishlistRouter(handler), userID, "POST", "/wishlist",
			`{"product_uid": "`+product.UID.String()+`"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp ItemResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, existing.UID.String(), resp.UID)
		assert.Nil(t, store.created, "No duplicate entry may be written")
	})

	t.Run("unknown product", func(t *testing.T) {
		store := newMockWishlist()
		handler := NewHandler(store, catalogWith())

		rec := doRequest(t, wishlistRouter(handler), userID, "POST", "/wishlist",
			`{"product_uid": "`+uuid.NewString()+`"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Nil(t, store.created)
	})

	t.Run("malformed product uid", func(t *testing.T) {
		handler := NewHandler(newMockWishlist(), catalogWith())
		rec := doRequest(t, wishlistRouter(handler), userID, "POST", "/wishlist",
			`{"product_uid": "not-a-uuid"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleRemove(t *testing.T) {
	userID := uuid.New()
	product := toteBag()

	t.Run("removes a wishlisted product", func(t *testing.T) {
		store := newMockWishlist(&models.WishlistItem{
			UID:        uuid.New(),
			UserID:     userID,
			ProductUID: product.UID,
			Product:    *product,
		})
		handler := NewHandler(store, catalogWith(product))

		rec := doRequest(t, wishlistRouter(handler), userID, "DELETE",
			"/wishlist/"+product.UID.String(), "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, store.removed)
	})

	t.Run("removing a product that is not wishlisted", func(t *testing.T) {
		store := newMockWishlist()
		handler := NewHandler(store, catalogWith(product))

		rec := doRequest(t, wishlistRouter(handler), userID, "DELETE",
			"/wishlist/"+product.UID.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleList(t *testing.T) {
	userID := uuid.New()
	product := toteBag()
	handler := NewHandler(newMockWishlist(&models.WishlistItem{
		UID:        uuid.New(),
		UserID:     userID,
		ProductUID: product.UID,
		Product:    *product,
		AddedAt:    time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}), catalogWith(product))

	rec := doRequest(t, wishlistRouter(handler), userID, "GET", "/wishlist", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, product.UID.String(), resp[0].ProductUID)
	assert.Equal(t, 10.50, resp[0].Price)

	t.Run("another user's wishlist is empty", func(t *testing.T) {
		rec := doRequest(t, wishlistRouter(handler), uuid.New(), "GET", "/wishlist", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestHandleCheck(t *testing.T) {
	userID := uuid.New()
	product := toteBag()
	handler := NewHandler(newMockWishlist(&models.WishlistItem{
		UID:        uuid.New(),
		UserID:     userID,
		ProductUID: product.UID,
		Product:    *product,
	}), catalogWith(product))

	t.Run("wishlisted", func(t *testing.T) {
		rec := doRequest(t, wishlistRouter(handler), userID, "GET",
			"/wishlist/"+product.UID.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"in_wishlist": true}`, rec.Body.String())
	})

	t.Run("not wishlisted", func(t *testing.T) {
		rec := doRequest(t, wishlistRouter(handler), userID, "GET",
			"/wishlist/"+uuid.NewString(), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"in_wishlist": false}`, rec.Body.String())
	})
}
