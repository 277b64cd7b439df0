package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/web"
)

// --- Mock Service ---

type mockCartService struct {
	lines []models.Cart
	err   error
}

func (m *mockCartService) AddItem(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID, int) (*models.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &m.lines[0], nil
}

func (m *mockCartService) UpdateQuantity(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID, int) (*models.Cart, error) {
	return nil, m.err
}

func (m *mockCartService) RemoveItem(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID) error {
	return m.err
}

func (m *mockCartService) GetCart(context.Context, uuid.UUID) ([]models.Cart, error) {
	return m.lines, m.err
}

func (m *mockCartService) Clear(context.Context, uuid.UUID) error {
	return m.err
}

func (m *mockCartService) CalculateTotals(context.Context, uuid.UUID, string) (*Totals, error) {
	return nil, m.err
}

// --- Helpers ---

func cartLine(title string, price float64, quantity int) models.Cart {
	productUID := uuid.New()
	return models.Cart{
		UID:        uuid.New(),
		ProductUID: productUID,
		Quantity:   quantity,
		Product: models.Product{
			UID:      productUID,
			Title:    title,
			Price:    decimal.NewFromFloat(price),
			Stock:    10,
			IsActive: true,
		},
	}
}

func doCartRequest(t *testing.T, handler *Handler, method, url string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.Get("/cart", handler.HandleGet)

	req := httptest.NewRequest(method, url, nil)
	req = req.WithContext(web.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHandleGet(t *testing.T) {
	t.Run("returns the cart with its items", func(t *testing.T) {
		service := &mockCartService{lines: []models.Cart{
			cartLine("Canvas Tote", 10.00, 2),
			cartLine("Enamel Mug", 4.50, 1),
		}}
		rec := doCartRequest(t, NewHandler(service), "GET", "/cart")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp CartResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "Canvas Tote", resp.Items[0].Title)
		assert.Equal(t, 20.00, resp.Items[0].LineTotal)
		assert.Equal(t, 24.50, resp.Subtotal)
	})

	t.Run("empty cart", func(t *testing.T) {
		rec := doCartRequest(t, NewHandler(&mockCartService{}), "GET", "/cart")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp CartResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Items)
		assert.Equal(t, 0.0, resp.Subtotal)
	})
}

func TestNewCartResponseSubtotal(t *testing.T) {
	// Summing 0.10 three times in binary floating point yields
	// 0.30000000000000004; the subtotal must be carried in decimal and
	// converted exactly once.
	lines := []models.Cart{
		cartLine("Sticker", 0.10, 1),
		cartLine("Postcard", 0.10, 1),
		cartLine("Pin", 0.10, 1),
	}

	response := newCartResponse(lines)

	assert.Equal(t, 0.3, response.Subtotal)

	payload, err := json.Marshal(response)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"subtotal":0.3`)
}
