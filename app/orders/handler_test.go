package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/web"
)

// --- Mock Service ---

type mockOrderService struct {
	order     *models.Order
	orders    []models.Order
	total     int64
	updateErr error
	getErr    error

	lastPage    int
	lastPerPage int
	lastUID     string
	lastStatus  models.OrderStatus
}

func (m *mockOrderService) UpdateStatus(_ context.Context, uid string, status models.OrderStatus) (*models.Order, error) {
	m.lastUID = uid
	m.lastStatus = status
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.order, nil
}

func (m *mockOrderService) GetOrder(_ context.Context, uid string) (*models.Order, error) {
	m.lastUID = uid
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.order, nil
}

func (m *mockOrderService) ListOrders(_ context.Context, page, perPage int) ([]models.Order, int64, error) {
	m.lastPage = page
	m.lastPerPage = perPage
	return m.orders, m.total, nil
}

// --- Helpers ---

func adminOrder() *models.Order {
	return &models.Order{
		UID:        "ORD-3F9D1A",
		UserID:     uuid.New(),
		Status:     models.OrderStatusProcessing,
		TotalPrice: decimal.NewFromFloat(20.00),
		FinalPrice: decimal.NewFromFloat(25.00),
	}
}

func adminRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/admin/orders", h.HandleList)
	r.Get("/admin/orders/{uid}", h.HandleGet)
	r.Patch("/admin/orders/{uid}", h.HandleUpdateStatus)
	return r
}

// --- Tests ---

func TestHandleList(t *testing.T) {
	testCases := []struct {
		name            string
		url             string
		expectedPage    int
		expectedPerPage int
	}{
		{name: "Defaults", url: "/admin/orders", expectedPage: 1, expectedPerPage: 10},
		{name: "Explicit paging", url: "/admin/orders?page=3&per_page=25", expectedPage: 3, expectedPerPage: 25},
		{name: "Per page clamped high", url: "/admin/orders?per_page=500", expectedPage: 1, expectedPerPage: 100},
		{name: "Per page clamped low", url: "/admin/orders?per_page=0", expectedPage: 1, expectedPerPage: 1},
		{name: "Invalid page ignored", url: "/admin/orders?page=-2", expectedPage: 1, expectedPerPage: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockOrderService{orders: []models.Order{*adminOrder()}, total: 42}
			handler := NewHandler(svc)

			req := httptest.NewRequest("GET", tc.url, nil)
			rec := httptest.NewRecorder()
			adminRouter(handler).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.expectedPage, svc.lastPage)
			assert.Equal(t, tc.expectedPerPage, svc.lastPerPage)

			var resp PaginatedResponse
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, int64(42), resp.Total)
			assert.Len(t, resp.Orders, 1)
			assert.NotEmpty(t, resp.Orders[0].UserID, "Admin listing exposes the owning user")
		})
	}
}

func TestHandleUpdateStatus(t *testing.T) {
	testCases := []struct {
		name               string
		body               string
		serviceSetup       func() *mockOrderService
		expectedStatusCode int
		expectedErrorKind  string
	}{
		{
			name: "Success",
			body: `{"status":"shipped"}`,
			serviceSetup: func() *mockOrderService {
				o := adminOrder()
				o.Status = models.OrderStatusShipped
				return &mockOrderService{order: o}
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name: "Invalid JSON",
			body: `{broken`,
			serviceSetup: func() *mockOrderService {
				return &mockOrderService{}
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedErrorKind:  "invalid_body",
		},
		{
			name: "Invalid transition",
			body: `{"status":"pending"}`,
			serviceSetup: func() *mockOrderService {
				return &mockOrderService{updateErr: models.ErrInvalidTransition}
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedErrorKind:  "invalid_transition",
		},
		{
			name: "Unknown order",
			body: `{"status":"shipped"}`,
			serviceSetup: func() *mockOrderService {
				return &mockOrderService{updateErr: models.ErrOrderNotFound}
			},
			expectedStatusCode: http.StatusNotFound,
			expectedErrorKind:  "order_not_found",
		},
		{
			name: "Concurrent transition",
			body: `{"status":"canceled"}`,
			serviceSetup: func() *mockOrderService {
				return &mockOrderService{updateErr: models.ErrTransitionConflict}
			},
			expectedStatusCode: http.StatusConflict,
			expectedErrorKind:  "transition_conflict",
		},
		{
			name: "Stock conflict on reinstate",
			body: `{"status":"processing"}`,
			serviceSetup: func() *mockOrderService {
				return &mockOrderService{updateErr: &models.InsufficientStockError{Item: "Canvas Tote"}}
			},
			expectedStatusCode: http.StatusConflict,
			expectedErrorKind:  "insufficient_stock",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := tc.serviceSetup()
			handler := NewHandler(svc)

			req := httptest.NewRequest("PATCH", "/admin/orders/ORD-3F9D1A", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			adminRouter(handler).ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedErrorKind != "" {
				var errResp web.ErrorResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Equal(t, tc.expectedErrorKind, errResp.Error)
			}
		})
	}
}

func TestHandleGet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &mockOrderService{order: adminOrder()}
		handler := NewHandler(svc)

		req := httptest.NewRequest("GET", "/admin/orders/ORD-3F9D1A", nil)
		rec := httptest.NewRecorder()
		adminRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ORD-3F9D1A", svc.lastUID)
	})

	t.Run("Not found", func(t *testing.T) {
		svc := &mockOrderService{getErr: models.ErrOrderNotFound}
		handler := NewHandler(svc)

		req := httptest.NewRequest("GET", "/admin/orders/ORD-FFFFFF", nil)
		rec := httptest.NewRecorder()
		adminRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
