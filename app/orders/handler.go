package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopcore/backoffice/app/checkout"
	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/web"
)

// OrderResponse is the admin view of an order: the customer-facing
// representation plus the owning user.
type OrderResponse struct {
	checkout.OrderResponse
	UserID string `json:"user_id"`
}

type PaginatedResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderProvider interface {
	UpdateStatus(ctx context.Context, uid string, status models.OrderStatus) (*models.Order, error)
	GetOrder(ctx context.Context, uid string) (*models.Order, error)
	ListOrders(ctx context.Context, page, perPage int) ([]models.Order, int64, error)
}

type Handler struct {
	service OrderProvider
}

func NewHandler(service OrderProvider) *Handler {
	return &Handler{service: service}
}

func newOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		OrderResponse: checkout.NewOrderResponse(o),
		UserID:        o.UserID.String(),
	}
}

// HandleList handles GET /admin/orders with page/per_page pagination.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := 1
	perPage := 10
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil {
		if v < 1 {
			perPage = 1
		} else if v > 100 {
			perPage = 100
		} else {
			perPage = v
		}
	}

	orders, total, err := h.service.ListOrders(r.Context(), page, perPage)
	if err != nil {
		web.WriteServerError(w)
		return
	}

	response := PaginatedResponse{
		Orders:     make([]OrderResponse, len(orders)),
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: int((total + int64(perPage) - 1) / int64(perPage)),
	}
	for i := range orders {
		response.Orders[i] = newOrderResponse(&orders[i])
	}
	web.WriteJSON(w, http.StatusOK, response)
}

// HandleGet handles GET /admin/orders/{uid}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

// HandleUpdateStatus handles PATCH /admin/orders/{uid}.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "uid"), models.OrderStatus(req.Status))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

func writeOrderError(w http.ResponseWriter, err error) {
	var stockErr *models.InsufficientStockError

	switch {
	case errors.Is(err, models.ErrOrderNotFound):
		web.WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, models.ErrInvalidTransition):
		web.WriteError(w, http.StatusBadRequest, "invalid_transition", err.Error())
	case errors.Is(err, models.ErrTransitionConflict):
		web.WriteError(w, http.StatusConflict, "transition_conflict", err.Error())
	case errors.As(err, &stockErr):
		web.WriteError(w, http.StatusConflict, "insufficient_stock", err.Error())
	default:
		web.WriteServerError(w)
	}
}
