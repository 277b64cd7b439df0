package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/pricing"
	"github.com/shopcore/backoffice/web"
)

// --- Request / Response DTOs ---

type AddItemRequest struct {
	ProductUID      string `json:"product_uid"`
	VariantChoiceID string `json:"variant_choice_id,omitempty"`
	Quantity        int    `json:"quantity"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	UID             string  `json:"uid"`
	ProductUID      string  `json:"product_uid"`
	Title           string  `json:"title"`
	MainImageURL    string  `json:"main_image_url,omitempty"`
	VariantChoiceID string  `json:"variant_choice_id,omitempty"`
	Variant         string  `json:"variant,omitempty"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	LineTotal       float64 `json:"line_total"`
	AvailableStock  int     `json:"available_stock"`
}

type CartResponse struct {
	Items    []CartItemResponse `json:"items"`
	Subtotal float64            `json:"subtotal"`
}

type TotalsResponse struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

func newCartItemResponse(line *models.Cart) CartItemResponse {
	item, _ := cartItemWithTotal(line)
	return item
}

// cartItemWithTotal builds the line representation and also returns the exact
// decimal line total, so the subtotal can be summed without float drift.
func cartItemWithTotal(line *models.Cart) (CartItemResponse, decimal.Decimal) {
	unit := line.Product.Price
	variantID, variant := "", ""
	available := line.Product.Stock
	if line.VariantChoice != nil {
		unit = pricing.LinePrice(unit, line.VariantChoice.ExtraPrice)
		variantID = line.VariantChoice.ID.String()
		variant = line.VariantChoice.Value
		available = line.VariantChoice.Stock
	}
	unit = pricing.Round(unit)
	lineTotal := pricing.Round(pricing.LineTotal(unit, line.Quantity))
	return CartItemResponse{
		UID:             line.UID.String(),
		ProductUID:      line.ProductUID.String(),
		Title:           line.Product.Title,
		MainImageURL:    line.Product.MainImage(),
		VariantChoiceID: variantID,
		Variant:         variant,
		Quantity:        line.Quantity,
		UnitPrice:       unit.InexactFloat64(),
		LineTotal:       lineTotal.InexactFloat64(),
		AvailableStock:  available,
	}, lineTotal
}

func newCartResponse(lines []models.Cart) CartResponse {
	response := CartResponse{Items: make([]CartItemResponse, len(lines))}
	subtotal := decimal.Zero
	for i := range lines {
		item, lineTotal := cartItemWithTotal(&lines[i])
		response.Items[i] = item
		subtotal = subtotal.Add(lineTotal)
	}
	response.Subtotal = subtotal.InexactFloat64()
	return response
}

// --- Handler ---

type CartProvider interface {
	AddItem(ctx context.Context, userID, productUID uuid.UUID, variantChoiceID *uuid.UUID, quantity int) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID, productUID uuid.UUID, variantChoiceID *uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productUID uuid.UUID, variantChoiceID *uuid.UUID) error
	GetCart(ctx context.Context, userID uuid.UUID) ([]models.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	CalculateTotals(ctx context.Context, userID uuid.UUID, couponCode string) (*Totals, error)
}

type Handler struct {
	service CartProvider
}

func NewHandler(service CartProvider) *Handler {
	return &Handler{service: service}
}

// HandleGet handles GET /cart.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.GetCart(r.Context(), web.UserID(r.Context()))
	if err != nil {
		web.WriteServerError(w)
		return
	}
	web.WriteJSON(w, http.StatusOK, newCartResponse(lines))
}

// HandleAddItem handles POST /cart/items.
func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	productUID, err := uuid.Parse(req.ProductUID)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "product_uid must be a valid uuid")
		return
	}
	variantChoiceID, ok := parseOptionalUUID(req.VariantChoiceID)
	if !ok {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "variant_choice_id must be a valid uuid")
		return
	}

	line, err := h.service.AddItem(r.Context(), web.UserID(r.Context()), productUID, variantChoiceID, req.Quantity)
	if err != nil {
		writeCartError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, newCartItemResponse(line))
}

// HandleUpdateItem handles PATCH /cart/items/{product_uid}. A quantity of
// zero removes the line and returns 204.
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	productUID, variantChoiceID, ok := itemParams(w, r)
	if !ok {
		return
	}
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}

	line, err := h.service.UpdateQuantity(r.Context(), web.UserID(r.Context()), productUID, variantChoiceID, req.Quantity)
	if err != nil {
		writeCartError(w, err)
		return
	}
	if line == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	web.WriteJSON(w, http.StatusOK, newCartItemResponse(line))
}

// HandleRemoveItem handles DELETE /cart/items/{product_uid}.
func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	productUID, variantChoiceID, ok := itemParams(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveItem(r.Context(), web.UserID(r.Context()), productUID, variantChoiceID); err != nil {
		writeCartError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClear handles DELETE /cart.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), web.UserID(r.Context())); err != nil {
		web.WriteServerError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTotals handles GET /cart/totals with an optional coupon_code query
// parameter. It previews the exact amounts checkout would charge, minus
// shipping.
func (h *Handler) HandleTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.CalculateTotals(r.Context(), web.UserID(r.Context()), r.URL.Query().Get("coupon_code"))
	if err != nil {
		writeCartError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, TotalsResponse{
		Subtotal: totals.Subtotal.InexactFloat64(),
		Discount: totals.Discount.InexactFloat64(),
		Total:    totals.Total.InexactFloat64(),
	})
}

// itemParams extracts the product uid path parameter and the optional
// variant_choice_id query parameter that together identify one cart line.
func itemParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, *uuid.UUID, bool) {
	productUID, err := uuid.Parse(chi.URLParam(r, "product_uid"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "product_uid must be a valid uuid")
		return uuid.Nil, nil, false
	}
	variantChoiceID, ok := parseOptionalUUID(r.URL.Query().Get("variant_choice_id"))
	if !ok {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "variant_choice_id must be a valid uuid")
		return uuid.Nil, nil, false
	}
	return productUID, variantChoiceID, true
}

func parseOptionalUUID(s string) (*uuid.UUID, bool) {
	if s == "" {
		return nil, true
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func writeCartError(w http.ResponseWriter, err error) {
	var stockErr *models.InsufficientStockError

	switch {
	case errors.Is(err, models.ErrProductNotFound):
		web.WriteError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, models.ErrCartItemNotFound):
		web.WriteError(w, http.StatusNotFound, "cart_item_not_found", err.Error())
	case errors.Is(err, models.ErrVariantRequired):
		web.WriteError(w, http.StatusBadRequest, "variant_required", err.Error())
	case errors.Is(err, models.ErrVariantNotFound):
		web.WriteError(w, http.StatusNotFound, "variant_not_found", err.Error())
	case errors.Is(err, models.ErrNoVariants):
		web.WriteError(w, http.StatusBadRequest, "no_variants", err.Error())
	case errors.As(err, &stockErr):
		web.WriteError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, models.ErrDiscountNotFound):
		web.WriteError(w, http.StatusNotFound, "discount_not_found", err.Error())
	case errors.Is(err, models.ErrDiscountInactive):
		web.WriteError(w, http.StatusBadRequest, "discount_inactive", err.Error())
	case errors.Is(err, models.ErrDiscountExpired):
		web.WriteError(w, http.StatusBadRequest, "discount_expired", err.Error())
	case errors.Is(err, models.ErrDiscountUsageLimitReached):
		web.WriteError(w, http.StatusBadRequest, "discount_usage_limit_reached", err.Error())
	case errors.Is(err, models.ErrDiscountMinimumNotMet):
		web.WriteError(w, http.StatusBadRequest, "discount_minimum_not_met", err.Error())
	default:
		web.WriteServerError(w)
	}
}
