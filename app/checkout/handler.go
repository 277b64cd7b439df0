package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/web"
)

// --- Request / Response DTOs ---

type ShippingAddressPayload struct {
	FullName        string `json:"full_name"`
	PhoneNumber     string `json:"phone_number"`
	Country         string `json:"country"`
	City            string `json:"city"`
	Area            string `json:"area,omitempty"`
	Street          string `json:"street,omitempty"`
	BuildingNumber  string `json:"building_number,omitempty"`
	ApartmentNumber string `json:"apartment_number,omitempty"`
	ZipCode         string `json:"zip_code,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type CheckoutRequest struct {
	ShippingAddress ShippingAddressPayload `json:"shipping_address"`
	CouponCode      string                 `json:"coupon_code,omitempty"`
}

type ProductSummary struct {
	UID          string `json:"uid"`
	Title        string `json:"title"`
	MainImageURL string `json:"main_image_url,omitempty"`
}

type OrderItemResponse struct {
	UID             string         `json:"uid"`
	ProductUID      string         `json:"product_uid"`
	VariantChoiceID string         `json:"variant_choice_id,omitempty"`
	Variant         string         `json:"variant,omitempty"`
	Quantity        int            `json:"quantity"`
	PriceAtPurchase float64        `json:"price_at_purchase"`
	TotalPrice      float64        `json:"total_price"`
	Product         ProductSummary `json:"product"`
}

type OrderResponse struct {
	UID             string                 `json:"uid"`
	Status          string                 `json:"status"`
	TotalPrice      float64                `json:"total_price"`
	Discount        float64                `json:"discount"`
	ShippingPrice   float64                `json:"shipping_price"`
	FinalPrice      float64                `json:"final_price"`
	CouponCode      string                 `json:"coupon_code,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	ShippingAddress ShippingAddressPayload `json:"shipping_address"`
	Items           []OrderItemResponse    `json:"items"`
}

// NewOrderResponse maps a hydrated order onto the wire shape. Money leaves
// the decimal domain only here.
func NewOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		variantID, variant := "", ""
		if item.VariantChoiceID != nil {
			variantID = item.VariantChoiceID.String()
		}
		if item.VariantChoice != nil {
			variant = item.VariantChoice.Value
		}
		items[i] = OrderItemResponse{
			UID:             item.UID.String(),
			ProductUID:      item.ProductUID.String(),
			VariantChoiceID: variantID,
			Variant:         variant,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase.InexactFloat64(),
			TotalPrice:      item.TotalPrice.InexactFloat64(),
			Product: ProductSummary{
				UID:          item.ProductUID.String(),
				Title:        item.Product.Title,
				MainImageURL: item.Product.MainImage(),
			},
		}
	}
	addr := o.ShippingAddress
	return OrderResponse{
		UID:           o.UID,
		Status:        string(o.Status),
		TotalPrice:    o.TotalPrice.InexactFloat64(),
		Discount:      o.Discount.InexactFloat64(),
		ShippingPrice: o.ShippingPrice.InexactFloat64(),
		FinalPrice:    o.FinalPrice.InexactFloat64(),
		CouponCode:    o.CouponCode,
		CreatedAt:     o.CreatedAt,
		ShippingAddress: ShippingAddressPayload{
			FullName:        addr.FullName,
			PhoneNumber:     addr.PhoneNumber,
			Country:         addr.Country,
			City:            addr.City,
			Area:            addr.Area,
			Street:          addr.Street,
			BuildingNumber:  addr.BuildingNumber,
			ApartmentNumber: addr.ApartmentNumber,
			ZipCode:         addr.ZipCode,
			Notes:           addr.Notes,
		},
		Items: items,
	}
}

// --- Handler ---

type CheckoutProvider interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input ShippingInput, couponCode string) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	GetOrder(ctx context.Context, userID uuid.UUID, uid string) (*models.Order, error)
	CancelOrder(ctx context.Context, userID uuid.UUID, uid string) (*models.Order, error)
}

type Handler struct {
	service CheckoutProvider
}

func NewHandler(service CheckoutProvider) *Handler {
	return &Handler{service: service}
}

// HandleCreate handles POST /checkouts.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	addr := req.ShippingAddress
	if addr.FullName == "" || addr.PhoneNumber == "" || addr.Country == "" || addr.City == "" {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "full_name, phone_number, country and city are required")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), web.UserID(r.Context()), ShippingInput{
		FullName:        addr.FullName,
		PhoneNumber:     addr.PhoneNumber,
		Country:         addr.Country,
		City:            addr.City,
		Area:            addr.Area,
		Street:          addr.Street,
		BuildingNumber:  addr.BuildingNumber,
		ApartmentNumber: addr.ApartmentNumber,
		ZipCode:         addr.ZipCode,
		Notes:           addr.Notes,
	}, req.CouponCode)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, NewOrderResponse(order))
}

// HandleList handles GET /checkouts.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), web.UserID(r.Context()))
	if err != nil {
		web.WriteServerError(w)
		return
	}
	response := make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = NewOrderResponse(&orders[i])
	}
	web.WriteJSON(w, http.StatusOK, response)
}

// HandleGet handles GET /checkouts/{uid}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), web.UserID(r.Context()), chi.URLParam(r, "uid"))
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, NewOrderResponse(order))
}

// HandleCancel handles DELETE /checkouts/{uid}.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.CancelOrder(r.Context(), web.UserID(r.Context()), chi.URLParam(r, "uid"))
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, NewOrderResponse(order))
}

// writeCheckoutError translates business errors into structured client
// responses; anything unknown is an infrastructure failure.
func writeCheckoutError(w http.ResponseWriter, err error) {
	var stockErr *models.InsufficientStockError
	var dupErr *models.DuplicateCartEntryError

	switch {
	case errors.Is(err, models.ErrEmptyCart):
		web.WriteError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.As(err, &dupErr):
		web.WriteError(w, http.StatusBadRequest, "duplicate_cart_entry", err.Error())
	case errors.As(err, &stockErr):
		web.WriteError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, models.ErrTransitionConflict):
		web.WriteError(w, http.StatusConflict, "transition_conflict", err.Error())
	case errors.Is(err, models.ErrNoShippingAvailable):
		web.WriteError(w, http.StatusBadRequest, "no_shipping_available", "sorry, we don't ship to that address")
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
	case errors.Is(err, models.ErrOrderNotFound):
		web.WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, models.ErrCancellationWindowExpired):
		web.WriteError(w, http.StatusBadRequest, "cancellation_window_expired", err.Error())
	default:
		web.WriteServerError(w)
	}
}
