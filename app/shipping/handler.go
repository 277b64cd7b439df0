// Package shipping exposes shipping-rate lookup for storefront clients and
// the admin rate management surface.
package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/web"
)

type RateResponse struct {
	UID     string  `json:"uid"`
	Country string  `json:"country"`
	City    string  `json:"city"`
	Price   float64 `json:"price"`
}

type CreateRateRequest struct {
	Country string  `json:"country"`
	City    string  `json:"city"`
	Price   float64 `json:"price"`
}

type RateProvider interface {
	FindRate(ctx context.Context, country, city string) (*models.ShippingRate, error)
	List(ctx context.Context) ([]models.ShippingRate, error)
	Create(ctx context.Context, rate *models.ShippingRate) error
}

type RateHandler struct {
	repo RateProvider
}

func NewRateHandler(r RateProvider) *RateHandler {
	return &RateHandler{repo: r}
}

func newRateResponse(rate *models.ShippingRate) RateResponse {
	return RateResponse{
		UID:     rate.UID.String(),
		Country: rate.Country,
		City:    rate.City,
		Price:   rate.Price.InexactFloat64(),
	}
}

// HandleLookup handles GET /shipping-rates?country=&city=. It answers the
// storefront question "can we ship there, and for how much" before checkout.
func (h *RateHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	city := r.URL.Query().Get("city")
	if country == "" || city == "" {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "country and city are required")
		return
	}

	rate, err := h.repo.FindRate(r.Context(), country, city)
	if err != nil {
		if errors.Is(err, models.ErrNoShippingAvailable) {
			web.WriteError(w, http.StatusNotFound, "no_shipping_available", "sorry, we don't ship to that address")
			return
		}
		web.WriteServerError(w)
		return
	}
	web.WriteJSON(w, http.StatusOK, newRateResponse(rate))
}

// HandleGetAll handles GET /admin/shipping-rates.
func (h *RateHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	rates, err := h.repo.List(r.Context())
	if err != nil {
		web.WriteServerError(w)
		return
	}

	response := make([]RateResponse, len(rates))
	for i := range rates {
		response[i] = newRateResponse(&rates[i])
	}
	web.WriteJSON(w, http.StatusOK, response)
}

// HandleCreate handles POST /admin/shipping-rates.
func (h *RateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if input.Country == "" || input.City == "" {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "country and city are required")
		return
	}
	if input.Price < 0 {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "price must not be negative")
		return
	}

	rate := &models.ShippingRate{
		UID:     uuid.New(),
		Country: input.Country,
		City:    input.City,
		Price:   decimal.NewFromFloat(input.Price),
	}
	if err := h.repo.Create(r.Context(), rate); err != nil {
		web.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to create shipping rate")
		return
	}
	web.WriteJSON(w, http.StatusCreated, newRateResponse(rate))
}
