// Package discounts exposes the admin surface for coupon codes.
package discounts

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/web"
)

type DiscountResponse struct {
	UID                string     `json:"uid"`
	Code               string     `json:"code"`
	DiscountType       string     `json:"discount_type"`
	Value              float64    `json:"value"`
	MinimumOrderAmount *float64   `json:"minimum_order_amount,omitempty"`
	IsActive           bool       `json:"is_active"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	UsageLimit         *int       `json:"usage_limit,omitempty"`
	UsedCount          int        `json:"used_count"`
	CreatedAt          time.Time  `json:"created_at"`
}

type CreateDiscountRequest struct {
	Code               string     `json:"code"`
	DiscountType       string     `json:"discount_type"`
	Value              float64    `json:"value"`
	MinimumOrderAmount *float64   `json:"minimum_order_amount,omitempty"`
	IsActive           *bool      `json:"is_active,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	UsageLimit         *int       `json:"usage_limit,omitempty"`
}

type DiscountProvider interface {
	List(ctx context.Context) ([]models.Discount, error)
	Create(ctx context.Context, discount *models.Discount) error
}

type DiscountHandler struct {
	repo DiscountProvider
}

func NewDiscountHandler(r DiscountProvider) *DiscountHandler {
	return &DiscountHandler{repo: r}
}

func newDiscountResponse(d *models.Discount) DiscountResponse {
	var minimum *float64
	if d.MinimumOrderAmount.Valid {
		v := d.MinimumOrderAmount.Decimal.InexactFloat64()
		minimum = &v
	}
	return DiscountResponse{
		UID:                d.UID.String(),
		Code:               d.Code,
		DiscountType:       d.DiscountType,
		Value:              d.Value.InexactFloat64(),
		MinimumOrderAmount: minimum,
		IsActive:           d.IsActive,
		ExpiresAt:          d.ExpiresAt,
		UsageLimit:         d.UsageLimit,
		UsedCount:          d.UsedCount,
		CreatedAt:          d.CreatedAt,
	}
}

// HandleGetAll handles GET /admin/discounts.
func (h *DiscountHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.repo.List(r.Context())
	if err != nil {
		web.WriteServerError(w)
		return
	}

	response := make([]DiscountResponse, len(discounts))
	for i := range discounts {
		response[i] = newDiscountResponse(&discounts[i])
	}
	web.WriteJSON(w, http.StatusOK, response)
}

// HandleCreate handles POST /admin/discounts. Percent values must lie in
// (0, 100]; amount values just have to be positive.
func (h *DiscountHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}

	if input.Code == "" {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "code is required")
		return
	}
	if input.DiscountType != models.DiscountTypePercent && input.DiscountType != models.DiscountTypeAmount {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "discount_type must be percent or amount")
		return
	}
	if input.Value <= 0 || (input.DiscountType == models.DiscountTypePercent && input.Value > 100) {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "value is out of range for the discount type")
		return
	}
	if input.UsageLimit != nil && *input.UsageLimit < 1 {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "usage_limit must be at least 1")
		return
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	var minimum decimal.NullDecimal
	if input.MinimumOrderAmount != nil {
		minimum = decimal.NewNullDecimal(decimal.NewFromFloat(*input.MinimumOrderAmount))
	}

	discount := &models.Discount{
		UID:                uuid.New(),
		Code:               input.Code,
		DiscountType:       input.DiscountType,
		Value:              decimal.NewFromFloat(input.Value),
		MinimumOrderAmount: minimum,
		IsActive:           active,
		ExpiresAt:          input.ExpiresAt,
		UsageLimit:         input.UsageLimit,
	}

	if err := h.repo.Create(r.Context(), discount); err != nil {
		web.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to create discount")
		return
	}

	web.WriteJSON(w, http.StatusCreated, newDiscountResponse(discount))
}
