// Package wishlist lets customers bookmark products for later.
package wishlist

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

type AddItemRequest struct {
	ProductUID string `json:"product_uid"`
}

// ItemResponse pairs the wishlist entry with a storefront summary of the
// product it bookmarks.
type ItemResponse struct {
	UID          string    `json:"uid"`
	ProductUID   string    `json:"product_uid"`
	Title        string    `json:"title"`
	Price        float64   `json:"price"`
	MainImageURL string    `json:"main_image_url,omitempty"`
	InStock      bool      `json:"in_stock"`
	IsActive     bool      `json:"is_active"`
	AddedAt      time.Time `json:"added_at"`
}

type CheckResponse struct {
	InWishlist bool `json:"in_wishlist"`
}

func newItemResponse(item *models.WishlistItem) ItemResponse {
	return ItemResponse{
		UID:          item.UID.String(),
		ProductUID:   item.ProductUID.String(),
		Title:        item.Product.Title,
		Price:        item.Product.Price.InexactFloat64(),
		MainImageURL: item.Product.MainImage(),
		InStock:      item.Product.AvailableStock() > 0,
		IsActive:     item.Product.IsActive,
		AddedAt:      item.AddedAt,
	}
}

// --- Handler ---

type WishlistStore interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	Get(ctx context.Context, userID, productUID uuid.UUID) (*models.WishlistItem, error)
	Create(ctx context.Context, item *models.WishlistItem) error
	Remove(ctx context.Context, userID, productUID uuid.UUID) error
}

type ProductGetter interface {
	GetByUID(ctx context.Context, uid uuid.UUID) (*models.Product, error)
}

type Handler struct {
	wishlist WishlistStore
	products ProductGetter
	now      func() time.Time
}

func NewHandler(wishlist WishlistStore, products ProductGetter) *Handler {
	return &Handler{wishlist: wishlist, products: products, now: time.Now}
}

// HandleList handles GET /wishlist.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlist.ListForUser(r.Context(), web.UserID(r.Context()))
	if err != nil {
		web.WriteServerError(w)
		return
	}
	response := make([]ItemResponse, len(items))
	for i := range items {
		response[i] = newItemResponse(&items[i])
	}
	web.WriteJSON(w, http.StatusOK, response)
}

// HandleAdd handles POST /wishlist. Adding a product that is already
// wishlisted returns the existing entry instead of erroring.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
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
	userID := web.UserID(r.Context())

	product, err := h.products.GetByUID(r.Context(), productUID)
	if err != nil {
		writeWishlistError(w, err)
		return
	}

	existing, err := h.wishlist.Get(r.Context(), userID, productUID)
	if err == nil {
		existing.Product = *product
		web.WriteJSON(w, http.StatusOK, newItemResponse(existing))
		return
	}
	if !errors.Is(err, models.ErrWishlistItemNotFound) {
		web.WriteServerError(w)
		return
	}

	item := &models.WishlistItem{
		UID:        uuid.New(),
		UserID:     userID,
		ProductUID: productUID,
		AddedAt:    h.now(),
		Product:    *product,
	}
	if err := h.wishlist.Create(r.Context(), item); err != nil {
		web.WriteServerError(w)
		return
	}
	web.WriteJSON(w, http.StatusCreated, newItemResponse(item))
}

// HandleRemove handles DELETE /wishlist/{product_uid}.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	productUID, err := uuid.Parse(chi.URLParam(r, "product_uid"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "wishlist_item_not_found", "product is not in the wishlist")
		return
	}
	if err := h.wishlist.Remove(r.Context(), web.UserID(r.Context()), productUID); err != nil {
		writeWishlistError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCheck handles GET /wishlist/{product_uid}.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	productUID, err := uuid.Parse(chi.URLParam(r, "product_uid"))
	if err != nil {
		web.WriteJSON(w, http.StatusOK, CheckResponse{InWishlist: false})
		return
	}
	_, err = h.wishlist.Get(r.Context(), web.UserID(r.Context()), productUID)
	switch {
	case err == nil:
		web.WriteJSON(w, http.StatusOK, CheckResponse{InWishlist: true})
	case errors.Is(err, models.ErrWishlistItemNotFound):
		web.WriteJSON(w, http.StatusOK, CheckResponse{InWishlist: false})
	default:
		web.WriteServerError(w)
	}
}

func writeWishlistError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		web.WriteError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, models.ErrWishlistItemNotFound):
		web.WriteError(w, http.StatusNotFound, "wishlist_item_not_found", err.Error())
	default:
		web.WriteServerError(w)
	}
}
