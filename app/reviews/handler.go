// Package reviews lets customers rate products and manage their own reviews.
package reviews

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

type CreateReviewRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// UpdateReviewRequest carries only the fields being changed; each present
// field is assigned explicitly.
type UpdateReviewRequest struct {
	Rating     *int    `json:"rating"`
	ReviewText *string `json:"review_text"`
}

type ReviewResponse struct {
	UID        string    `json:"uid"`
	UserID     string    `json:"user_id"`
	ProductUID string    `json:"product_uid"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func newReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		UID:        r.UID.String(),
		UserID:     r.UserID.String(),
		ProductUID: r.ProductUID.String(),
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// --- Handler ---

type ReviewStore interface {
	ListForProduct(ctx context.Context, productUID uuid.UUID) ([]models.Review, error)
	GetForUser(ctx context.Context, userID, uid uuid.UUID) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, review *models.Review) error
}

type ProductGetter interface {
	GetByUID(ctx context.Context, uid uuid.UUID) (*models.Product, error)
}

type Handler struct {
	reviews  ReviewStore
	products ProductGetter
}

func NewHandler(reviews ReviewStore, products ProductGetter) *Handler {
	return &Handler{reviews: reviews, products: products}
}

// HandleListForProduct handles GET /catalog/{uid}/reviews.
func (h *Handler) HandleListForProduct(w http.ResponseWriter, r *http.Request) {
	productUID, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	if _, err := h.products.GetByUID(r.Context(), productUID); err != nil {
		writeReviewError(w, err)
		return
	}

	reviews, err := h.reviews.ListForProduct(r.Context(), productUID)
	if err != nil {
		web.WriteServerError(w)
		return
	}
	response := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		response[i] = newReviewResponse(&reviews[i])
	}
	web.WriteJSON(w, http.StatusOK, response)
}

// HandleCreate handles POST /products/{product_uid}/reviews.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	productUID, err := uuid.Parse(chi.URLParam(r, "product_uid"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if !validRating(req.Rating) {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "rating must be between 1 and 5")
		return
	}
	if req.ReviewText == "" {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "review_text is required")
		return
	}
	if _, err := h.products.GetByUID(r.Context(), productUID); err != nil {
		writeReviewError(w, err)
		return
	}

	review := &models.Review{
		UID:        uuid.New(),
		UserID:     web.UserID(r.Context()),
		ProductUID: productUID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}
	if err := h.reviews.Create(r.Context(), review); err != nil {
		web.WriteServerError(w)
		return
	}
	web.WriteJSON(w, http.StatusCreated, newReviewResponse(review))
}

// HandleUpdate handles PATCH /reviews/{review_uid}. Only the author can
// change a review.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	review, ok := h.loadOwnReview(w, r)
	if !ok {
		return
	}
	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if req.Rating != nil && !validRating(*req.Rating) {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "rating must be between 1 and 5")
		return
	}
	if req.ReviewText != nil && *req.ReviewText == "" {
		web.WriteError(w, http.StatusBadRequest, "invalid_body", "review_text must not be empty")
		return
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.ReviewText != nil {
		review.ReviewText = *req.ReviewText
	}
	if err := h.reviews.Update(r.Context(), review); err != nil {
		web.WriteServerError(w)
		return
	}
	web.WriteJSON(w, http.StatusOK, newReviewResponse(review))
}

// HandleDelete handles DELETE /reviews/{review_uid}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	review, ok := h.loadOwnReview(w, r)
	if !ok {
		return
	}
	if err := h.reviews.Delete(r.Context(), review); err != nil {
		web.WriteServerError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadOwnReview(w http.ResponseWriter, r *http.Request) (*models.Review, bool) {
	uid, err := uuid.Parse(chi.URLParam(r, "review_uid"))
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "review_not_found", "review not found")
		return nil, false
	}
	review, err := h.reviews.GetForUser(r.Context(), web.UserID(r.Context()), uid)
	if err != nil {
		writeReviewError(w, err)
		return nil, false
	}
	return review, true
}

func writeReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		web.WriteError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, models.ErrReviewNotFound):
		web.WriteError(w, http.StatusNotFound, "review_not_found", err.Error())
	default:
		web.WriteServerError(w)
	}
}
