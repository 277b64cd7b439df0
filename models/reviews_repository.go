package models

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrReviewNotFound covers both a missing review and a review that belongs
// to a different user; callers cannot tell the two apart.
var ErrReviewNotFound = errors.New("review not found")

type ReviewsRepository struct {
	db *gorm.DB
}

func NewReviewsRepository(db *gorm.DB) *ReviewsRepository {
	return &ReviewsRepository{db: db}
}

// ListForProduct returns a product's reviews, newest first.
func (r *ReviewsRepository) ListForProduct(ctx context.Context, productUID uuid.UUID) ([]Review, error) {
	var reviews []Review
	if err := r.db.WithContext(ctx).
		Where("product_uid = ?", productUID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetForUser returns a review only when the given user authored it.
func (r *ReviewsRepository) GetForUser(ctx context.Context, userID, uid uuid.UUID) (*Review, error) {
	var review Review
	if err := r.db.WithContext(ctx).
		Where("uid = ? AND user_id = ?", uid, userID).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewsRepository) Create(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *ReviewsRepository) Update(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Model(review).
		Select("rating", "review_text").
		Updates(review).Error
}

func (r *ReviewsRepository) Delete(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Delete(review).Error
}
