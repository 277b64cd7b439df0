package models

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrWishlistItemNotFound = errors.New("product is not in the wishlist")

type WishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// ListForUser returns the user's wishlist, most recently added first, with
// products hydrated for the storefront summary.
func (r *WishlistRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]WishlistItem, error) {
	var items []WishlistItem
	if err := r.db.WithContext(ctx).
		Preload("Product.VariantGroups.Choices").
		Preload("Product.Images").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns the wishlist entry for a (user, product) pair.
func (r *WishlistRepository) Get(ctx context.Context, userID, productUID uuid.UUID) (*WishlistItem, error) {
	var item WishlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_uid = ?", userID, productUID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWishlistItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *WishlistRepository) Create(ctx context.Context, item *WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Remove deletes the entry for a (user, product) pair and reports whether
// one existed.
func (r *WishlistRepository) Remove(ctx context.Context, userID, productUID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_uid = ?", userID, productUID).
		Delete(&WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}
