package models

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Lines returns all cart lines for a user with product (variant groups,
// images) and variant choice hydrated.
func (r *CartRepository) Lines(ctx context.Context, userID uuid.UUID) ([]Cart, error) {
	var lines []Cart
	if err := r.db.WithContext(ctx).
		Preload("Product.VariantGroups.Choices").
		Preload("Product.Images").
		Preload("VariantChoice").
		Where("user_id = ?", userID).
		Order("added_at").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Line fetches the single cart row for a (user, product, variant) tuple.
func (r *CartRepository) Line(ctx context.Context, userID, productUID uuid.UUID, variantChoiceID *uuid.UUID) (*Cart, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND product_uid = ?", userID, productUID)
	if variantChoiceID != nil {
		query = query.Where("variant_choice_id = ?", *variantChoiceID)
	} else {
		query = query.Where("variant_choice_id IS NULL")
	}

	var line Cart
	if err := query.First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &line, nil
}

func (r *CartRepository) Save(ctx context.Context, line *Cart) error {
	return r.db.WithContext(ctx).Save(line).Error
}

func (r *CartRepository) Delete(ctx context.Context, line *Cart) error {
	return r.db.WithContext(ctx).Delete(line).Error
}

// Clear removes every cart line the user has.
func (r *CartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Cart{}).Error
}
