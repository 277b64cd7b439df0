package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type DiscountsRepository struct {
	db *gorm.DB
}

func NewDiscountsRepository(db *gorm.DB) *DiscountsRepository {
	return &DiscountsRepository{db: db}
}

// GetByCode looks a discount up by its coupon code.
func (r *DiscountsRepository) GetByCode(ctx context.Context, code string) (*Discount, error) {
	var discount Discount
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return &discount, nil
}

func (r *DiscountsRepository) Create(ctx context.Context, discount *Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

func (r *DiscountsRepository) List(ctx context.Context) ([]Discount, error) {
	var discounts []Discount
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&discounts).Error; err != nil {
		return nil, err
	}
	return discounts, nil
}
