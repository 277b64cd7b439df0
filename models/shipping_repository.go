package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type ShippingRepository struct {
	db *gorm.DB
}

func NewShippingRepository(db *gorm.DB) *ShippingRepository {
	return &ShippingRepository{db: db}
}

// FindRate resolves the shipping rate for a destination. Destinations without
// a configured rate cannot be shipped to.
func (r *ShippingRepository) FindRate(ctx context.Context, country, city string) (*ShippingRate, error) {
	var rate ShippingRate
	if err := r.db.WithContext(ctx).
		Where("country = ? AND city = ?", country, city).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoShippingAvailable
		}
		return nil, err
	}
	return &rate, nil
}

func (r *ShippingRepository) List(ctx context.Context) ([]ShippingRate, error) {
	var rates []ShippingRate
	if err := r.db.WithContext(ctx).
		Order("country, city").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *ShippingRepository) Create(ctx context.Context, rate *ShippingRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}
