package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingRate maps a (country, city) destination to a flat shipping price.
// Checkout refuses destinations without a matching rate.
type ShippingRate struct {
	UID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Country string          `gorm:"not null;uniqueIndex:ux_shipping_rates_dest"`
	City    string          `gorm:"not null;uniqueIndex:ux_shipping_rates_dest"`
	Price   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (r *ShippingRate) TableName() string {
	return "shipping_rates"
}
