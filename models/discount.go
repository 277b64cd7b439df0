package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount types supported by coupon codes.
const (
	DiscountTypePercent = "percent"
	DiscountTypeAmount  = "amount"
)

// Discount is a coupon code with optional expiry, usage limit and minimum
// order amount. UsedCount is incremented at successful checkout, inside the
// order transaction, so UsageLimit is actually enforced over time.
type Discount struct {
	UID                uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Code               string              `gorm:"uniqueIndex;not null"`
	DiscountType       string              `gorm:"not null"`
	Value              decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	MinimumOrderAmount decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	IsActive           bool                `gorm:"not null;default:true"`
	ExpiresAt          *time.Time          `gorm:"type:timestamptz"`
	UsageLimit         *int                ``
	UsedCount          int                 `gorm:"not null;default:0"`
	CreatedAt          time.Time           `gorm:"type:timestamptz"`
}

func (d *Discount) TableName() string {
	return "discounts"
}
