package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is one line in a user's shopping cart. At most one row exists per
// (user, product, variant choice) tuple; re-adding the same combination
// increments the quantity instead of inserting a duplicate.
//
// Cart lines never hold stock: availability checks at add/update time are
// advisory only, inventory is reserved at checkout.
type Cart struct {
	UID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:ux_carts_line"`
	ProductUID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_carts_line"`
	VariantChoiceID *uuid.UUID `gorm:"type:uuid;uniqueIndex:ux_carts_line"`
	Quantity        int        `gorm:"not null;default:1"`
	AddedAt         time.Time  ``
	UpdatedAt       time.Time  ``

	Product       Product        `gorm:"foreignKey:ProductUID"`
	VariantChoice *VariantChoice `gorm:"foreignKey:VariantChoiceID"`
}

func (c *Cart) TableName() string {
	return "carts"
}
