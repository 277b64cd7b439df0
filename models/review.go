package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer's rating and text for a product. A user may leave
// multiple reviews for the same product; only the author can edit or remove
// one.
type Review struct {
	UID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductUID uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating     int       `gorm:"not null"`
	ReviewText string    `gorm:"not null"`
	CreatedAt  time.Time ``
	UpdatedAt  time.Time ``
}

func (r *Review) TableName() string {
	return "reviews"
}
