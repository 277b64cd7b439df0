package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem bookmarks one product for one user. The (user, product) pair
// is unique; adding an already-wishlisted product is a no-op.
type WishlistItem struct {
	UID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product"`
	ProductUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product"`
	AddedAt    time.Time `gorm:"not null"`

	Product Product `gorm:"foreignKey:ProductUID"`
}

func (w *WishlistItem) TableName() string {
	return "wishlist_items"
}
