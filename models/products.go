package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable product in the catalog.
// Stock on the product row is authoritative only when the product has no
// variant groups; otherwise the variant choices carry the inventory.
type Product struct {
	UID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title       string          `gorm:"not null"`
	Description string          ``
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	IsActive    bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time       ``
	UpdatedAt   time.Time       ``

	VariantGroups []VariantGroup `gorm:"foreignKey:ProductUID"`
	Images        []ProductImage `gorm:"foreignKey:ProductUID"`
}

func (p *Product) TableName() string {
	return "products"
}

// VariantGroup is a named axis of product configuration (e.g. "Size").
type VariantGroup struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductUID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"not null"`

	Choices []VariantChoice `gorm:"foreignKey:GroupID"`
}

func (g *VariantGroup) TableName() string {
	return "variant_groups"
}

// VariantChoice is one selectable value within a variant group (e.g. "Large").
// Its stock is the authoritative inventory unit for variant products, and its
// extra price is added on top of the product base price.
type VariantChoice struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	GroupID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Value      string          `gorm:"not null"`
	Stock      int             `gorm:"not null;default:0"`
	ExtraPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

func (c *VariantChoice) TableName() string {
	return "variant_choices"
}

// ProductImage is an uploaded image attached to a product. At most one image
// per product is flagged as the main one.
type ProductImage struct {
	UID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductUID uuid.UUID `gorm:"type:uuid;not null;index"`
	Filename   string    `gorm:"not null"`
	IsMain     bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time ``
}

func (i *ProductImage) TableName() string {
	return "product_images"
}

// MainImage returns the filename of the product's main image, or "" when the
// product has no main image. Requires Images to be preloaded.
func (p *Product) MainImage() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.Filename
		}
	}
	return ""
}
