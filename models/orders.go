package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// ValidOrderStatus reports whether s is one of the known lifecycle states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// NewOrderUID generates the short human-readable order identifier,
// e.g. "ORD-3F9D1A".
func NewOrderUID() string {
	u := uuid.New()
	return fmt.Sprintf("ORD-%X", u[:3])
}

// ShippingAddress is the destination snapshot taken at checkout time. It is a
// copy of the submitted address, never a live reference to a user profile, so
// later profile edits cannot alter past orders.
type ShippingAddress struct {
	UID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	FullName        string    `gorm:"not null"`
	PhoneNumber     string    `gorm:"not null"`
	Country         string    `gorm:"not null"`
	City            string    `gorm:"not null"`
	Area            string    ``
	Street          string    ``
	BuildingNumber  string    ``
	ApartmentNumber string    ``
	ZipCode         string    ``
	Notes           string    ``
}

func (a *ShippingAddress) TableName() string {
	return "shipping_addresses"
}

// Order is a priced, stock-validated purchase. It is created only by the
// checkout flow, atomically with its items and the stock decrements, and its
// status changes only through the order lifecycle service.
type Order struct {
	UID                string          `gorm:"primaryKey"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status             OrderStatus     `gorm:"not null;default:'pending'"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ShippingPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	FinalPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CouponCode         string          ``
	ShippingRateUID    uuid.UUID       `gorm:"type:uuid;not null"`
	ShippingAddressUID uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt          time.Time       ``

	Items           []OrderItem     `gorm:"foreignKey:OrderUID"`
	ShippingAddress ShippingAddress `gorm:"foreignKey:ShippingAddressUID"`
}

func (o *Order) TableName() string {
	return "orders"
}

// OrderItem is one purchased line of an order. PriceAtPurchase freezes the
// unit price (base plus variant extra) at order time; later catalog price
// changes never touch it.
type OrderItem struct {
	UID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderUID        string          `gorm:"not null;index"`
	ProductUID      uuid.UUID       `gorm:"type:uuid;not null"`
	VariantChoiceID *uuid.UUID      `gorm:"type:uuid"`
	Quantity        int             `gorm:"not null"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Product       Product        `gorm:"foreignKey:ProductUID"`
	VariantChoice *VariantChoice `gorm:"foreignKey:VariantChoiceID"`
}

func (i *OrderItem) TableName() string {
	return "order_items"
}
