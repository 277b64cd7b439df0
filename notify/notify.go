// Package notify dispatches order-confirmation events. Dispatch is strictly
// best-effort: the order is already committed before a notifier runs, and a
// failed publish is logged by the caller, never surfaced to the customer.
package notify

import (
	"context"
	"time"
)

// ConfirmationItem is one purchased line in a confirmation event.
type ConfirmationItem struct {
	ProductTitle string  `json:"product_title"`
	Variant      string  `json:"variant,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	LineTotal    float64 `json:"line_total"`
}

// OrderConfirmation carries everything a downstream consumer (mailer, CRM)
// needs to confirm an order to the customer.
type OrderConfirmation struct {
	OrderUID        string             `json:"order_uid"`
	UserID          string             `json:"user_id"`
	RecipientName   string             `json:"recipient_name"`
	ShippingAddress string             `json:"shipping_address"`
	Items           []ConfirmationItem `json:"items"`
	Subtotal        float64            `json:"subtotal"`
	Discount        float64            `json:"discount"`
	ShippingFee     float64            `json:"shipping_fee"`
	Total           float64            `json:"total"`
	CreatedAt       time.Time          `json:"created_at"`
}

// Notifier publishes order confirmations.
type Notifier interface {
	OrderPlaced(ctx context.Context, confirmation OrderConfirmation) error
}

// Nop is a Notifier that drops everything; used in tests and when no broker
// is configured.
type Nop struct{}

func (Nop) OrderPlaced(context.Context, OrderConfirmation) error { return nil }
