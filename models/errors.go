package models

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ErrOrderNotFound is returned when an order does not exist or does not
// belong to the caller.
var ErrOrderNotFound = errors.New("order not found")

// ErrCartItemNotFound is returned when a cart line is not found.
var ErrCartItemNotFound = errors.New("cart item not found")

// Checkout errors.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoShippingAvailable  = errors.New("no shipping rate for destination")
	ErrVariantRequired      = errors.New("a variant must be selected for this product")
	ErrVariantNotFound      = errors.New("selected variant does not exist for this product")
	ErrVariantGroupNotFound = errors.New("variant group does not exist for this product")
	ErrNoVariants           = errors.New("this product does not have variants")
)

// Discount validation errors.
var (
	ErrDiscountNotFound          = errors.New("discount code does not exist")
	ErrDiscountInactive          = errors.New("discount code is not active")
	ErrDiscountExpired           = errors.New("discount code has expired")
	ErrDiscountUsageLimitReached = errors.New("discount code usage limit reached")
	ErrDiscountMinimumNotMet     = errors.New("order does not meet minimum amount for discount")
)

// Order lifecycle errors.
var (
	ErrCancellationWindowExpired = errors.New("cancellation window has expired")
	ErrInvalidTransition         = errors.New("invalid order status transition")
	ErrTransitionConflict        = errors.New("order status changed concurrently")
	ErrOrderUIDTaken             = errors.New("order uid already exists")
)

// InsufficientStockError names the item whose requested quantity exceeds the
// available stock, at checkout or at uncancel time.
type InsufficientStockError struct {
	Item string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s", e.Item)
}

// DuplicateCartEntryError flags two cart lines for the same product/variant
// combination. The cart unique index should make this impossible; checkout
// verifies it anyway before planning stock decrements.
type DuplicateCartEntryError struct {
	Item string
}

func (e *DuplicateCartEntryError) Error() string {
	return fmt.Sprintf("duplicate product/variant combination in cart: %s", e.Item)
}
