// Package checkout converts a user's cart into a priced, stock-validated,
// persisted order, and owns the user-facing order endpoints including
// self-cancellation.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/notify"
	"github.com/shopcore/backoffice/pricing"
)

// CancellationWindow is how long after creation the owning user may cancel
// an order themselves.
const CancellationWindow = 24 * time.Hour

// maxUIDAttempts bounds how often a checkout retries with a fresh order uid
// when the generated one collides with an existing order. The uid carries only
// three random bytes, so collisions become routine well within a realistic
// order volume.
const maxUIDAttempts = 3

type CartProvider interface {
	Lines(ctx context.Context, userID uuid.UUID) ([]models.Cart, error)
}

type RateFinder interface {
	FindRate(ctx context.Context, country, city string) (*models.ShippingRate, error)
}

type DiscountProvider interface {
	GetByCode(ctx context.Context, code string) (*models.Discount, error)
}

type OrderStore interface {
	PlaceOrder(ctx context.Context, order *models.Order, address *models.ShippingAddress, decrements []models.StockAdjustment) error
	GetForUser(ctx context.Context, userID uuid.UUID, uid string) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	TransitionStatus(ctx context.Context, uid string, prev, next models.OrderStatus, adjustments []models.StockAdjustment) error
}

// ShippingInput is the destination submitted with a checkout. It is copied
// into a ShippingAddress snapshot; the order never references live profile
// data.
type ShippingInput struct {
	FullName        string
	PhoneNumber     string
	Country         string
	City            string
	Area            string
	Street          string
	BuildingNumber  string
	ApartmentNumber string
	ZipCode         string
	Notes           string
}

type Service struct {
	carts     CartProvider
	rates     RateFinder
	discounts DiscountProvider
	orders    OrderStore
	notifier  notify.Notifier
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(carts CartProvider, rates RateFinder, discounts DiscountProvider, orders OrderStore, notifier notify.Notifier, logger *zap.Logger) *Service {
	return &Service{
		carts:     carts,
		rates:     rates,
		discounts: discounts,
		orders:    orders,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder runs the checkout sequence: resolve the shipping rate, load and
// validate the cart, price every line, validate the coupon, then persist the
// order with its stock decrements and cart wipe as one transaction. The
// confirmation event is dispatched only after the transaction committed, and
// a dispatch failure never fails the checkout.
func (s *Service) CreateOrder(ctx context.Context, userID uuid.UUID, input ShippingInput, couponCode string) (*models.Order, error) {
	rate, err := s.rates.FindRate(ctx, input.Country, input.City)
	if err != nil {
		return nil, err
	}

	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, models.ErrEmptyCart
	}

	items, decrements, subtotal, err := priceCart(lines)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	if couponCode != "" {
		d, err := s.discounts.GetByCode(ctx, couponCode)
		if err != nil {
			return nil, err
		}
		if err := pricing.ValidateDiscount(d, subtotal, s.now()); err != nil {
			return nil, err
		}
		discount = pricing.Round(pricing.DiscountAmount(d, subtotal))
	}

	shipping := pricing.Round(rate.Price)
	order := &models.Order{
		UID:             models.NewOrderUID(),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		TotalPrice:      pricing.Round(subtotal),
		Discount:        discount,
		ShippingPrice:   shipping,
		FinalPrice:      pricing.Round(pricing.FinalPrice(subtotal, discount, shipping)),
		CouponCode:      couponCode,
		ShippingRateUID: rate.UID,
		CreatedAt:       s.now(),
		Items:           items,
	}

	address := &models.ShippingAddress{
		UID:             uuid.New(),
		UserID:          userID,
		FullName:        input.FullName,
		PhoneNumber:     input.PhoneNumber,
		Country:         input.Country,
		City:            input.City,
		Area:            input.Area,
		Street:          input.Street,
		BuildingNumber:  input.BuildingNumber,
		ApartmentNumber: input.ApartmentNumber,
		ZipCode:         input.ZipCode,
		Notes:           input.Notes,
	}

	for attempt := 1; ; attempt++ {
		err := s.orders.PlaceOrder(ctx, order, address, decrements)
		if err == nil {
			break
		}
		if errors.Is(err, models.ErrOrderUIDTaken) && attempt < maxUIDAttempts {
			order.UID = models.NewOrderUID()
			continue
		}
		return nil, err
	}

	// Reload with full relationships for the response.
	placed, err := s.orders.GetForUser(ctx, userID, order.UID)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.OrderPlaced(ctx, buildConfirmation(placed)); err != nil {
		s.logger.Error("order confirmation dispatch failed",
			zap.String("order_uid", placed.UID),
			zap.Error(err))
	}
	return placed, nil
}

// priceCart validates and prices every cart line. It rejects duplicate
// product/variant combinations, checks the requested quantity against the
// authoritative stock level for each line, and returns the frozen order
// items, the planned stock decrements and the subtotal.
func priceCart(lines []models.Cart) ([]models.OrderItem, []models.StockAdjustment, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	decrements := make([]models.StockAdjustment, 0, len(lines))
	subtotal := decimal.Zero
	seen := make(map[string]bool, len(lines))

	for i := range lines {
		line := &lines[i]
		product := &line.Product

		label := product.Title
		key := line.ProductUID.String()
		if line.VariantChoice != nil {
			label += " - " + line.VariantChoice.Value
			key += "/" + line.VariantChoice.ID.String()
		}
		if seen[key] {
			return nil, nil, decimal.Zero, &models.DuplicateCartEntryError{Item: label}
		}
		seen[key] = true

		unit := product.Price
		if line.VariantChoice != nil {
			if line.VariantChoice.Stock < line.Quantity {
				return nil, nil, decimal.Zero, &models.InsufficientStockError{Item: label}
			}
			unit = pricing.LinePrice(product.Price, line.VariantChoice.ExtraPrice)
		} else if product.Stock < line.Quantity {
			return nil, nil, decimal.Zero, &models.InsufficientStockError{Item: label}
		}

		unit = pricing.Round(unit)
		lineTotal := pricing.Round(pricing.LineTotal(unit, line.Quantity))
		subtotal = subtotal.Add(lineTotal)

		items = append(items, models.OrderItem{
			UID:             uuid.New(),
			ProductUID:      line.ProductUID,
			VariantChoiceID: line.VariantChoiceID,
			Quantity:        line.Quantity,
			PriceAtPurchase: unit,
			TotalPrice:      lineTotal,
		})
		decrements = append(decrements, models.StockAdjustment{
			ProductUID:      line.ProductUID,
			VariantChoiceID: line.VariantChoiceID,
			Quantity:        -line.Quantity,
			Item:            label,
		})
	}
	return items, decrements, subtotal, nil
}

// ListOrders returns the caller's non-canceled orders.
func (s *Service) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orders.ListForUser(ctx, userID)
}

// GetOrder returns one of the caller's orders by uid.
func (s *Service) GetOrder(ctx context.Context, userID uuid.UUID, uid string) (*models.Order, error) {
	return s.orders.GetForUser(ctx, userID, uid)
}

// CancelOrder is the user-initiated cancellation: only the owning user,
// idempotent for already-canceled orders, and only within the cancellation
// window measured from order creation. Canceling restores stock for every
// item in the same transaction as the status change.
func (s *Service) CancelOrder(ctx context.Context, userID uuid.UUID, uid string) (*models.Order, error) {
	order, err := s.orders.GetForUser(ctx, userID, uid)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusCanceled {
		return order, nil
	}
	if s.now().Sub(order.CreatedAt) > CancellationWindow {
		return nil, models.ErrCancellationWindowExpired
	}

	if err := s.orders.TransitionStatus(ctx, uid, order.Status, models.OrderStatusCanceled, order.StockRestorations()); err != nil {
		return nil, err
	}
	return s.orders.GetForUser(ctx, userID, uid)
}

func buildConfirmation(order *models.Order) notify.OrderConfirmation {
	addr := order.ShippingAddress
	items := make([]notify.ConfirmationItem, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		variant := ""
		if item.VariantChoice != nil {
			variant = item.VariantChoice.Value
		}
		items = append(items, notify.ConfirmationItem{
			ProductTitle: item.Product.Title,
			Variant:      variant,
			Quantity:     item.Quantity,
			UnitPrice:    item.PriceAtPurchase.InexactFloat64(),
			LineTotal:    item.TotalPrice.InexactFloat64(),
		})
	}
	return notify.OrderConfirmation{
		OrderUID:      order.UID,
		UserID:        order.UserID.String(),
		RecipientName: addr.FullName,
		ShippingAddress: fmt.Sprintf("%s, %s, %s, %s, %s",
			addr.FullName, addr.Street, addr.Area, addr.City, addr.Country),
		Items:       items,
		Subtotal:    order.TotalPrice.InexactFloat64(),
		Discount:    order.Discount.InexactFloat64(),
		ShippingFee: order.ShippingPrice.InexactFloat64(),
		Total:       order.FinalPrice.InexactFloat64(),
		CreatedAt:   order.CreatedAt,
	}
}
