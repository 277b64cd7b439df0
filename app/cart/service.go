// Package cart manages the per-user shopping cart. Cart operations never
// hold inventory; stock checks here are advisory so two users can both carry
// the last unit in their carts and only the first checkout wins.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/pricing"
)

type CartStore interface {
	Lines(ctx context.Context, userID uuid.UUID) ([]models.Cart, error)
	Line(ctx context.Context, userID, productUID uuid.UUID, variantChoiceID *uuid.UUID) (*models.Cart, error)
	Save(ctx context.Context, line *models.Cart) error
	Delete(ctx context.Context, line *models.Cart) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type ProductGetter interface {
	GetActiveByUID(ctx context.Context, uid uuid.UUID) (*models.Product, error)
}

type DiscountProvider interface {
	GetByCode(ctx context.Context, code string) (*models.Discount, error)
}

type Service struct {
	carts     CartStore
	products  ProductGetter
	discounts DiscountProvider
	now       func() time.Time
}

func NewService(carts CartStore, products ProductGetter, discounts DiscountProvider) *Service {
	return &Service{
		carts:     carts,
		products:  products,
		discounts: discounts,
		now:       time.Now,
	}
}

// AddItem puts a product (and variant, when the product has variants) into
// the cart, or bumps the quantity of the existing line for the same
// combination. The requested total must not exceed the available stock at
// the correct inventory level, counting what is already in the cart.
func (s *Service) AddItem(ctx context.Context, userID, productUID uuid.UUID, variantChoiceID *uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.products.GetActiveByUID(ctx, productUID)
	if err != nil {
		return nil, err
	}

	var choice *models.VariantChoice
	if product.HasVariants() {
		if !product.InStock() {
			return nil, &models.InsufficientStockError{Item: product.Title}
		}
		if variantChoiceID == nil {
			return nil, models.ErrVariantRequired
		}
		choice = product.FindChoice(*variantChoiceID)
		if choice == nil {
			return nil, models.ErrVariantNotFound
		}
	} else if variantChoiceID != nil {
		return nil, models.ErrNoVariants
	}

	current := 0
	line, err := s.carts.Line(ctx, userID, productUID, variantChoiceID)
	switch {
	case err == nil:
		current = line.Quantity
	case errors.Is(err, models.ErrCartItemNotFound):
		line = nil
	default:
		return nil, err
	}

	available := product.Stock
	label := product.Title
	if choice != nil {
		available = choice.Stock
		label += " - " + choice.Value
	}
	if current+quantity > available {
		return nil, &models.InsufficientStockError{Item: label}
	}

	if line == nil {
		line = &models.Cart{
			UID:             uuid.New(),
			UserID:          userID,
			ProductUID:      productUID,
			VariantChoiceID: variantChoiceID,
			Quantity:        quantity,
			AddedAt:         s.now(),
		}
	} else {
		line.Quantity += quantity
	}
	if err := s.carts.Save(ctx, line); err != nil {
		return nil, err
	}

	line.Product = *product
	line.VariantChoice = choice
	return line, nil
}

// UpdateQuantity sets the quantity of an existing cart line; a quantity of
// zero or less removes the line. The new quantity must fit the available
// stock at the correct inventory level.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productUID uuid.UUID, variantChoiceID *uuid.UUID, quantity int) (*models.Cart, error) {
	line, err := s.carts.Line(ctx, userID, productUID, variantChoiceID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.carts.Delete(ctx, line); err != nil {
			return nil, err
		}
		return nil, nil
	}

	product, err := s.products.GetActiveByUID(ctx, productUID)
	if err != nil {
		return nil, err
	}

	available := product.Stock
	label := product.Title
	var choice *models.VariantChoice
	if variantChoiceID != nil {
		choice = product.FindChoice(*variantChoiceID)
		if choice == nil {
			return nil, models.ErrVariantNotFound
		}
		available = choice.Stock
		label += " - " + choice.Value
	}
	if quantity > available {
		return nil, &models.InsufficientStockError{Item: label}
	}

	line.Quantity = quantity
	if err := s.carts.Save(ctx, line); err != nil {
		return nil, err
	}
	line.Product = *product
	line.VariantChoice = choice
	return line, nil
}

// RemoveItem deletes one cart line.
func (s *Service) RemoveItem(ctx context.Context, userID, productUID uuid.UUID, variantChoiceID *uuid.UUID) error {
	line, err := s.carts.Line(ctx, userID, productUID, variantChoiceID)
	if err != nil {
		return err
	}
	return s.carts.Delete(ctx, line)
}

// GetCart returns the user's cart lines with products hydrated.
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) ([]models.Cart, error) {
	return s.carts.Lines(ctx, userID)
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.carts.Clear(ctx, userID)
}

// Totals previews the cart's subtotal, discount and total for an optional
// coupon code, with the same validation checkout will apply.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

func (s *Service) CalculateTotals(ctx context.Context, userID uuid.UUID, couponCode string) (*Totals, error) {
	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for i := range lines {
		unit := lines[i].Product.Price
		if lines[i].VariantChoice != nil {
			unit = pricing.LinePrice(unit, lines[i].VariantChoice.ExtraPrice)
		}
		subtotal = subtotal.Add(pricing.LineTotal(pricing.Round(unit), lines[i].Quantity))
	}
	subtotal = pricing.Round(subtotal)

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

	return &Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    pricing.Round(subtotal.Sub(discount)),
	}, nil
}
