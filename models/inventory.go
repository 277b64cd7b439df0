package models

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HasVariants reports whether the product's inventory is managed at the
// variant-choice level. Requires VariantGroups (with Choices) to be preloaded.
func (p *Product) HasVariants() bool {
	for _, g := range p.VariantGroups {
		if len(g.Choices) > 0 {
			return true
		}
	}
	return false
}

// AvailableStock returns the authoritative sellable stock: the sum of all
// variant choice stocks for variant products, else the product's own stock.
func (p *Product) AvailableStock() int {
	if !p.HasVariants() {
		return p.Stock
	}
	total := 0
	for _, g := range p.VariantGroups {
		for _, c := range g.Choices {
			total += c.Stock
		}
	}
	return total
}

// InStock reports whether the product can currently be purchased.
func (p *Product) InStock() bool {
	return p.AvailableStock() > 0
}

// FindChoice locates a variant choice by id across the product's preloaded
// variant groups. Returns nil when the choice does not belong to the product.
func (p *Product) FindChoice(id uuid.UUID) *VariantChoice {
	for gi := range p.VariantGroups {
		for ci := range p.VariantGroups[gi].Choices {
			if p.VariantGroups[gi].Choices[ci].ID == id {
				return &p.VariantGroups[gi].Choices[ci]
			}
		}
	}
	return nil
}

// StockAdjustment is one signed inventory mutation at the correct level:
// variant-choice stock when VariantChoiceID is set, product stock otherwise.
// Positive quantities restore stock, negative quantities reduce it.
type StockAdjustment struct {
	ProductUID      uuid.UUID
	VariantChoiceID *uuid.UUID
	Quantity        int
	Item            string
}

// applyStockAdjustments executes every adjustment inside the caller's
// transaction. Reductions are conditional single-statement updates
// ("decrement if stock >= n"), so concurrent writers can never drive a stock
// row negative; a reduction that matches no row fails the whole transaction
// with InsufficientStockError.
func applyStockAdjustments(tx *gorm.DB, adjustments []StockAdjustment) error {
	for _, adj := range adjustments {
		if adj.Quantity == 0 {
			continue
		}

		var res *gorm.DB
		if adj.Quantity > 0 {
			if adj.VariantChoiceID != nil {
				res = tx.Model(&VariantChoice{}).
					Where("id = ?", *adj.VariantChoiceID).
					UpdateColumn("stock", gorm.Expr("stock + ?", adj.Quantity))
			} else {
				res = tx.Model(&Product{}).
					Where("uid = ?", adj.ProductUID).
					UpdateColumn("stock", gorm.Expr("stock + ?", adj.Quantity))
			}
			if res.Error != nil {
				return fmt.Errorf("restore stock for %s: %w", adj.Item, res.Error)
			}
			continue
		}

		need := -adj.Quantity
		if adj.VariantChoiceID != nil {
			res = tx.Model(&VariantChoice{}).
				Where("id = ? AND stock >= ?", *adj.VariantChoiceID, need).
				UpdateColumn("stock", gorm.Expr("stock - ?", need))
		} else {
			res = tx.Model(&Product{}).
				Where("uid = ? AND stock >= ?", adj.ProductUID, need).
				UpdateColumn("stock", gorm.Expr("stock - ?", need))
		}
		if res.Error != nil {
			return fmt.Errorf("reduce stock for %s: %w", adj.Item, res.Error)
		}
		if res.RowsAffected == 0 {
			return &InsufficientStockError{Item: adj.Item}
		}
	}
	return nil
}
