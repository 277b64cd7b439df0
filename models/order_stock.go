package models

// itemLabel names an order item in stock error messages.
func itemLabel(item *OrderItem) string {
	label := item.Product.Title
	if item.VariantChoice != nil {
		label += " - " + item.VariantChoice.Value
	}
	return label
}

func (o *Order) stockAdjustments(sign int) []StockAdjustment {
	adjustments := make([]StockAdjustment, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		adjustments = append(adjustments, StockAdjustment{
			ProductUID:      item.ProductUID,
			VariantChoiceID: item.VariantChoiceID,
			Quantity:        sign * item.Quantity,
			Item:            itemLabel(item),
		})
	}
	return adjustments
}

// StockRestorations plans the inventory increments performed when an order
// enters the canceled state: every item's quantity goes back to the variant
// or product it was taken from.
func (o *Order) StockRestorations() []StockAdjustment {
	return o.stockAdjustments(1)
}

// StockReductions plans the inventory decrements performed when a canceled
// order is reinstated. Reductions are conditional; if stock was sold
// elsewhere in the interim the whole transition fails.
func (o *Order) StockReductions() []StockAdjustment {
	return o.stockAdjustments(-1)
}
