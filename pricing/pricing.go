// Package pricing holds every money computation in the system. All amounts
// are fixed-point decimals; floats appear only at the serialization boundary.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Round normalizes a monetary amount to 2 decimal places, rounding half-up.
// It is applied at the point of storage, not just display, so repeated reads
// of the same amount are stable.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LinePrice is the unit price of a cart or order line: the product base price
// plus the variant extra, if any.
func LinePrice(base, extra decimal.Decimal) decimal.Decimal {
	return base.Add(extra)
}

// LineTotal is the unit price multiplied by the quantity.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// FinalPrice is subtotal minus discount plus shipping. The discount is
// applied before shipping is added; shipping is never discounted.
func FinalPrice(subtotal, discount, shipping decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(shipping)
}
