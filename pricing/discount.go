package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopcore/backoffice/models"
)

var oneHundred = decimal.NewFromInt(100)

// ValidateDiscount checks a coupon against its activity flag, expiry, usage
// limit and minimum-order threshold, in that order. Expiry is compared in
// UTC on both sides.
func ValidateDiscount(d *models.Discount, subtotal decimal.Decimal, now time.Time) error {
	if !d.IsActive {
		return models.ErrDiscountInactive
	}
	if d.ExpiresAt != nil && d.ExpiresAt.UTC().Before(now.UTC()) {
		return models.ErrDiscountExpired
	}
	if d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit {
		return models.ErrDiscountUsageLimitReached
	}
	if d.MinimumOrderAmount.Valid && subtotal.LessThan(d.MinimumOrderAmount.Decimal) {
		return models.ErrDiscountMinimumNotMet
	}
	return nil
}

// DiscountAmount computes the money value of a discount against a subtotal:
// percent of the subtotal for percent coupons, the flat value otherwise. The
// result is clamped to the subtotal so a discount can never drive an order
// negative, even for a misconfigured >100% percent coupon.
func DiscountAmount(d *models.Discount, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	if d.DiscountType == models.DiscountTypePercent {
		amount = subtotal.Mul(d.Value).Div(oneHundred)
	} else {
		amount = d.Value
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return amount
}
