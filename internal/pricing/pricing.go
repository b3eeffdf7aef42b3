// Package pricing implements the quote calculation engine: per-item prices,
// subtotals, and the ordered modifier chain (bundle discount, custom discount,
// rush fee, tax) that produces a quote total.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidDeliverableType is returned when a lookup falls outside the
	// closed deliverable enumeration.
	ErrInvalidDeliverableType = errors.New("invalid deliverable type")

	// ErrInvalidComplexityTier is returned when a lookup falls outside the
	// closed complexity enumeration.
	ErrInvalidComplexityTier = errors.New("invalid complexity tier")
)

// ItemPrice is the pair of snapshot values computed for a quote line.
type ItemPrice struct {
	BasePrice       float64 `json:"basePrice"`
	CalculatedPrice float64 `json:"calculatedPrice"`
}

// PriceItem computes the price snapshot for a single line:
//
//	calculatedPrice = baseRates[type] * complexityMultipliers[complexity]
//	                  + extraRevisions * extraRevisionRate
//
// The enumerations are closed, so an out-of-range type or tier is an error,
// never a zero-valued fallback.
func PriceItem(typ DeliverableType, tier ComplexityTier, extraRevisions int, cfg Config) (ItemPrice, error) {
	if !typ.Valid() {
		return ItemPrice{}, fmt.Errorf("%w: %q", ErrInvalidDeliverableType, typ)
	}
	if !tier.Valid() {
		return ItemPrice{}, fmt.Errorf("%w: %q", ErrInvalidComplexityTier, tier)
	}

	basePrice := cfg.BaseRates[typ]
	multiplier := cfg.ComplexityMultipliers[tier]
	calculated := basePrice*multiplier + float64(extraRevisions)*cfg.ExtraRevisionRate

	return ItemPrice{BasePrice: basePrice, CalculatedPrice: calculated}, nil
}

// Reprice recomputes the BasePrice/CalculatedPrice snapshots of every item in
// place against cfg. Stale snapshot values are always overwritten.
func Reprice(items []Item, cfg Config) error {
	for i := range items {
		price, err := PriceItem(items[i].Type, items[i].Complexity, items[i].ExtraRevisions, cfg)
		if err != nil {
			return err
		}
		items[i].BasePrice = price.BasePrice
		items[i].CalculatedPrice = price.CalculatedPrice
	}
	return nil
}

// Subtotal sums the calculated prices of all items. The empty list sums to 0.
func Subtotal(items []Item) float64 {
	var sum float64
	for _, item := range items {
		sum += item.CalculatedPrice
	}
	return sum
}

// BundleEligible reports whether the quote qualifies for the bundle discount.
// It must be re-evaluated every time the item list changes.
func BundleEligible(items []Item) bool {
	return len(items) >= 2
}

// TotalBreakdown is the result of applying the modifier chain to a subtotal.
type TotalBreakdown struct {
	BeforeTax float64 `json:"beforeTax"`
	TaxAmount float64 `json:"taxAmount"`
	Total     float64 `json:"total"`
}

// Total applies the quote modifiers to the subtotal. The order is fixed and
// each step operates on the running amount: bundle discount, then custom
// discount, then rush fee (the fee inflates the already-discounted amount),
// then rounding to cents, then tax on the rounded figure.
func Total(subtotal float64, mods Modifiers, cfg Config) TotalBreakdown {
	beforeTax := subtotal

	if mods.BundleDiscountApplied {
		beforeTax *= 1 - cfg.BundleDiscountPercent/100
	}
	if mods.CustomDiscountPercent > 0 {
		beforeTax *= 1 - mods.CustomDiscountPercent/100
	}
	if mods.RushFee {
		beforeTax *= 1 + cfg.RushFeePercent/100
	}

	beforeTax = RoundCents(beforeTax)

	taxAmount := 0.0
	if mods.IncludeTax {
		taxAmount = RoundCents(beforeTax * cfg.TaxPercent / 100)
	}

	return TotalBreakdown{
		BeforeTax: beforeTax,
		TaxAmount: taxAmount,
		Total:     RoundCents(beforeTax + taxAmount),
	}
}

// RushFeeAmount reconstructs the rush-fee portion of a beforeTax amount by
// reversing the multiplicative fee step. The pre-rush amount is never stored,
// so displays must derive it this way.
func RushFeeAmount(beforeTax float64, cfg Config) float64 {
	if cfg.RushFeePercent <= 0 {
		return 0
	}
	return RoundCents(beforeTax - beforeTax/(1+cfg.RushFeePercent/100))
}

// RoundCents rounds a currency amount to two decimal places, half away from
// zero.
func RoundCents(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}
