package document

import (
	"strings"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ResolveDiscount turns a free-text discount input into the absolute amount
// charged against one line. A trailing "%" is read as a percentage of the
// line gross, anything else as a plain amount; both are clamped to the gross.
// Invalid or non-positive inputs resolve to zero, and a zero resolution falls
// through to the catalog default when one is configured. The default is taken
// as-is, unclamped; line net floors at zero instead.
func ResolveDiscount(input string, gross, catalogDefault decimal.Decimal) decimal.Decimal {
	amount := decimal.Zero
	trimmed := strings.TrimSpace(input)

	if strings.HasSuffix(trimmed, "%") {
		pct, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(trimmed, "%")))
		if err == nil && pct.IsPositive() {
			amount = decimal.Min(gross, gross.Mul(pct).Div(oneHundred))
		}
	} else if trimmed != "" {
		value, err := decimal.NewFromString(trimmed)
		if err == nil && value.IsPositive() {
			amount = decimal.Min(gross, value)
		}
	}

	if amount.IsZero() && catalogDefault.IsPositive() {
		amount = catalogDefault
	}
	return amount
}

// LineGross returns quantity times unit price for one line.
func LineGross(line LineItem) decimal.Decimal {
	return line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
}

// LineDiscount resolves the discount amount for one line.
func LineDiscount(line LineItem) decimal.Decimal {
	return ResolveDiscount(line.DiscountInput, LineGross(line), line.ProductDiscount)
}

// LineNet returns the billed amount for one line, never below zero.
func LineNet(line LineItem) decimal.Decimal {
	net := LineGross(line).Sub(LineDiscount(line))
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}
