package document

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolveDiscountPercentage(t *testing.T) {
	got := ResolveDiscount("10%", dec("200"), decimal.Zero)
	require.True(t, got.Equal(dec("20")), "got %s", got)
}

func TestResolveDiscountPlainAmount(t *testing.T) {
	got := ResolveDiscount("50", dec("200"), decimal.Zero)
	require.True(t, got.Equal(dec("50")), "got %s", got)
}

func TestResolveDiscountClampedToGross(t *testing.T) {
	require.True(t, ResolveDiscount("500", dec("200"), decimal.Zero).Equal(dec("200")))
	require.True(t, ResolveDiscount("150%", dec("200"), decimal.Zero).Equal(dec("200")))
}

func TestResolveDiscountFallsThroughToCatalogDefault(t *testing.T) {
	require.True(t, ResolveDiscount("", dec("200"), dec("15")).Equal(dec("15")))
	// An explicit zero is not an override; the catalog default still applies.
	require.True(t, ResolveDiscount("0", dec("200"), dec("15")).Equal(dec("15")))
	require.True(t, ResolveDiscount("0%", dec("200"), dec("15")).Equal(dec("15")))
}

func TestCatalogDefaultNotClampedToGross(t *testing.T) {
	require.True(t, ResolveDiscount("", dec("10"), dec("25")).Equal(dec("25")))

	// The unclamped default flows into the totals; only the net floors at zero.
	line := LineItem{Quantity: 1, UnitPrice: dec("10"), ProductDiscount: dec("25")}
	totals := ComputeTotals([]LineItem{line})
	require.True(t, totals.Gross.Equal(dec("10")))
	require.True(t, totals.Discount.Equal(dec("25")))
	require.True(t, totals.Net.IsZero())
}

func TestResolveDiscountInvalidInputsResolveToZero(t *testing.T) {
	require.True(t, ResolveDiscount("abc", dec("200"), decimal.Zero).IsZero())
	require.True(t, ResolveDiscount("-5", dec("200"), decimal.Zero).IsZero())
	require.True(t, ResolveDiscount("-5%", dec("200"), decimal.Zero).IsZero())
	require.True(t, ResolveDiscount("x%", dec("200"), decimal.Zero).IsZero())
}

func TestLineNetNeverNegative(t *testing.T) {
	line := LineItem{Quantity: 1, UnitPrice: dec("10"), ProductDiscount: dec("25")}
	require.True(t, LineNet(line).IsZero())

	line = LineItem{Quantity: 2, UnitPrice: dec("100"), DiscountInput: "10%"}
	require.True(t, LineNet(line).Equal(dec("180")))
}
