// Package money renders currency and percentage values for display.
package money

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultPercentDecimals is the precision FormatPercent uses when none is given.
const DefaultPercentDecimals int32 = 1

// FormatCurrency rounds to whole dollars (half away from zero) and renders
// with thousands separators. Negative values put the sign before the symbol:
// -$1,234. Amounts that round to zero carry no sign, so -0.4 renders as "$0"
// rather than the "-$0" a browser's Intl currency formatter prints.
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	if rounded.IsNegative() {
		return "-$" + humanize.BigComma(rounded.Neg().BigInt())
	}
	return "$" + humanize.BigComma(rounded.BigInt())
}

// FormatCurrencyFloat is FormatCurrency for float64 values.
func FormatCurrencyFloat(amount float64) string {
	return FormatCurrency(decimal.NewFromFloat(amount))
}

// FormatPercent renders value (already in percent units) with a fixed number
// of decimals and a trailing "%". Decimals defaults to one. As with
// FormatCurrency, values that round to zero drop their sign: -0.04 renders as
// "0.0%", where JavaScript's toFixed gives "-0.0%".
func FormatPercent(value decimal.Decimal, decimals ...int32) string {
	places := DefaultPercentDecimals
	if len(decimals) > 0 && decimals[0] >= 0 {
		places = decimals[0]
	}
	return value.StringFixed(places) + "%"
}

// FormatPercentFloat is FormatPercent for float64 values.
func FormatPercentFloat(value float64, decimals ...int32) string {
	return FormatPercent(decimal.NewFromFloat(value), decimals...)
}

// FormatCompact renders large amounts in K/M units for narrow columns and
// chart axes.
func FormatCompact(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	f := amount.InexactFloat64()
	switch {
	case f >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, f/1_000_000)
	case f >= 1_000:
		return fmt.Sprintf("%s$%.0fK", sign, f/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, f)
	}
}
