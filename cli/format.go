// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatMoney rounds to whole dollars with comma separators.
// e.g., -14202.14 -> "-$14,202", 30900 -> "$30,900"
func FormatMoney(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}

// FormatSignedMoney is FormatMoney with an explicit "+" for gains.
func FormatSignedMoney(d decimal.Decimal) string {
	if d.Round(0).IsPositive() {
		return "+" + FormatMoney(d)
	}
	return FormatMoney(d)
}

// FormatNumber adds comma separators to an integer.
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatJobs formats a fractional job count with one decimal.
func FormatJobs(d decimal.Decimal) string {
	return d.StringFixed(1)
}

// FormatDay renders a simulation day, or a dash when the event never happens.
func FormatDay(day int, reached bool) string {
	if !reached {
		return "-"
	}
	return fmt.Sprintf("day %d", day)
}
