/*
Package generic provides the domain-agnostic foundation of the P/L engine.

PURPOSE:
  This package contains the calendar and numeric building blocks that the
  profit-and-loss pipeline is written against. Nothing here knows about
  production lines, personnel categories or revenue analysis; it only knows
  about dates, periods and exact decimal arithmetic.

KEY CONCEPTS IN THIS FILE (types.go):
  - Decimal coercion: every raw numeric input coerces to zero when absent or invalid
  - Rounding: half-up rounding toward +infinity, applied AFTER multiplication
  - Safe division: rates computed against a zero denominator become zero
  - Percent: ratio x 100 with a zero guard

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift in money sums
  2. Totality: No helper in this file returns an error or panics on bad input
  3. Explicit scale: Division by 1000 for display scale is a named helper

USAGE:
  cost := generic.Round(hours.Mul(generic.Dec("3.75")))   // 10h -> 38
  rate := generic.Percent(grossProfit, addedValue)          // 0 when addedValue == 0

SEE ALSO:
  - time.go: TimePoint (calendar dates)
  - period.go: Period and month date lists
  - errors.go: Sentinel errors
*/
package generic

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONSTANTS
// =============================================================================

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
	half     = decimal.New(5, -1)
)

// =============================================================================
// COERCION - Absent or invalid values become zero
// =============================================================================

// DecimalOrZero parses s as a decimal. Empty, blank or malformed input yields zero.
func DecimalOrZero(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Dec is DecimalOrZero for literals in code and tests.
func Dec(s string) decimal.Decimal { return DecimalOrZero(s) }

// DecInt converts an integer.
func DecInt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// =============================================================================
// ARITHMETIC
// =============================================================================

// Round rounds to the nearest integer with halves going toward +infinity
// (2.5 -> 3, -2.5 -> -2), matching the dashboard's Math.round behaviour.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}

// RoundTo rounds to the given number of decimal places, halves toward +infinity.
func RoundTo(d decimal.Decimal, places int32) decimal.Decimal {
	factor := decimal.New(1, places)
	return Round(d.Mul(factor)).Div(factor)
}

// SafeDiv returns a / b, or zero when b is zero.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// Percent returns (part / whole) * 100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	return SafeDiv(part, whole).Mul(hundred)
}

// Thousands scales a yen amount to thousand-yen display units.
func Thousands(d decimal.Decimal) decimal.Decimal {
	return d.Div(thousand)
}

// PerThousand divides by 1000; used to turn monthly unit prices into per-hour premiums.
func PerThousand(d decimal.Decimal) decimal.Decimal {
	return d.Div(thousand)
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// FormatPercent renders a rate with two decimals and a percent sign.
func FormatPercent(rate decimal.Decimal) string {
	return rate.StringFixed(2) + "%"
}
