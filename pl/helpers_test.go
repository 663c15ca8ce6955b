package pl_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/pl-engine/generic"
	"github.com/warp/pl-engine/pl"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================

func dec(s string) decimal.Decimal { return generic.Dec(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func date(s string) generic.TimePoint { return generic.MustDate(s) }

// assertDec compares decimals by value, so "20" and "20.00" are equal.
func assertDec(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func marchRates() pl.MonthlyRates {
	return pl.MonthlyRates{
		Year:            2025,
		Month:           3,
		InsideUnitRate:  dec("100"),
		OutsideUnitRate: dec("80"),
		DirectRate:      dec("3000"),
		DispatchRate:    dec("2000"),
		IndirectRate:    dec("2500"),
	}
}
