package pl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pl-engine/pl"
)

// =============================================================================
// REVENUE ACCUMULATOR
// =============================================================================

// day builds inputs whose dayGrossProfit equals addedValue - expenses.
func day(d, addedValue, expenses string) (pl.DailyTotals, pl.ExpenseRecord, pl.ProfitBreakdown) {
	return pl.DailyTotals{Date: date(d), TotalAddedValue: dec(addedValue)},
		pl.ExpenseRecord{Date: date(d)},
		pl.ProfitBreakdown{Date: date(d), TotalPersonnelExpenses: dec(expenses)}
}

func TestRevenueAccumulator_TwoDayWindow(t *testing.T) {
	// GIVEN: Three days with gross profit 100, 200, 50
	acc := pl.NewRevenueAccumulator()
	inputs := [][3]string{
		{"2025-03-01", "100", "0"},
		{"2025-03-02", "200", "0"},
		{"2025-03-03", "50", "0"},
	}

	// WHEN
	var got []string
	for _, in := range inputs {
		p := acc.Add(day(in[0], in[1], in[2]))
		got = append(got, p.CumulativeGrossProfit.String())
	}

	// THEN: Each point adds only the previous day's gross profit
	assert.Equal(t, []string{"100", "300", "250"}, got)
	assert.Equal(t, 3, acc.Len())
}

func TestRevenueAccumulator_PrefixSums(t *testing.T) {
	acc := pl.NewRevenueAccumulator()
	p1 := acc.Add(day("2025-03-01", "100", "40"))
	p2 := acc.Add(day("2025-03-02", "300", "60"))
	p3 := acc.Add(day("2025-03-03", "0", "10"))

	assertDec(t, "100", p1.CumulativeAddedValue, "p1 av")
	assertDec(t, "400", p2.CumulativeAddedValue, "p2 av")
	assertDec(t, "400", p3.CumulativeAddedValue, "p3 av")
	assertDec(t, "40", p1.CumulativeExpenses, "p1 exp")
	assertDec(t, "100", p2.CumulativeExpenses, "p2 exp")
	assertDec(t, "110", p3.CumulativeExpenses, "p3 exp")

	// (400 - 100) / 400
	assertDec(t, "75", p2.CumulativeProfitRate, "p2 cumulative rate")
	// Day rate with zero added value stays zero
	assert.True(t, p3.ProfitRate.IsZero())
	assertDec(t, "-10", p3.GrossProfit, "p3 gp")
}

func TestRevenueAccumulator_DayAddedValueIncludesOtherAddedValue(t *testing.T) {
	// GIVEN: Totals in thousands with a fraction and an extra added value on the expense record
	acc := pl.NewRevenueAccumulator()
	totals := pl.DailyTotals{Date: date("2025-03-01"), TotalAddedValue: dec("12.5")}
	expense := pl.ExpenseRecord{Date: date("2025-03-01"), OtherAddedValue: dec("7")}
	breakdown := pl.ProfitBreakdown{TotalPersonnelExpenses: dec("5")}

	// WHEN
	p := acc.Add(totals, expense, breakdown)

	// THEN: round(12.5) + 7 = 20, gross profit 15, rate 75%
	assertDec(t, "20", p.AddedValue, "addedValue")
	assertDec(t, "15", p.GrossProfit, "grossProfit")
	assertDec(t, "75", p.ProfitRate, "profitRate")
	assert.Equal(t, "2025-03-01", p.Date.String())
}

func TestRevenueAccumulator_ResetStartsOver(t *testing.T) {
	acc := pl.NewRevenueAccumulator()
	acc.Add(day("2025-03-01", "100", "0"))
	acc.Add(day("2025-03-02", "100", "0"))

	acc.Reset()
	p := acc.Add(day("2025-04-01", "10", "0"))

	assertDec(t, "10", p.CumulativeAddedValue, "after reset")
	assertDec(t, "10", p.CumulativeGrossProfit, "no carried previous day")
	require.Equal(t, 1, acc.Len())
}

func TestRevenueAccumulator_IndependentInstances(t *testing.T) {
	a := pl.NewRevenueAccumulator()
	b := pl.NewRevenueAccumulator()
	a.Add(day("2025-03-01", "100", "0"))

	p := b.Add(day("2025-03-01", "5", "0"))

	assertDec(t, "5", p.CumulativeAddedValue, "b is unaffected by a")
}
