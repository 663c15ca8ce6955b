package pl

import (
	"github.com/shopspring/decimal"
	"github.com/warp/pl-engine/generic"
)

// RevenueAccumulator walks dates in ascending order and emits the cumulative
// revenue analysis series. It carries state between calls, so each
// independent run needs its own instance; it is not safe for concurrent use.
//
// CumulativeGrossProfit is the current day's gross profit plus the previous
// day's only, not a running sum. Dashboards already consume it in that form.
type RevenueAccumulator struct {
	cumulativeAddedValue   decimal.Decimal
	cumulativeExpenses     decimal.Decimal
	previousDayGrossProfit decimal.Decimal
	points                 int
}

func NewRevenueAccumulator() *RevenueAccumulator {
	return &RevenueAccumulator{}
}

// Reset clears all carried state.
func (a *RevenueAccumulator) Reset() {
	*a = RevenueAccumulator{}
}

// Len returns the number of points emitted since the last reset.
func (a *RevenueAccumulator) Len() int { return a.points }

// Add folds one date into the series. Dates must arrive in ascending order;
// the accumulator does not sort or check.
func (a *RevenueAccumulator) Add(totals DailyTotals, expense ExpenseRecord, breakdown ProfitBreakdown) RevenueAnalysisPoint {
	dayAddedValue := generic.Round(totals.TotalAddedValue).Add(expense.OtherAddedValue)
	expenses := breakdown.TotalPersonnelExpenses
	dayGrossProfit := dayAddedValue.Sub(expenses)

	a.cumulativeAddedValue = a.cumulativeAddedValue.Add(dayAddedValue)
	a.cumulativeExpenses = a.cumulativeExpenses.Add(expenses)
	cumulativeGrossProfit := dayGrossProfit.Add(a.previousDayGrossProfit)
	a.previousDayGrossProfit = dayGrossProfit
	a.points++

	return RevenueAnalysisPoint{
		Date:                  totals.Date,
		AddedValue:            dayAddedValue,
		Expenses:              expenses,
		GrossProfit:           dayGrossProfit,
		ProfitRate:            generic.Percent(dayGrossProfit, dayAddedValue),
		CumulativeAddedValue:  a.cumulativeAddedValue,
		CumulativeExpenses:    a.cumulativeExpenses,
		CumulativeGrossProfit: cumulativeGrossProfit,
		CumulativeProfitRate:  generic.Percent(a.cumulativeAddedValue.Sub(a.cumulativeExpenses), a.cumulativeAddedValue),
	}
}
