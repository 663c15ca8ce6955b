package pl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/pl-engine/pl"
)

// =============================================================================
// DAILY PROFIT BREAKDOWN
// =============================================================================

func TestPremiumCost_RoundsAfterMultiplication(t *testing.T) {
	// GIVEN: Direct rate 3000 and 10 weekday overtime hours
	// WHEN: The premium is priced
	p := pl.PremiumCost(dec("3000"), dec("10"), dec("0"))

	// THEN: unit 3.75, cost round(37.5) = 38, not 10 x round(3.75) = 40
	assertDec(t, "3.75", p.OvertimeUnit, "overtimeUnit")
	assertDec(t, "4.05", p.HolidayUnit, "holidayUnit")
	assertDec(t, "38", p.OvertimeCost, "overtimeCost")
	assertDec(t, "0", p.HolidayCost, "holidayCost")
	assertDec(t, "38", p.Total, "total")
}

func profitFixture() (pl.DailyTotals, pl.ExpenseRecord) {
	totals := pl.DailyTotals{
		Date:                  date("2025-03-03"),
		InsideOvertime:        dec("10"),
		InsideHolidayOvertime: dec("4"),
		OutsideOvertime:       dec("3"),
	}
	expense := pl.ExpenseRecord{
		Date:                       date("2025-03-03"),
		DirectPersonnel:            dec("2"),
		TemporaryEmployees:         dec("1"),
		IndirectPersonnel:          dec("3"),
		LaborCosts:                 dec("1000"),
		IndirectMaterialCosts:      dec("200"),
		OtherIndirectMaterialCosts: dec("50.5"),
		NightShiftAllowance:        dec("30"),
		TotalSubCost:               dec("40"),
		InsideOvertimeCost:         dec("60"),
		OutsideOvertimeCost:        dec("70"),
		OutsideHolidayExpenses:     dec("25"),
		IndirectOvertimeHours:      dec("2"),
		IndirectHolidayWorkHours:   dec("1"),
	}
	return totals, expense
}

func TestCalculateDailyProfit_Breakdown(t *testing.T) {
	// GIVEN: A weekday with direct, dispatch and indirect premium hours
	totals, expense := profitFixture()

	// WHEN
	b := pl.CalculateDailyProfit(totals, expense, marchRates())

	// THEN: Each category is priced independently
	assertDec(t, "38", b.Direct.OvertimeCost, "direct overtime")
	assertDec(t, "16", b.Direct.HolidayCost, "direct holiday")
	assertDec(t, "54", b.DirectOvertimeAndHolidayCost, "direct total")
	assertDec(t, "8", b.DispatchOvertimeAndHolidayCost, "dispatch total")
	assertDec(t, "6", b.Indirect.OvertimeCost, "indirect overtime")
	assertDec(t, "3", b.Indirect.HolidayCost, "indirect holiday")
	assertDec(t, "9", b.IndirectOvertimeAndHolidayCost, "indirect total")

	// Headcount costs are reported only
	assertDec(t, "6000", b.DirectCost, "directCost")
	assertDec(t, "2000", b.DispatchCost, "dispatchCost")
	assertDec(t, "7500", b.IndirectCost, "indirectCost")

	assertDec(t, "51", b.OtherIndirectMaterialCosts, "otherIndirect")
	assertDec(t, "95", b.DispatchExpenses, "dispatchExpenses")
}

func TestCalculateDailyProfit_TotalPersonnelExpenses(t *testing.T) {
	totals, expense := profitFixture()

	b := pl.CalculateDailyProfit(totals, expense, marchRates())

	// direct 54 + indirect 9 + 1000 + 200 + 51 + 30 + 40 + 60 + 70
	assertDec(t, "1514", b.TotalPersonnelExpenses, "total")
	assert.False(t, b.DispatchOvertimeAndHolidayCost.IsZero(), "dispatch premium is computed even though it is not summed")
}

func TestCalculateDailyProfit_MissingExpenseIsZero(t *testing.T) {
	// GIVEN: No expense record and no premium hours
	totals := pl.DailyTotals{Date: date("2025-03-03")}

	// WHEN
	b := pl.CalculateDailyProfit(totals, pl.ExpenseRecord{}, marchRates())

	// THEN
	assert.True(t, b.TotalPersonnelExpenses.IsZero())
	assert.True(t, b.DirectCost.IsZero())
	assert.Equal(t, "2025-03-03", b.Date.String())
}

func TestCalculateDailyProfit_ZeroRatesZeroPremiums(t *testing.T) {
	totals, expense := profitFixture()

	b := pl.CalculateDailyProfit(totals, expense, pl.MonthlyRates{})

	assert.True(t, b.DirectOvertimeAndHolidayCost.IsZero())
	assert.True(t, b.IndirectOvertimeAndHolidayCost.IsZero())
	assertDec(t, "1451", b.TotalPersonnelExpenses, "recorded expenses only")
}
