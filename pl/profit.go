package pl

import (
	"github.com/shopspring/decimal"
	"github.com/warp/pl-engine/generic"
)

// Premium multipliers applied to a category's monthly rate.
var (
	OvertimeMultiplier = generic.Dec("1.25")
	HolidayMultiplier  = generic.Dec("1.35")
)

// PremiumBreakdown is the overtime/holiday cost of one personnel category.
type PremiumBreakdown struct {
	OvertimeHours decimal.Decimal
	HolidayHours  decimal.Decimal
	OvertimeUnit  decimal.Decimal
	HolidayUnit   decimal.Decimal
	OvertimeCost  decimal.Decimal
	HolidayCost   decimal.Decimal
	Total         decimal.Decimal
}

// PremiumCost prices overtime and holiday hours against a monthly rate.
// Each cost is rounded after the hours are multiplied by the unit.
func PremiumCost(rate, overtimeHours, holidayHours decimal.Decimal) PremiumBreakdown {
	overtimeUnit := generic.PerThousand(rate.Mul(OvertimeMultiplier))
	holidayUnit := generic.PerThousand(rate.Mul(HolidayMultiplier))
	overtimeCost := generic.Round(overtimeHours.Mul(overtimeUnit))
	holidayCost := generic.Round(holidayHours.Mul(holidayUnit))
	return PremiumBreakdown{
		OvertimeHours: overtimeHours,
		HolidayHours:  holidayHours,
		OvertimeUnit:  overtimeUnit,
		HolidayUnit:   holidayUnit,
		OvertimeCost:  overtimeCost,
		HolidayCost:   holidayCost,
		Total:         overtimeCost.Add(holidayCost),
	}
}

// ProfitBreakdown is the personnel-cost breakdown for one date.
type ProfitBreakdown struct {
	Date generic.TimePoint

	DirectCost   decimal.Decimal
	DispatchCost decimal.Decimal
	IndirectCost decimal.Decimal

	Direct   PremiumBreakdown
	Dispatch PremiumBreakdown
	Indirect PremiumBreakdown

	DirectOvertimeAndHolidayCost   decimal.Decimal
	DispatchOvertimeAndHolidayCost decimal.Decimal
	IndirectOvertimeAndHolidayCost decimal.Decimal

	// DispatchExpenses is the recorded dispatch overtime plus dispatch holiday
	// expenses, shown as its own column.
	DispatchExpenses decimal.Decimal

	OtherIndirectMaterialCosts decimal.Decimal
	TotalPersonnelExpenses     decimal.Decimal
}

// CalculateDailyProfit combines a date's totals, its expense record (zero
// value when absent) and the month's rates.
//
// DispatchOvertimeAndHolidayCost is reported but not part of
// TotalPersonnelExpenses; the dashboard has always omitted it and the
// omission awaits product-owner confirmation.
func CalculateDailyProfit(totals DailyTotals, expense ExpenseRecord, rates MonthlyRates) ProfitBreakdown {
	direct := PremiumCost(rates.DirectRate, totals.InsideOvertime, totals.InsideHolidayOvertime)
	dispatch := PremiumCost(rates.DispatchRate, totals.OutsideOvertime, totals.OutsideHolidayOvertime)
	indirect := PremiumCost(rates.IndirectRate, expense.IndirectOvertimeHours, expense.IndirectHolidayWorkHours)

	otherIndirect := generic.Round(expense.OtherIndirectMaterialCosts)

	total := generic.Sum(
		direct.Total,
		indirect.Total,
		expense.LaborCosts,
		expense.IndirectMaterialCosts,
		otherIndirect,
		expense.NightShiftAllowance,
		expense.TotalSubCost,
		expense.InsideOvertimeCost,
		expense.OutsideOvertimeCost,
	)

	return ProfitBreakdown{
		Date: totals.Date,

		DirectCost:   generic.Round(rates.DirectRate.Mul(expense.DirectPersonnel)),
		DispatchCost: generic.Round(rates.DispatchRate.Mul(expense.TemporaryEmployees)),
		IndirectCost: generic.Round(rates.IndirectRate.Mul(expense.IndirectPersonnel)),

		Direct:   direct,
		Dispatch: dispatch,
		Indirect: indirect,

		DirectOvertimeAndHolidayCost:   direct.Total,
		DispatchOvertimeAndHolidayCost: dispatch.Total,
		IndirectOvertimeAndHolidayCost: indirect.Total,

		DispatchExpenses: expense.OutsideOvertimeCost.Add(expense.OutsideHolidayExpenses),

		OtherIndirectMaterialCosts: otherIndirect,
		TotalPersonnelExpenses:     total,
	}
}
