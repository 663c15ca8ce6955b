// Package pl implements the profit-and-loss aggregation pipeline behind the
// production dashboard: per-record business metrics, calendar-aware daily
// totals, the daily personnel-cost breakdown and the cumulative revenue
// analysis series. Everything in this package is pure and synchronous; inputs
// are fetched beforehand by a Source.
package pl

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/pl-engine/generic"
)

// =============================================================================
// MASTER DATA
// =============================================================================

// MonthlyRates holds the unit prices for one (year, month).
type MonthlyRates struct {
	Year  int
	Month time.Month

	InsideUnitRate  decimal.Decimal // employee hourly unit price
	OutsideUnitRate decimal.Decimal // dispatch hourly unit price
	DirectRate      decimal.Decimal
	DispatchRate    decimal.Decimal
	IndirectRate    decimal.Decimal
}

// ModelMaster maps a product model to its per-unit added value.
type ModelMaster struct {
	Name           string
	Code           string
	UnitAddedValue decimal.Decimal
}

// =============================================================================
// RECORDS
// =============================================================================

// ExpenseRecord is the single per-date expense entry. The zero value stands
// for a missing record and contributes nothing.
type ExpenseRecord struct {
	Date generic.TimePoint

	DirectPersonnel    decimal.Decimal
	TemporaryEmployees decimal.Decimal
	IndirectPersonnel  decimal.Decimal

	LaborCosts                 decimal.Decimal
	IndirectMaterialCosts      decimal.Decimal
	OtherIndirectMaterialCosts decimal.Decimal
	NightShiftAllowance        decimal.Decimal
	TotalSubCost               decimal.Decimal
	InsideOvertimeCost         decimal.Decimal
	OutsideOvertimeCost        decimal.Decimal
	InsideHolidayExpenses      decimal.Decimal
	OutsideHolidayExpenses     decimal.Decimal

	IndirectOvertimeHours    decimal.Decimal
	IndirectHolidayWorkHours decimal.Decimal

	OtherAddedValue decimal.Decimal
}

// ProductionRecord is one line/model result for a date.
type ProductionRecord struct {
	Date      generic.TimePoint
	Line      string
	ModelName string
	ModelCode string

	ActualNumber decimal.Decimal

	// AddedValueOverride, when set, replaces the master-derived added value.
	AddedValueOverride *decimal.Decimal

	InsideTime      decimal.Decimal
	OutsideTime     decimal.Decimal
	InsideOvertime  decimal.Decimal
	OutsideOvertime decimal.Decimal
}

// =============================================================================
// DERIVED
// =============================================================================

type AddedValueSource string

const (
	AddedValueDirect     AddedValueSource = "direct"
	AddedValueCalculated AddedValueSource = "calculated"
)

// RecordMetrics is the per-record output of CalculateRecord.
type RecordMetrics struct {
	Date      generic.TimePoint
	Line      string
	ModelName string
	ModelCode string

	ActualNumber     decimal.Decimal
	AddedValue       decimal.Decimal
	AddedValueSource AddedValueSource
	MatchedModel     *ModelMaster

	InsideTime          decimal.Decimal
	InsideCost          decimal.Decimal
	OutsideTime         decimal.Decimal
	OutsideCost         decimal.Decimal
	InsideOvertime      decimal.Decimal
	InsideOvertimeCost  decimal.Decimal
	OutsideOvertime     decimal.Decimal
	OutsideOvertimeCost decimal.Decimal
	TotalCost           decimal.Decimal

	GrossProfit decimal.Decimal
	ProfitRate  decimal.Decimal
}

// ProfitRateLabel renders the profit rate as "12.34%", or "0%" when there is
// no positive added value.
func (m RecordMetrics) ProfitRateLabel() string {
	if !m.AddedValue.IsPositive() {
		return "0%"
	}
	return generic.FormatPercent(m.ProfitRate)
}

// DailyTotals is the per-date aggregate of RecordMetrics. Money fields are in
// thousands.
type DailyTotals struct {
	Date    generic.TimePoint
	DayKind DayKind

	TotalActualNumber decimal.Decimal
	TotalAddedValue   decimal.Decimal
	TotalCost         decimal.Decimal
	TotalGrossProfit  decimal.Decimal
	ProfitRate        decimal.Decimal

	InsideOvertime         decimal.Decimal
	OutsideOvertime        decimal.Decimal
	InsideHolidayOvertime  decimal.Decimal
	OutsideHolidayOvertime decimal.Decimal
}

// RoutedHours is the sum of all four overtime buckets.
func (t DailyTotals) RoutedHours() decimal.Decimal {
	return generic.Sum(t.InsideOvertime, t.OutsideOvertime, t.InsideHolidayOvertime, t.OutsideHolidayOvertime)
}

// RevenueAnalysisPoint is one entry of the cumulative revenue analysis series.
type RevenueAnalysisPoint struct {
	Date generic.TimePoint

	AddedValue  decimal.Decimal
	Expenses    decimal.Decimal
	GrossProfit decimal.Decimal
	ProfitRate  decimal.Decimal

	CumulativeAddedValue  decimal.Decimal
	CumulativeExpenses    decimal.Decimal
	CumulativeGrossProfit decimal.Decimal
	CumulativeProfitRate  decimal.Decimal
}
