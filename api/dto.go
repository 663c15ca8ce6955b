/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the pl domain types from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

NUMBERS:
  Every amount is a decimal.Decimal and is encoded as a JSON string
  ("1234.5"), so clients never see float rounding.

TYPES:
  Dashboard:
    DashboardResponse, RecordDTO, DailyTotalsDTO, DailyProfitDTO,
    RevenuePointDTO, SummaryDTO, IssueDTO

  Master data:
    RatesDTO, HolidayDTO, CreateHolidayRequest

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

SEE ALSO:
  - handlers.go: Uses these types
  - factory/dataset.go: Import document (DatasetJSON)
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/pl-engine/factory"
	"github.com/warp/pl-engine/pl"
)

// =============================================================================
// DASHBOARD
// =============================================================================

// RecordDTO is one production record with its computed metrics.
type RecordDTO struct {
	Date             string          `json:"date"`
	Line             string          `json:"line"`
	ModelName        string          `json:"model_name"`
	ModelCode        string          `json:"model_code,omitempty"`
	ActualNumber     decimal.Decimal `json:"actual_number"`
	AddedValue       decimal.Decimal `json:"added_value"`
	AddedValueSource string          `json:"added_value_source"`
	ModelMatched     bool            `json:"model_matched"`

	InsideCost          decimal.Decimal `json:"inside_cost"`
	OutsideCost         decimal.Decimal `json:"outside_cost"`
	InsideOvertimeCost  decimal.Decimal `json:"inside_overtime_cost"`
	OutsideOvertimeCost decimal.Decimal `json:"outside_overtime_cost"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	GrossProfit         decimal.Decimal `json:"gross_profit"`
	ProfitRate          string          `json:"profit_rate"`
}

// DailyTotalsDTO is the per-date production aggregate, amounts in thousands.
type DailyTotalsDTO struct {
	Date                   string          `json:"date"`
	Label                  string          `json:"label"`
	DayKind                pl.DayKind      `json:"day_kind"`
	DayCode                int             `json:"day_code"`
	TotalActualNumber      decimal.Decimal `json:"total_actual_number"`
	TotalAddedValue        decimal.Decimal `json:"total_added_value"`
	TotalCost              decimal.Decimal `json:"total_cost"`
	TotalGrossProfit       decimal.Decimal `json:"total_gross_profit"`
	ProfitRate             decimal.Decimal `json:"profit_rate"`
	InsideOvertime         decimal.Decimal `json:"inside_overtime"`
	OutsideOvertime        decimal.Decimal `json:"outside_overtime"`
	InsideHolidayOvertime  decimal.Decimal `json:"inside_holiday_overtime"`
	OutsideHolidayOvertime decimal.Decimal `json:"outside_holiday_overtime"`
}

// DailyProfitDTO is one row of the daily profit table.
type DailyProfitDTO struct {
	Date      string     `json:"date"`
	DayKind   pl.DayKind `json:"day_kind"`
	HasRecord bool       `json:"has_expense_record"`

	DirectCost   decimal.Decimal `json:"direct_cost"`
	DispatchCost decimal.Decimal `json:"dispatch_cost"`
	IndirectCost decimal.Decimal `json:"indirect_cost"`

	DirectOvertimeAndHolidayCost   decimal.Decimal `json:"direct_overtime_and_holiday_cost"`
	DispatchOvertimeAndHolidayCost decimal.Decimal `json:"dispatch_overtime_and_holiday_cost"`
	IndirectOvertimeAndHolidayCost decimal.Decimal `json:"indirect_overtime_and_holiday_cost"`

	LaborCosts                 decimal.Decimal `json:"labor_costs"`
	IndirectMaterialCosts      decimal.Decimal `json:"indirect_material_costs"`
	OtherIndirectMaterialCosts decimal.Decimal `json:"other_indirect_material_costs"`
	NightShiftAllowance        decimal.Decimal `json:"night_shift_allowance"`
	TotalSubCost               decimal.Decimal `json:"total_sub_cost"`
	InsideOvertimeCost         decimal.Decimal `json:"inside_overtime_cost"`
	OutsideOvertimeCost        decimal.Decimal `json:"outside_overtime_cost"`
	DispatchExpenses           decimal.Decimal `json:"dispatch_expenses"`
	TotalPersonnelExpenses     decimal.Decimal `json:"total_personnel_expenses"`
}

// RevenuePointDTO is one point of the revenue analysis chart.
type RevenuePointDTO struct {
	Date                  string          `json:"date"`
	Label                 string          `json:"label"`
	AddedValue            decimal.Decimal `json:"added_value"`
	Expenses              decimal.Decimal `json:"expenses"`
	GrossProfit           decimal.Decimal `json:"gross_profit"`
	ProfitRate            decimal.Decimal `json:"profit_rate"`
	CumulativeAddedValue  decimal.Decimal `json:"cumulative_added_value"`
	CumulativeExpenses    decimal.Decimal `json:"cumulative_expenses"`
	CumulativeGrossProfit decimal.Decimal `json:"cumulative_gross_profit"`
	CumulativeProfitRate  decimal.Decimal `json:"cumulative_profit_rate"`
}

// SummaryDTO aggregates the month's records.
type SummaryDTO struct {
	TotalRecords      int             `json:"total_records"`
	LossRecords       int             `json:"loss_records"`
	TotalAddedValue   decimal.Decimal `json:"total_added_value"`
	TotalCosts        decimal.Decimal `json:"total_costs"`
	TotalGrossProfit  decimal.Decimal `json:"total_gross_profit"`
	AverageProfitRate decimal.Decimal `json:"average_profit_rate"`
	MaxProfitRate     decimal.Decimal `json:"max_profit_rate"`
	MinProfitRate     decimal.Decimal `json:"min_profit_rate"`
}

// IssueDTO is a validation finding for one record.
type IssueDTO struct {
	Date      string   `json:"date"`
	Line      string   `json:"line"`
	ModelName string   `json:"model_name"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	Anomalies []string `json:"anomalies,omitempty"`
}

// DashboardResponse is the full month view.
type DashboardResponse struct {
	Year        int               `json:"year"`
	Month       int               `json:"month"`
	Rates       RatesDTO          `json:"rates"`
	Records     []RecordDTO       `json:"records"`
	DailyTotals []DailyTotalsDTO  `json:"daily_totals"`
	Profits     []DailyProfitDTO  `json:"profits"`
	Revenue     []RevenuePointDTO `json:"revenue"`
	Summary     SummaryDTO        `json:"summary"`
	Issues      []IssueDTO        `json:"issues"`
}

// =============================================================================
// MASTER DATA
// =============================================================================

// RatesDTO is the monthly unit-price table. Fields accept numbers or strings.
type RatesDTO struct {
	Year            int            `json:"year"`
	Month           int            `json:"month"`
	InsideUnitRate  factory.Number `json:"inside_unit_rate"`
	OutsideUnitRate factory.Number `json:"outside_unit_rate"`
	DirectRate      factory.Number `json:"direct_rate"`
	DispatchRate    factory.Number `json:"dispatch_rate"`
	IndirectRate    factory.Number `json:"indirect_rate"`
}

// HolidayDTO represents a holiday master entry.
type HolidayDTO struct {
	Date    string     `json:"date"`
	Type    string     `json:"type"`
	Name    string     `json:"name,omitempty"`
	DayKind pl.DayKind `json:"day_kind"`
}

// CreateHolidayRequest is the POST /api/holidays body.
type CreateHolidayRequest struct {
	Date string `json:"date"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// ImportResponse reports what an import wrote.
type ImportResponse struct {
	Status   string `json:"status"`
	Imported any    `json:"imported"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO = factory.Scenario

// LoadScenarioRequest is the POST /api/scenarios/load body.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toRatesDTO(r pl.MonthlyRates) RatesDTO {
	return RatesDTO{
		Year:            r.Year,
		Month:           int(r.Month),
		InsideUnitRate:  factory.Num(r.InsideUnitRate),
		OutsideUnitRate: factory.Num(r.OutsideUnitRate),
		DirectRate:      factory.Num(r.DirectRate),
		DispatchRate:    factory.Num(r.DispatchRate),
		IndirectRate:    factory.Num(r.IndirectRate),
	}
}

func toRecordDTO(m pl.RecordMetrics) RecordDTO {
	return RecordDTO{
		Date:                m.Date.String(),
		Line:                m.Line,
		ModelName:           m.ModelName,
		ModelCode:           m.ModelCode,
		ActualNumber:        m.ActualNumber,
		AddedValue:          m.AddedValue,
		AddedValueSource:    string(m.AddedValueSource),
		ModelMatched:        m.MatchedModel != nil,
		InsideCost:          m.InsideCost,
		OutsideCost:         m.OutsideCost,
		InsideOvertimeCost:  m.InsideOvertimeCost,
		OutsideOvertimeCost: m.OutsideOvertimeCost,
		TotalCost:           m.TotalCost,
		GrossProfit:         m.GrossProfit,
		ProfitRate:          m.ProfitRateLabel(),
	}
}

func toDailyTotalsDTO(t pl.DailyTotals) DailyTotalsDTO {
	return DailyTotalsDTO{
		Date:                   t.Date.String(),
		Label:                  t.Date.ShortLabel(),
		DayKind:                t.DayKind,
		DayCode:                t.DayKind.Code(),
		TotalActualNumber:      t.TotalActualNumber,
		TotalAddedValue:        t.TotalAddedValue,
		TotalCost:              t.TotalCost,
		TotalGrossProfit:       t.TotalGrossProfit,
		ProfitRate:             t.ProfitRate,
		InsideOvertime:         t.InsideOvertime,
		OutsideOvertime:        t.OutsideOvertime,
		InsideHolidayOvertime:  t.InsideHolidayOvertime,
		OutsideHolidayOvertime: t.OutsideHolidayOvertime,
	}
}

func toDailyProfitDTO(p pl.DailyProfit) DailyProfitDTO {
	b, e := p.Breakdown, p.Expense
	return DailyProfitDTO{
		Date:      p.Totals.Date.String(),
		DayKind:   p.Totals.DayKind,
		HasRecord: p.HasRecord,

		DirectCost:   b.DirectCost,
		DispatchCost: b.DispatchCost,
		IndirectCost: b.IndirectCost,

		DirectOvertimeAndHolidayCost:   b.DirectOvertimeAndHolidayCost,
		DispatchOvertimeAndHolidayCost: b.DispatchOvertimeAndHolidayCost,
		IndirectOvertimeAndHolidayCost: b.IndirectOvertimeAndHolidayCost,

		LaborCosts:                 e.LaborCosts,
		IndirectMaterialCosts:      e.IndirectMaterialCosts,
		OtherIndirectMaterialCosts: b.OtherIndirectMaterialCosts,
		NightShiftAllowance:        e.NightShiftAllowance,
		TotalSubCost:               e.TotalSubCost,
		InsideOvertimeCost:         e.InsideOvertimeCost,
		OutsideOvertimeCost:        e.OutsideOvertimeCost,
		DispatchExpenses:           b.DispatchExpenses,
		TotalPersonnelExpenses:     b.TotalPersonnelExpenses,
	}
}

func toRevenuePointDTO(p pl.RevenueAnalysisPoint) RevenuePointDTO {
	return RevenuePointDTO{
		Date:                  p.Date.String(),
		Label:                 p.Date.ShortLabel(),
		AddedValue:            p.AddedValue,
		Expenses:              p.Expenses,
		GrossProfit:           p.GrossProfit,
		ProfitRate:            p.ProfitRate.Round(2),
		CumulativeAddedValue:  p.CumulativeAddedValue,
		CumulativeExpenses:    p.CumulativeExpenses,
		CumulativeGrossProfit: p.CumulativeGrossProfit,
		CumulativeProfitRate:  p.CumulativeProfitRate.Round(2),
	}
}

func toRevenueDTOs(points []pl.RevenueAnalysisPoint) []RevenuePointDTO {
	out := make([]RevenuePointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, toRevenuePointDTO(p))
	}
	return out
}

func toDashboardResponse(year, month int, rates pl.MonthlyRates, res *pl.Result) DashboardResponse {
	resp := DashboardResponse{
		Year:        year,
		Month:       month,
		Rates:       toRatesDTO(rates),
		Records:     make([]RecordDTO, 0, len(res.Records)),
		DailyTotals: make([]DailyTotalsDTO, 0, len(res.DailyTotals)),
		Profits:     make([]DailyProfitDTO, 0, len(res.Profits)),
		Revenue:     toRevenueDTOs(res.Revenue),
		Issues:      make([]IssueDTO, 0, len(res.Issues)),
		Summary: SummaryDTO{
			TotalRecords:      res.Summary.TotalRecords,
			LossRecords:       res.Summary.LossRecords,
			TotalAddedValue:   res.Summary.TotalAddedValue,
			TotalCosts:        res.Summary.TotalCosts,
			TotalGrossProfit:  res.Summary.TotalGrossProfit,
			AverageProfitRate: res.Summary.AverageProfitRate.Round(2),
			MaxProfitRate:     res.Summary.MaxProfitRate.Round(2),
			MinProfitRate:     res.Summary.MinProfitRate.Round(2),
		},
	}
	for _, m := range res.Records {
		resp.Records = append(resp.Records, toRecordDTO(m))
	}
	for _, t := range res.DailyTotals {
		resp.DailyTotals = append(resp.DailyTotals, toDailyTotalsDTO(t))
	}
	for _, p := range res.Profits {
		resp.Profits = append(resp.Profits, toDailyProfitDTO(p))
	}
	for _, i := range res.Issues {
		resp.Issues = append(resp.Issues, IssueDTO{
			Date:      i.Date.String(),
			Line:      i.Line,
			ModelName: i.ModelName,
			Errors:    i.Errors,
			Warnings:  i.Warnings,
			Anomalies: i.Anomalies,
		})
	}
	return resp
}
