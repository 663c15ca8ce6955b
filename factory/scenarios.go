package factory

import (
	"fmt"
	"time"

	"github.com/warp/pl-engine/generic"
	"github.com/warp/pl-engine/pl"
)

// =============================================================================
// DEMO SCENARIOS - Ready-made datasets for demos and integration tests
// =============================================================================

// Scenario describes a demo dataset.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
}

var scenarios = []Scenario{
	{
		ID:          "standard-month",
		Name:        "Standard Month",
		Description: "Two lines producing every weekday, full expense records, no holidays",
		Year:        2025, Month: 3,
	},
	{
		ID:          "holiday-month",
		Name:        "Holiday Work",
		Description: "Production on statutory and company holidays plus a collective leave day",
		Year:        2025, Month: 5,
	},
	{
		ID:          "loss-month",
		Name:        "Loss-Making Month",
		Description: "Unmatched models and heavy overtime pushing the month into a loss",
		Year:        2025, Month: 8,
	},
}

// Scenarios lists the available demo datasets.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// BuildScenario returns the dataset for id, or ErrUnknownScenario.
func BuildScenario(id string) (*Dataset, error) {
	switch id {
	case "standard-month":
		return standardMonth(), nil
	case "holiday-month":
		return holidayMonth(), nil
	case "loss-month":
		return lossMonth(), nil
	default:
		return nil, fmt.Errorf("%w: %q", generic.ErrUnknownScenario, id)
	}
}

func demoRates(year int, month time.Month) *pl.MonthlyRates {
	return &pl.MonthlyRates{
		Year:            year,
		Month:           month,
		InsideUnitRate:  generic.DecInt(2800),
		OutsideUnitRate: generic.DecInt(2400),
		DirectRate:      generic.DecInt(2800),
		DispatchRate:    generic.DecInt(2400),
		IndirectRate:    generic.DecInt(3200),
	}
}

func demoModels() []pl.ModelMaster {
	return []pl.ModelMaster{
		{Name: "PCB-A100", Code: "A1", UnitAddedValue: generic.DecInt(1850)},
		{Name: "PCB-A100", Code: "A2", UnitAddedValue: generic.DecInt(2100)},
		{Name: "CASE-B20", Code: "", UnitAddedValue: generic.Dec("640.5")},
	}
}

func demoExpense(d generic.TimePoint, scale int64) pl.ExpenseRecord {
	return pl.ExpenseRecord{
		Date:                       d,
		DirectPersonnel:            generic.DecInt(12),
		TemporaryEmployees:         generic.DecInt(4),
		IndirectPersonnel:          generic.DecInt(3),
		LaborCosts:                 generic.DecInt(180_000 * scale),
		IndirectMaterialCosts:      generic.DecInt(15_000),
		OtherIndirectMaterialCosts: generic.Dec("4250.5"),
		NightShiftAllowance:        generic.DecInt(6_000),
		TotalSubCost:               generic.DecInt(9_000),
		InsideOvertimeCost:         generic.DecInt(7_000 * scale),
		OutsideOvertimeCost:        generic.DecInt(3_500 * scale),
		OutsideHolidayExpenses:     generic.DecInt(0),
		IndirectOvertimeHours:      generic.DecInt(2),
		IndirectHolidayWorkHours:   generic.DecInt(0),
		OtherAddedValue:            generic.DecInt(5),
	}
}

func standardMonth() *Dataset {
	ds := &Dataset{Rates: demoRates(2025, time.March), Models: demoModels()}
	for _, d := range generic.WorkingDays(generic.MonthPeriod(2025, time.March), nil) {
		ds.Production = append(ds.Production,
			pl.ProductionRecord{
				Date: d, Line: "SMT-1", ModelName: "PCB-A100", ModelCode: "A1",
				ActualNumber: generic.DecInt(420),
				InsideTime:   generic.DecInt(64), OutsideTime: generic.DecInt(16),
				InsideOvertime: generic.DecInt(6), OutsideOvertime: generic.DecInt(2),
			},
			pl.ProductionRecord{
				Date: d, Line: "ASSY-2", ModelName: "CASE-B20",
				ActualNumber: generic.DecInt(900),
				InsideTime:   generic.DecInt(48), OutsideTime: generic.DecInt(24),
			},
		)
		ds.Expenses = append(ds.Expenses, demoExpense(d, 1))
	}
	return ds
}

func holidayMonth() *Dataset {
	ds := &Dataset{Rates: demoRates(2025, time.May), Models: demoModels()}
	ds.Holidays = []pl.HolidayEntry{
		{Date: generic.NewTimePoint(2025, time.May, 3), Type: pl.HolidayLegal, Name: "Constitution Day"},
		{Date: generic.NewTimePoint(2025, time.May, 5), Type: pl.HolidayLegal, Name: "Children's Day"},
		{Date: generic.NewTimePoint(2025, time.May, 10), Type: pl.HolidayScheduled, Name: "Company holiday"},
		{Date: generic.NewTimePoint(2025, time.May, 2), Type: pl.HolidayCollectiveLeave, Name: "Golden Week leave"},
	}
	for _, d := range generic.MonthDates(2025, time.May) {
		if d.Weekday() == time.Sunday {
			continue
		}
		ds.Production = append(ds.Production, pl.ProductionRecord{
			Date: d, Line: "SMT-1", ModelName: "PCB-A100", ModelCode: "A2",
			ActualNumber: generic.DecInt(300),
			InsideTime:   generic.DecInt(56), OutsideTime: generic.DecInt(8),
			InsideOvertime: generic.DecInt(4), OutsideOvertime: generic.DecInt(1),
		})
		ds.Expenses = append(ds.Expenses, demoExpense(d, 1))
	}
	return ds
}

func lossMonth() *Dataset {
	ds := &Dataset{Rates: demoRates(2025, time.August), Models: demoModels()}
	ds.Holidays = []pl.HolidayEntry{
		{Date: generic.NewTimePoint(2025, time.August, 11), Type: pl.HolidayLegal, Name: "Mountain Day"},
	}
	cal := pl.NewCalendar(ds.Holidays)
	override := generic.DecInt(50_000)
	for i, d := range generic.WorkingDays(generic.MonthPeriod(2025, time.August), cal.IsHoliday) {
		rec := pl.ProductionRecord{
			Date: d, Line: "SMT-1", ModelName: "PCB-X900", ModelCode: "X9",
			ActualNumber: generic.DecInt(150),
			InsideTime:   generic.DecInt(64), OutsideTime: generic.DecInt(32),
			InsideOvertime: generic.DecInt(16), OutsideOvertime: generic.DecInt(12),
		}
		if i%5 == 0 {
			v := override
			rec.AddedValueOverride = &v
		}
		ds.Production = append(ds.Production, rec)
		ds.Expenses = append(ds.Expenses, demoExpense(d, 2))
	}
	return ds
}
