/*
Package factory converts JSON datasets into pl records.

PURPOSE:
  Master data and daily records arrive as JSON exported from the
  spreadsheet-style input forms: numbers may be JSON numbers, numeric
  strings or blank strings. The factory coerces them the same way the
  dashboard always has (blank or invalid -> 0) so the calculation layer
  only ever sees decimals.

JSON SCHEMA:
  {
    "rates":      {"year": 2025, "month": 3, "inside_unit_rate": 3000, ...},
    "models":     [{"name": "A-100", "code": "X", "unit_added_value": "1500"}],
    "holidays":   [{"date": "2025-03-20", "type": "legal", "name": "Equinox"}],
    "expenses":   [{"date": "2025-03-03", "labor_costs": 12000, ...}],
    "production": [{"date": "2025-03-03", "line": "L1", "model_name": "A-100",
                    "actual_number": 40, "added_value": "", "inside_time": 8}]
  }

  An empty or absent "added_value" means "derive from the model master";
  any other value, including 0, overrides it.

SEE ALSO:
  - pl/types.go: record definitions
  - store/sqlite: ImportDataset persists a parsed Dataset
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/pl-engine/generic"
	"github.com/warp/pl-engine/pl"
)

// =============================================================================
// LENIENT NUMBERS
// =============================================================================

// Number decodes a JSON number, a numeric string, a blank string or null.
// Anything that is not a valid number decodes to zero.
type Number struct {
	decimal.Decimal
	// Set is false when the input was null, absent or blank.
	Set bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == "" {
		*n = Number{}
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = Number{}
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	if raw == "" {
		*n = Number{}
		return nil
	}
	*n = Number{Decimal: generic.DecimalOrZero(raw), Set: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return n.Decimal.MarshalJSON()
}

// Num wraps a decimal as a set Number.
func Num(d decimal.Decimal) Number { return Number{Decimal: d, Set: true} }

// Optional returns nil for an unset Number.
func (n Number) Optional() *decimal.Decimal {
	if !n.Set {
		return nil
	}
	d := n.Decimal
	return &d
}

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type RatesJSON struct {
	Year            int    `json:"year"`
	Month           int    `json:"month"`
	InsideUnitRate  Number `json:"inside_unit_rate"`
	OutsideUnitRate Number `json:"outside_unit_rate"`
	DirectRate      Number `json:"direct_rate"`
	DispatchRate    Number `json:"dispatch_rate"`
	IndirectRate    Number `json:"indirect_rate"`
}

type ModelJSON struct {
	Name           string `json:"name"`
	Code           string `json:"code,omitempty"`
	UnitAddedValue Number `json:"unit_added_value"`
}

type HolidayJSON struct {
	Date string `json:"date"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type ExpenseJSON struct {
	Date string `json:"date"`

	DirectPersonnel    Number `json:"direct_personnel"`
	TemporaryEmployees Number `json:"temporary_employees"`
	IndirectPersonnel  Number `json:"indirect_personnel"`

	LaborCosts                 Number `json:"labor_costs"`
	IndirectMaterialCosts      Number `json:"indirect_material_costs"`
	OtherIndirectMaterialCosts Number `json:"other_indirect_material_costs"`
	NightShiftAllowance        Number `json:"night_shift_allowance"`
	TotalSubCost               Number `json:"total_sub_cost"`
	InsideOvertimeCost         Number `json:"inside_overtime_cost"`
	OutsideOvertimeCost        Number `json:"outside_overtime_cost"`
	InsideHolidayExpenses      Number `json:"inside_holiday_expenses"`
	OutsideHolidayExpenses     Number `json:"outside_holiday_expenses"`

	IndirectOvertimeHours    Number `json:"indirect_overtime_hours"`
	IndirectHolidayWorkHours Number `json:"indirect_holiday_work_hours"`

	OtherAddedValue Number `json:"other_added_value"`
}

type ProductionJSON struct {
	Date            string `json:"date"`
	Line            string `json:"line"`
	ModelName       string `json:"model_name"`
	ModelCode       string `json:"model_code,omitempty"`
	ActualNumber    Number `json:"actual_number"`
	AddedValue      Number `json:"added_value"`
	InsideTime      Number `json:"inside_time"`
	OutsideTime     Number `json:"outside_time"`
	InsideOvertime  Number `json:"inside_overtime"`
	OutsideOvertime Number `json:"outside_overtime"`
}

// DatasetJSON is the import/export document.
type DatasetJSON struct {
	Rates      *RatesJSON       `json:"rates,omitempty"`
	Models     []ModelJSON      `json:"models,omitempty"`
	Holidays   []HolidayJSON    `json:"holidays,omitempty"`
	Expenses   []ExpenseJSON    `json:"expenses,omitempty"`
	Production []ProductionJSON `json:"production,omitempty"`
}

// Dataset is a parsed DatasetJSON.
type Dataset struct {
	Rates      *pl.MonthlyRates
	Models     []pl.ModelMaster
	Holidays   []pl.HolidayEntry
	Expenses   []pl.ExpenseRecord
	Production []pl.ProductionRecord
}

// =============================================================================
// PARSING
// =============================================================================

// ParseDataset decodes a dataset document. Malformed JSON, a bad date or an
// out-of-range rates month yields an error wrapping generic.ErrInvalidDataset.
func ParseDataset(data []byte) (*Dataset, error) {
	var dj DatasetJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&dj); err != nil {
		return nil, fmt.Errorf("%w: %v", generic.ErrInvalidDataset, err)
	}
	return FromJSON(dj)
}

// FromJSON converts an already decoded document.
func FromJSON(dj DatasetJSON) (*Dataset, error) {
	ds := &Dataset{}

	if dj.Rates != nil {
		r, err := parseRates(*dj.Rates)
		if err != nil {
			return nil, err
		}
		ds.Rates = &r
	}

	for _, m := range dj.Models {
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("%w: model without a name", generic.ErrInvalidDataset)
		}
		ds.Models = append(ds.Models, pl.ModelMaster{
			Name:           strings.TrimSpace(m.Name),
			Code:           strings.TrimSpace(m.Code),
			UnitAddedValue: m.UnitAddedValue.Decimal,
		})
	}

	for i, h := range dj.Holidays {
		d, err := parseDate("holidays", i, h.Date)
		if err != nil {
			return nil, err
		}
		ds.Holidays = append(ds.Holidays, pl.HolidayEntry{Date: d, Type: pl.ParseHolidayType(h.Type), Name: h.Name})
	}

	for i, e := range dj.Expenses {
		d, err := parseDate("expenses", i, e.Date)
		if err != nil {
			return nil, err
		}
		ds.Expenses = append(ds.Expenses, expenseFromJSON(d, e))
	}

	for i, p := range dj.Production {
		d, err := parseDate("production", i, p.Date)
		if err != nil {
			return nil, err
		}
		ds.Production = append(ds.Production, pl.ProductionRecord{
			Date:               d,
			Line:               p.Line,
			ModelName:          strings.TrimSpace(p.ModelName),
			ModelCode:          strings.TrimSpace(p.ModelCode),
			ActualNumber:       p.ActualNumber.Decimal,
			AddedValueOverride: p.AddedValue.Optional(),
			InsideTime:         p.InsideTime.Decimal,
			OutsideTime:        p.OutsideTime.Decimal,
			InsideOvertime:     p.InsideOvertime.Decimal,
			OutsideOvertime:    p.OutsideOvertime.Decimal,
		})
	}

	return ds, nil
}

// Input turns the dataset into a pipeline input over the given dates. Zero
// rates are used when the dataset carries none.
func (ds *Dataset) Input(dates []generic.TimePoint) pl.Input {
	in := pl.Input{
		Expenses:   ds.Expenses,
		Production: ds.Production,
		Holidays:   ds.Holidays,
		Models:     ds.Models,
		Dates:      dates,
	}
	if ds.Rates != nil {
		in.Rates = *ds.Rates
	}
	return in
}

func parseRates(rj RatesJSON) (pl.MonthlyRates, error) {
	if rj.Month < 1 || rj.Month > 12 {
		return pl.MonthlyRates{}, fmt.Errorf("%w: rates month %d", generic.ErrInvalidDataset, rj.Month)
	}
	return pl.MonthlyRates{
		Year:            rj.Year,
		Month:           time.Month(rj.Month),
		InsideUnitRate:  rj.InsideUnitRate.Decimal,
		OutsideUnitRate: rj.OutsideUnitRate.Decimal,
		DirectRate:      rj.DirectRate.Decimal,
		DispatchRate:    rj.DispatchRate.Decimal,
		IndirectRate:    rj.IndirectRate.Decimal,
	}, nil
}

func parseDate(section string, i int, s string) (generic.TimePoint, error) {
	d, err := generic.ParseDate(s)
	if err != nil {
		return generic.TimePoint{}, fmt.Errorf("%w: %s[%d]: %w", generic.ErrInvalidDataset, section, i, err)
	}
	return d, nil
}

func expenseFromJSON(d generic.TimePoint, e ExpenseJSON) pl.ExpenseRecord {
	return pl.ExpenseRecord{
		Date: d,

		DirectPersonnel:    e.DirectPersonnel.Decimal,
		TemporaryEmployees: e.TemporaryEmployees.Decimal,
		IndirectPersonnel:  e.IndirectPersonnel.Decimal,

		LaborCosts:                 e.LaborCosts.Decimal,
		IndirectMaterialCosts:      e.IndirectMaterialCosts.Decimal,
		OtherIndirectMaterialCosts: e.OtherIndirectMaterialCosts.Decimal,
		NightShiftAllowance:        e.NightShiftAllowance.Decimal,
		TotalSubCost:               e.TotalSubCost.Decimal,
		InsideOvertimeCost:         e.InsideOvertimeCost.Decimal,
		OutsideOvertimeCost:        e.OutsideOvertimeCost.Decimal,
		InsideHolidayExpenses:      e.InsideHolidayExpenses.Decimal,
		OutsideHolidayExpenses:     e.OutsideHolidayExpenses.Decimal,

		IndirectOvertimeHours:    e.IndirectOvertimeHours.Decimal,
		IndirectHolidayWorkHours: e.IndirectHolidayWorkHours.Decimal,

		OtherAddedValue: e.OtherAddedValue.Decimal,
	}
}

// ImportResult counts what a store wrote for a dataset.
type ImportResult struct {
	Rates      int `json:"rates"`
	Models     int `json:"models"`
	Holidays   int `json:"holidays"`
	Expenses   int `json:"expenses"`
	Production int `json:"production"`
}

// =============================================================================
// EXPORT
// =============================================================================

// ToJSON is the inverse of FromJSON. GET /api/scenarios/{id}/export serves it.
func (ds *Dataset) ToJSON() DatasetJSON {
	var dj DatasetJSON
	if ds.Rates != nil {
		r := ds.Rates
		dj.Rates = &RatesJSON{
			Year:            r.Year,
			Month:           int(r.Month),
			InsideUnitRate:  Num(r.InsideUnitRate),
			OutsideUnitRate: Num(r.OutsideUnitRate),
			DirectRate:      Num(r.DirectRate),
			DispatchRate:    Num(r.DispatchRate),
			IndirectRate:    Num(r.IndirectRate),
		}
	}
	for _, m := range ds.Models {
		dj.Models = append(dj.Models, ModelJSON{Name: m.Name, Code: m.Code, UnitAddedValue: Num(m.UnitAddedValue)})
	}
	for _, h := range ds.Holidays {
		dj.Holidays = append(dj.Holidays, HolidayJSON{Date: h.Date.String(), Type: string(h.Type), Name: h.Name})
	}
	for _, e := range ds.Expenses {
		dj.Expenses = append(dj.Expenses, ExpenseJSON{
			Date:                       e.Date.String(),
			DirectPersonnel:            Num(e.DirectPersonnel),
			TemporaryEmployees:         Num(e.TemporaryEmployees),
			IndirectPersonnel:          Num(e.IndirectPersonnel),
			LaborCosts:                 Num(e.LaborCosts),
			IndirectMaterialCosts:      Num(e.IndirectMaterialCosts),
			OtherIndirectMaterialCosts: Num(e.OtherIndirectMaterialCosts),
			NightShiftAllowance:        Num(e.NightShiftAllowance),
			TotalSubCost:               Num(e.TotalSubCost),
			InsideOvertimeCost:         Num(e.InsideOvertimeCost),
			OutsideOvertimeCost:        Num(e.OutsideOvertimeCost),
			InsideHolidayExpenses:      Num(e.InsideHolidayExpenses),
			OutsideHolidayExpenses:     Num(e.OutsideHolidayExpenses),
			IndirectOvertimeHours:      Num(e.IndirectOvertimeHours),
			IndirectHolidayWorkHours:   Num(e.IndirectHolidayWorkHours),
			OtherAddedValue:            Num(e.OtherAddedValue),
		})
	}
	for _, p := range ds.Production {
		pj := ProductionJSON{
			Date:            p.Date.String(),
			Line:            p.Line,
			ModelName:       p.ModelName,
			ModelCode:       p.ModelCode,
			ActualNumber:    Num(p.ActualNumber),
			InsideTime:      Num(p.InsideTime),
			OutsideTime:     Num(p.OutsideTime),
			InsideOvertime:  Num(p.InsideOvertime),
			OutsideOvertime: Num(p.OutsideOvertime),
		}
		if p.AddedValueOverride != nil {
			pj.AddedValue = Num(*p.AddedValueOverride)
		}
		dj.Production = append(dj.Production, pj)
	}
	return dj
}
