package pl

import (
	"github.com/shopspring/decimal"
	"github.com/warp/pl-engine/generic"
)

// OvertimePremium is the fixed multiplier applied to overtime hours at the
// per-record stage, regardless of the calendar.
var OvertimePremium = generic.Dec("1.25")

// =============================================================================
// MODEL CATALOG
// =============================================================================

type modelKey struct {
	name string
	code string
}

// ModelCatalog answers per-unit added value lookups. The first entry in input
// order wins for both the (name, code) and the name-only index.
type ModelCatalog struct {
	byNameCode map[modelKey]*ModelMaster
	byName     map[string]*ModelMaster
}

func NewModelCatalog(models []ModelMaster) *ModelCatalog {
	c := &ModelCatalog{
		byNameCode: make(map[modelKey]*ModelMaster, len(models)),
		byName:     make(map[string]*ModelMaster, len(models)),
	}
	for i := range models {
		m := &models[i]
		k := modelKey{name: m.Name, code: m.Code}
		if _, ok := c.byNameCode[k]; !ok {
			c.byNameCode[k] = m
		}
		if _, ok := c.byName[m.Name]; !ok {
			c.byName[m.Name] = m
		}
	}
	return c
}

// Find matches on (name, code) when code is non-empty, otherwise on name alone.
func (c *ModelCatalog) Find(name, code string) (*ModelMaster, bool) {
	if c == nil {
		return nil, false
	}
	var m *ModelMaster
	if code != "" {
		m = c.byNameCode[modelKey{name: name, code: code}]
	} else {
		m = c.byName[name]
	}
	return m, m != nil
}

// Len returns the number of distinct (name, code) entries.
func (c *ModelCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byNameCode)
}

// =============================================================================
// PER-RECORD CALCULATION
// =============================================================================

// CalculateAddedValue returns the record's added value and how it was obtained.
// An override is used verbatim; otherwise the matched master unit value times
// the actual number, rounded. No match yields zero.
func CalculateAddedValue(rec ProductionRecord, catalog *ModelCatalog) (decimal.Decimal, AddedValueSource, *ModelMaster) {
	if rec.AddedValueOverride != nil {
		return *rec.AddedValueOverride, AddedValueDirect, nil
	}
	m, ok := catalog.Find(rec.ModelName, rec.ModelCode)
	if !ok {
		return decimal.Zero, AddedValueCalculated, nil
	}
	return generic.Round(m.UnitAddedValue.Mul(rec.ActualNumber)), AddedValueCalculated, m
}

// CalculateRecord converts one production record into business metrics.
func CalculateRecord(rec ProductionRecord, rates MonthlyRates, catalog *ModelCatalog) RecordMetrics {
	addedValue, source, matched := CalculateAddedValue(rec, catalog)

	insideCost := rec.InsideTime.Mul(rates.InsideUnitRate)
	outsideCost := rec.OutsideTime.Mul(rates.OutsideUnitRate)
	insideOvertimeCost := rec.InsideOvertime.Mul(rates.InsideUnitRate).Mul(OvertimePremium)
	outsideOvertimeCost := rec.OutsideOvertime.Mul(rates.OutsideUnitRate).Mul(OvertimePremium)
	totalCost := generic.Sum(insideCost, outsideCost, insideOvertimeCost, outsideOvertimeCost)

	grossProfit := addedValue.Sub(totalCost)
	profitRate := decimal.Zero
	if addedValue.IsPositive() {
		profitRate = generic.Percent(grossProfit, addedValue)
	}

	return RecordMetrics{
		Date:      rec.Date,
		Line:      rec.Line,
		ModelName: rec.ModelName,
		ModelCode: rec.ModelCode,

		ActualNumber:     rec.ActualNumber,
		AddedValue:       addedValue,
		AddedValueSource: source,
		MatchedModel:     matched,

		InsideTime:          rec.InsideTime,
		InsideCost:          insideCost,
		OutsideTime:         rec.OutsideTime,
		OutsideCost:         outsideCost,
		InsideOvertime:      rec.InsideOvertime,
		InsideOvertimeCost:  insideOvertimeCost,
		OutsideOvertime:     rec.OutsideOvertime,
		OutsideOvertimeCost: outsideOvertimeCost,
		TotalCost:           totalCost,

		GrossProfit: grossProfit,
		ProfitRate:  profitRate,
	}
}

// CalculateRecords applies CalculateRecord to every record, preserving order.
func CalculateRecords(recs []ProductionRecord, rates MonthlyRates, catalog *ModelCatalog) []RecordMetrics {
	out := make([]RecordMetrics, len(recs))
	for i, r := range recs {
		out[i] = CalculateRecord(r, rates, catalog)
	}
	return out
}
