package pl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pl-engine/pl"
)

// =============================================================================
// PER-RECORD METRICS
// =============================================================================

func TestCalculateRecord_WeekdayBasicCost(t *testing.T) {
	// GIVEN: One record with an added value of 1000 and 8 regular inside hours at 100/h
	rec := pl.ProductionRecord{
		Date:               date("2025-03-03"),
		Line:               "L1",
		ModelName:          "A-100",
		AddedValueOverride: ptr(dec("1000")),
		InsideTime:         dec("8"),
	}
	rates := pl.MonthlyRates{InsideUnitRate: dec("100")}

	// WHEN: Metrics are computed
	m := pl.CalculateRecord(rec, rates, nil)

	// THEN: cost 800, gross profit 200, rate 20%
	assertDec(t, "800", m.InsideCost, "insideCost")
	assertDec(t, "800", m.TotalCost, "totalCost")
	assertDec(t, "200", m.GrossProfit, "grossProfit")
	assertDec(t, "20", m.ProfitRate, "profitRate")
	assert.Equal(t, "20.00%", m.ProfitRateLabel())
	assert.Equal(t, pl.AddedValueDirect, m.AddedValueSource)
}

func TestCalculateRecord_OvertimePremium(t *testing.T) {
	// GIVEN: 2 inside and 4 outside overtime hours
	rec := pl.ProductionRecord{
		Date:            date("2025-03-03"),
		InsideOvertime:  dec("2"),
		OutsideOvertime: dec("4"),
	}

	// WHEN
	m := pl.CalculateRecord(rec, marchRates(), nil)

	// THEN: Both are charged at 1.25x the hourly unit price, unrounded
	assertDec(t, "250", m.InsideOvertimeCost, "insideOvertimeCost")
	assertDec(t, "400", m.OutsideOvertimeCost, "outsideOvertimeCost")
	assertDec(t, "650", m.TotalCost, "totalCost")
}

func TestCalculateRecord_ZeroAddedValueHasZeroRate(t *testing.T) {
	// GIVEN: A record whose model is unknown, so added value is 0
	rec := pl.ProductionRecord{
		Date:         date("2025-03-03"),
		ModelName:    "unknown",
		ActualNumber: dec("10"),
		InsideTime:   dec("1"),
	}

	// WHEN
	m := pl.CalculateRecord(rec, marchRates(), pl.NewModelCatalog(nil))

	// THEN: Profit rate is exactly 0, never a division error
	assert.True(t, m.AddedValue.IsZero())
	assert.True(t, m.ProfitRate.IsZero())
	assert.Equal(t, "0%", m.ProfitRateLabel())
	assertDec(t, "-100", m.GrossProfit, "grossProfit")
	assert.Nil(t, m.MatchedModel)
}

func TestCalculateRecord_NegativeOverrideKeepsZeroRate(t *testing.T) {
	rec := pl.ProductionRecord{AddedValueOverride: ptr(dec("-50")), InsideTime: dec("1")}
	m := pl.CalculateRecord(rec, marchRates(), nil)

	assertDec(t, "-150", m.GrossProfit, "grossProfit")
	assert.True(t, m.ProfitRate.IsZero())
}

// =============================================================================
// MODEL CATALOG
// =============================================================================

func TestModelCatalog_MatchesNameAndCode(t *testing.T) {
	catalog := pl.NewModelCatalog([]pl.ModelMaster{
		{Name: "A-100", Code: "X", UnitAddedValue: dec("10")},
		{Name: "A-100", Code: "Y", UnitAddedValue: dec("20")},
		{Name: "B-200", Code: "", UnitAddedValue: dec("5")},
	})

	m, ok := catalog.Find("A-100", "Y")
	require.True(t, ok)
	assertDec(t, "20", m.UnitAddedValue, "unit")

	_, ok = catalog.Find("A-100", "Z")
	assert.False(t, ok, "code given but unmatched must not fall back to name")

	m, ok = catalog.Find("A-100", "")
	require.True(t, ok)
	assertDec(t, "10", m.UnitAddedValue, "first name match wins")

	assert.Equal(t, 3, catalog.Len())
}

func TestCalculateAddedValue_RoundsAfterMultiplication(t *testing.T) {
	// GIVEN: A unit value of 12.5 and 3 units
	catalog := pl.NewModelCatalog([]pl.ModelMaster{{Name: "C", UnitAddedValue: dec("12.5")}})
	rec := pl.ProductionRecord{ModelName: "C", ActualNumber: dec("3")}

	// WHEN
	av, source, matched := pl.CalculateAddedValue(rec, catalog)

	// THEN: 37.5 rounds half up to 38
	assertDec(t, "38", av, "addedValue")
	assert.Equal(t, pl.AddedValueCalculated, source)
	require.NotNil(t, matched)
	assert.Equal(t, "C", matched.Name)
}

func TestCalculateAddedValue_OverrideWinsOverCatalog(t *testing.T) {
	catalog := pl.NewModelCatalog([]pl.ModelMaster{{Name: "C", UnitAddedValue: dec("12.5")}})
	rec := pl.ProductionRecord{ModelName: "C", ActualNumber: dec("3"), AddedValueOverride: ptr(dec("0"))}

	av, source, matched := pl.CalculateAddedValue(rec, catalog)

	assert.True(t, av.IsZero(), "an explicit zero override is still an override")
	assert.Equal(t, pl.AddedValueDirect, source)
	assert.Nil(t, matched)
}

func TestCalculateRecords_PreservesOrder(t *testing.T) {
	recs := []pl.ProductionRecord{
		{Date: date("2025-03-05"), Line: "L2"},
		{Date: date("2025-03-01"), Line: "L1"},
	}
	out := pl.CalculateRecords(recs, marchRates(), nil)
	require.Len(t, out, 2)
	assert.Equal(t, "L2", out[0].Line)
	assert.Equal(t, "L1", out[1].Line)
}
