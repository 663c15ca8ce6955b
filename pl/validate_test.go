package pl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/pl-engine/pl"
)

func TestValidateMetrics(t *testing.T) {
	t.Run("consistent record is valid", func(t *testing.T) {
		m := pl.CalculateRecord(pl.ProductionRecord{AddedValueOverride: ptr(dec("1000")), InsideTime: dec("2")}, marchRates(), nil)
		v := pl.ValidateMetrics(m)
		assert.True(t, v.Valid)
		assert.Empty(t, v.Errors)
		assert.Empty(t, v.Warnings)
	})

	t.Run("negative added value is an error", func(t *testing.T) {
		m := pl.CalculateRecord(pl.ProductionRecord{AddedValueOverride: ptr(dec("-1"))}, marchRates(), nil)
		v := pl.ValidateMetrics(m)
		assert.False(t, v.Valid)
		assert.Contains(t, v.Errors, "added value is negative")
		assert.Contains(t, v.Warnings, "gross profit is negative (loss)")
	})

	t.Run("tampered gross profit is inconsistent", func(t *testing.T) {
		m := pl.RecordMetrics{AddedValue: dec("100"), TotalCost: dec("40"), GrossProfit: dec("61")}
		v := pl.ValidateMetrics(m)
		assert.False(t, v.Valid)
		assert.Contains(t, v.Errors, "gross profit does not equal added value minus total cost")
	})
}

func TestDetectAnomalies(t *testing.T) {
	th := pl.DefaultAnomalyThresholds()

	assert.Empty(t, pl.DetectAnomalies(pl.RecordMetrics{AddedValue: dec("1000"), ProfitRate: dec("20")}, th))

	got := pl.DetectAnomalies(pl.RecordMetrics{
		AddedValue: dec("20000000"),
		TotalCost:  dec("6000000"),
		ProfitRate: dec("600"),
	}, th)
	assert.Equal(t, []string{
		"added value unusually high: 20000000",
		"total cost unusually high: 6000000",
		"profit rate unusually high: 600.00%",
	}, got)
}

func TestSummarize(t *testing.T) {
	metrics := []pl.RecordMetrics{
		{AddedValue: dec("100"), TotalCost: dec("50"), GrossProfit: dec("50"), ProfitRate: dec("50")},
		{AddedValue: dec("100"), TotalCost: dec("110"), GrossProfit: dec("-10"), ProfitRate: dec("-10")},
	}

	s := pl.Summarize(metrics)

	assert.Equal(t, 2, s.TotalRecords)
	assert.Equal(t, 1, s.LossRecords)
	assertDec(t, "200", s.TotalAddedValue, "added value")
	assertDec(t, "160", s.TotalCosts, "costs")
	assertDec(t, "40", s.TotalGrossProfit, "gross profit")
	assertDec(t, "20", s.AverageProfitRate, "average rate")
	assertDec(t, "50", s.MaxProfitRate, "max rate")
	assertDec(t, "-10", s.MinProfitRate, "min rate")

	empty := pl.Summarize(nil)
	assert.Equal(t, 0, empty.TotalRecords)
	assert.True(t, empty.AverageProfitRate.IsZero())
}
