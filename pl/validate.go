package pl

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/pl-engine/generic"
)

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationResult collects the findings for one RecordMetrics.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

var (
	consistencyTolerance = generic.Dec("0.01")
	extremeProfitRate    = generic.DecInt(1000)
)

// ValidateMetrics checks a calculated record for impossible or suspicious values.
func ValidateMetrics(m RecordMetrics) ValidationResult {
	var errs, warns []string

	if m.AddedValue.IsNegative() {
		errs = append(errs, "added value is negative")
	}
	if m.TotalCost.IsNegative() {
		errs = append(errs, "total cost is negative")
	}
	if m.InsideCost.IsNegative() || m.OutsideCost.IsNegative() {
		warns = append(warns, "regular labour cost is negative")
	}
	if m.InsideOvertimeCost.IsNegative() || m.OutsideOvertimeCost.IsNegative() {
		warns = append(warns, "overtime labour cost is negative")
	}
	if m.GrossProfit.IsNegative() {
		warns = append(warns, "gross profit is negative (loss)")
	}
	if m.ProfitRate.Abs().GreaterThan(extremeProfitRate) {
		warns = append(warns, "profit rate exceeds 1000%")
	}
	if m.AddedValue.Sub(m.TotalCost).Sub(m.GrossProfit).Abs().GreaterThan(consistencyTolerance) {
		errs = append(errs, "gross profit does not equal added value minus total cost")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs, Warnings: warns}
}

// =============================================================================
// ANOMALY DETECTION
// =============================================================================

// AnomalyThresholds bounds what counts as a plausible record.
type AnomalyThresholds struct {
	MaxAddedValue decimal.Decimal
	MaxTotalCost  decimal.Decimal
	MinProfitRate decimal.Decimal
	MaxProfitRate decimal.Decimal
}

func DefaultAnomalyThresholds() AnomalyThresholds {
	return AnomalyThresholds{
		MaxAddedValue: generic.DecInt(10_000_000),
		MaxTotalCost:  generic.DecInt(5_000_000),
		MinProfitRate: generic.DecInt(-100),
		MaxProfitRate: generic.DecInt(500),
	}
}

// DetectAnomalies returns a message for every threshold m crosses.
func DetectAnomalies(m RecordMetrics, th AnomalyThresholds) []string {
	var out []string
	if m.AddedValue.GreaterThan(th.MaxAddedValue) {
		out = append(out, fmt.Sprintf("added value unusually high: %s", m.AddedValue.StringFixed(0)))
	}
	if m.TotalCost.GreaterThan(th.MaxTotalCost) {
		out = append(out, fmt.Sprintf("total cost unusually high: %s", m.TotalCost.StringFixed(0)))
	}
	if m.ProfitRate.LessThan(th.MinProfitRate) {
		out = append(out, fmt.Sprintf("profit rate unusually low: %s", m.ProfitRateLabel()))
	}
	if m.ProfitRate.GreaterThan(th.MaxProfitRate) {
		out = append(out, fmt.Sprintf("profit rate unusually high: %s", m.ProfitRateLabel()))
	}
	return out
}

// =============================================================================
// SUMMARY
// =============================================================================

// MetricsSummary aggregates a run's per-record metrics.
type MetricsSummary struct {
	TotalRecords      int
	TotalAddedValue   decimal.Decimal
	TotalCosts        decimal.Decimal
	TotalGrossProfit  decimal.Decimal
	AverageProfitRate decimal.Decimal
	MaxProfitRate     decimal.Decimal
	MinProfitRate     decimal.Decimal
	LossRecords       int
}

// Summarize totals metrics. Rate statistics are zero for an empty input.
func Summarize(metrics []RecordMetrics) MetricsSummary {
	s := MetricsSummary{TotalRecords: len(metrics)}
	if len(metrics) == 0 {
		return s
	}
	rateSum := decimal.Zero
	s.MaxProfitRate = metrics[0].ProfitRate
	s.MinProfitRate = metrics[0].ProfitRate
	for _, m := range metrics {
		s.TotalAddedValue = s.TotalAddedValue.Add(m.AddedValue)
		s.TotalCosts = s.TotalCosts.Add(m.TotalCost)
		s.TotalGrossProfit = s.TotalGrossProfit.Add(m.GrossProfit)
		rateSum = rateSum.Add(m.ProfitRate)
		s.MaxProfitRate = decimal.Max(s.MaxProfitRate, m.ProfitRate)
		s.MinProfitRate = decimal.Min(s.MinProfitRate, m.ProfitRate)
		if m.GrossProfit.IsNegative() {
			s.LossRecords++
		}
	}
	s.AverageProfitRate = rateSum.Div(generic.DecInt(int64(len(metrics))))
	return s
}
