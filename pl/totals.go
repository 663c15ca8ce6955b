package pl

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/pl-engine/generic"
)

// AggregateDay sums the metrics dated on date. Added value, cost and gross
// profit are reported in thousands; overtime hours are routed by kind:
//
//	Weekday           overtime only        -> ordinary overtime buckets
//	StatutoryHoliday  regular + overtime   -> holiday overtime buckets
//	ScheduledHoliday  regular + overtime   -> ordinary overtime buckets
func AggregateDay(date generic.TimePoint, kind DayKind, metrics []RecordMetrics) DailyTotals {
	t := DailyTotals{Date: date, DayKind: kind}

	addedValue, cost, grossProfit := decimal.Zero, decimal.Zero, decimal.Zero
	for _, m := range metrics {
		if !m.Date.Equal(date) {
			continue
		}
		t.TotalActualNumber = t.TotalActualNumber.Add(m.ActualNumber)
		addedValue = addedValue.Add(m.AddedValue)
		cost = cost.Add(m.TotalCost)
		grossProfit = grossProfit.Add(m.GrossProfit)

		switch kind {
		case Weekday:
			t.InsideOvertime = t.InsideOvertime.Add(m.InsideOvertime)
			t.OutsideOvertime = t.OutsideOvertime.Add(m.OutsideOvertime)
		case StatutoryHoliday:
			t.InsideHolidayOvertime = t.InsideHolidayOvertime.Add(m.InsideTime).Add(m.InsideOvertime)
			t.OutsideHolidayOvertime = t.OutsideHolidayOvertime.Add(m.OutsideTime).Add(m.OutsideOvertime)
		case ScheduledHoliday:
			t.InsideOvertime = t.InsideOvertime.Add(m.InsideTime).Add(m.InsideOvertime)
			t.OutsideOvertime = t.OutsideOvertime.Add(m.OutsideTime).Add(m.OutsideOvertime)
		}
	}

	t.TotalAddedValue = generic.Thousands(addedValue)
	t.TotalCost = generic.Thousands(cost)
	t.TotalGrossProfit = generic.Thousands(grossProfit)
	if t.TotalCost.IsPositive() {
		t.ProfitRate = generic.RoundTo(generic.Percent(t.TotalGrossProfit, t.TotalCost), 2)
	}
	return t
}

// AggregateByDate returns one DailyTotals per distinct date present in
// metrics, ascending.
func AggregateByDate(metrics []RecordMetrics, cal *Calendar) []DailyTotals {
	dates := DistinctDates(metrics)
	out := make([]DailyTotals, 0, len(dates))
	for _, d := range dates {
		out = append(out, AggregateDay(d, cal.Classify(d), metrics))
	}
	return out
}

// DistinctDates lists the dates present in metrics, ascending.
func DistinctDates(metrics []RecordMetrics) []generic.TimePoint {
	seen := make(map[string]bool)
	var dates []generic.TimePoint
	for _, m := range metrics {
		if seen[m.Date.Key()] {
			continue
		}
		seen[m.Date.Key()] = true
		dates = append(dates, m.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
