package generic

import "time"

// =============================================================================
// PERIOD - An inclusive date range
// =============================================================================

// Period is the date window a dashboard run covers, usually one calendar month.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// MonthPeriod returns the first..last day of the given month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns all days in the period, ascending.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// DATE LISTS
// =============================================================================

// MonthDates lists every calendar day of the month in ascending order.
// An out-of-range month yields nil.
func MonthDates(year int, month time.Month) []TimePoint {
	if month < time.January || month > time.December {
		return nil
	}
	return MonthPeriod(year, month).Days()
}

// WorkingDays lists the days of p that are neither Saturday/Sunday nor
// reported as holidays by isHoliday. A nil isHoliday only drops weekends.
func WorkingDays(p Period, isHoliday func(TimePoint) bool) []TimePoint {
	var days []TimePoint
	for _, d := range p.Days() {
		if d.IsWeekend() {
			continue
		}
		if isHoliday != nil && isHoliday(d) {
			continue
		}
		days = append(days, d)
	}
	return days
}

// CheckAscending verifies that dates are strictly ascending.
func CheckAscending(dates []TimePoint) error {
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			return &OutOfOrderError{Previous: dates[i-1], Next: dates[i]}
		}
	}
	return nil
}
