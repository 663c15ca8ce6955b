package generic_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pl-engine/generic"
)

// =============================================================================
// TIME POINT
// =============================================================================

func TestParseDate(t *testing.T) {
	tp, err := generic.ParseDate("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, 2025, tp.Year())
	assert.Equal(t, time.March, tp.Month())
	assert.Equal(t, 9, tp.Day())
	assert.Equal(t, "2025-03-09", tp.Key())
	assert.Equal(t, "03/09(Sun)", tp.ShortLabel())
	assert.True(t, tp.IsWeekend())

	_, err = generic.ParseDate("2025/03/09")
	require.Error(t, err)
	assert.True(t, errors.Is(err, generic.ErrInvalidDate))
	var pe *generic.DateParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "2025/03/09", pe.Value)
	assert.True(t, generic.IsClientError(err))
}

func TestTimePoint_JSON(t *testing.T) {
	type payload struct {
		Date generic.TimePoint `json:"date"`
	}
	b, err := json.Marshal(payload{Date: generic.NewTimePoint(2025, time.April, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-04-01"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-02-29"}`), &p))
	assert.Equal(t, "2024-02-29", p.Date.String())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"2025-02-30"}`), &p))
}

func TestTimePoint_Arithmetic(t *testing.T) {
	d := generic.NewTimePoint(2025, time.January, 31)
	assert.Equal(t, "2025-02-01", d.AddDays(1).String())
	assert.Equal(t, "2024-02-29", generic.EndOfMonth(2024, time.February).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.Equal(generic.FromTime(time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC))))
}

// =============================================================================
// PERIODS AND DATE LISTS
// =============================================================================

func TestMonthDates(t *testing.T) {
	days := generic.MonthDates(2025, time.February)
	require.Len(t, days, 28)
	assert.Equal(t, "2025-02-01", days[0].String())
	assert.Equal(t, "2025-02-28", days[27].String())
	assert.NoError(t, generic.CheckAscending(days))

	assert.Nil(t, generic.MonthDates(2025, 13))
}

func TestWorkingDays(t *testing.T) {
	// GIVEN: March 2025 with one weekday holiday (Thu 20th)
	holiday := generic.NewTimePoint(2025, time.March, 20)
	isHoliday := func(d generic.TimePoint) bool { return d.Equal(holiday) }

	// WHEN
	days := generic.WorkingDays(generic.MonthPeriod(2025, time.March), isHoliday)

	// THEN: 21 weekdays minus the holiday
	assert.Len(t, days, 20)
	for _, d := range days {
		assert.False(t, d.IsWeekend(), d.String())
		assert.False(t, d.Equal(holiday))
	}
	assert.Len(t, generic.WorkingDays(generic.MonthPeriod(2025, time.March), nil), 21)
}

func TestPeriod(t *testing.T) {
	p := generic.MonthPeriod(2025, time.March)
	assert.True(t, p.Contains(generic.NewTimePoint(2025, 3, 31)))
	assert.False(t, p.Contains(generic.NewTimePoint(2025, 4, 1)))
	assert.Equal(t, "[2025-03-01, 2025-03-31]", p.String())

	bad := generic.Period{Start: p.End, End: p.Start}
	assert.Empty(t, bad.Days())
}

func TestCheckAscending(t *testing.T) {
	a := generic.NewTimePoint(2025, 3, 1)
	b := generic.NewTimePoint(2025, 3, 2)

	assert.NoError(t, generic.CheckAscending(nil))
	assert.NoError(t, generic.CheckAscending([]generic.TimePoint{a, b}))

	err := generic.CheckAscending([]generic.TimePoint{b, a})
	var ooo *generic.OutOfOrderError
	require.True(t, errors.As(err, &ooo))
	assert.Equal(t, b, ooo.Previous)
	assert.Equal(t, a, ooo.Next)
	assert.Contains(t, err.Error(), "2025-03-02 followed by 2025-03-01")
	assert.True(t, generic.IsClientError(err))
}
