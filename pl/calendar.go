package pl

import (
	"fmt"
	"strings"

	"github.com/warp/pl-engine/generic"
)

// =============================================================================
// HOLIDAY MASTER
// =============================================================================

// HolidayType is the kind of a holiday master entry.
type HolidayType string

const (
	HolidayLegal           HolidayType = "legal"            // statutory rest day
	HolidayScheduled       HolidayType = "scheduled"        // company-designated day off
	HolidayCollectiveLeave HolidayType = "collective_leave" // plant-wide leave
)

// HolidayEntry is one row of the holiday master table.
type HolidayEntry struct {
	Date generic.TimePoint
	Type HolidayType
	Name string
}

// ParseHolidayType maps the labels used by the master table (English or
// Japanese) to a HolidayType. Unrecognised labels are returned as-is
// and classify as ordinary days.
func ParseHolidayType(s string) HolidayType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legal", "statutory", "法定休日":
		return HolidayLegal
	case "scheduled", "company", "所定休日":
		return HolidayScheduled
	case "collective_leave", "collective", "一斉休暇":
		return HolidayCollectiveLeave
	default:
		return HolidayType(strings.TrimSpace(s))
	}
}

// =============================================================================
// DAY KIND - Closed classification consumed by the aggregator
// =============================================================================

// DayKind is the outcome of classifying a date. The set is closed: callers
// switch over all three values.
type DayKind int

const (
	Weekday DayKind = iota
	StatutoryHoliday
	ScheduledHoliday
)

func (k DayKind) String() string {
	switch k {
	case StatutoryHoliday:
		return "statutory_holiday"
	case ScheduledHoliday:
		return "scheduled_holiday"
	default:
		return "weekday"
	}
}

// Code returns the legacy numeric code: 0 weekday, -1 statutory, -2 scheduled.
func (k DayKind) Code() int {
	switch k {
	case StatutoryHoliday:
		return -1
	case ScheduledHoliday:
		return -2
	default:
		return 0
	}
}

// MarshalText encodes the kind by name.
func (k DayKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the names written by MarshalText.
func (k *DayKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "weekday":
		*k = Weekday
	case "statutory_holiday":
		*k = StatutoryHoliday
	case "scheduled_holiday":
		*k = ScheduledHoliday
	default:
		return fmt.Errorf("unknown day kind %q", string(b))
	}
	return nil
}

// =============================================================================
// CALENDAR
// =============================================================================

// Calendar classifies dates against the holiday master.
type Calendar struct {
	entries map[string]HolidayEntry
}

// NewCalendar indexes entries by date. When a date appears twice the first
// entry wins.
func NewCalendar(entries []HolidayEntry) *Calendar {
	c := &Calendar{entries: make(map[string]HolidayEntry, len(entries))}
	for _, e := range entries {
		if _, ok := c.entries[e.Date.Key()]; ok {
			continue
		}
		c.entries[e.Date.Key()] = e
	}
	return c
}

// Classify returns the DayKind for date. Dates without an entry, collective
// leave and unknown holiday types are ordinary days.
func (c *Calendar) Classify(date generic.TimePoint) DayKind {
	if c == nil {
		return Weekday
	}
	e, ok := c.entries[date.Key()]
	if !ok {
		return Weekday
	}
	switch e.Type {
	case HolidayLegal:
		return StatutoryHoliday
	case HolidayScheduled:
		return ScheduledHoliday
	default:
		return Weekday
	}
}

// Entry returns the master entry for date, if any.
func (c *Calendar) Entry(date generic.TimePoint) (HolidayEntry, bool) {
	if c == nil {
		return HolidayEntry{}, false
	}
	e, ok := c.entries[date.Key()]
	return e, ok
}

// IsHoliday reports whether date has any master entry, whatever its type.
func (c *Calendar) IsHoliday(date generic.TimePoint) bool {
	_, ok := c.Entry(date)
	return ok
}

// HolidaysIn returns the entries inside p in date order.
func (c *Calendar) HolidaysIn(p generic.Period) []HolidayEntry {
	var out []HolidayEntry
	for _, d := range p.Days() {
		if e, ok := c.Entry(d); ok {
			out = append(out, e)
		}
	}
	return out
}
