package pl

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/pl-engine/generic"
)

// Source fetches everything a month's dashboard needs. Implementations return
// zero rates when none are stored for the month and set Input.Dates to every
// calendar date of the month.
type Source interface {
	LoadMonth(ctx context.Context, year int, month time.Month) (Input, error)
}

// RunMonth loads a month from src and runs the pipeline over it.
func (p *Pipeline) RunMonth(ctx context.Context, src Source, year int, month time.Month) (*Result, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", generic.ErrInvalidPeriod, month)
	}
	in, err := src.LoadMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("load %04d-%02d: %w", year, month, err)
	}
	p.logger().WithFields(logrus.Fields{
		"year":       year,
		"month":      int(month),
		"production": len(in.Production),
		"expenses":   len(in.Expenses),
		"holidays":   len(in.Holidays),
	}).Debug("month loaded")
	return p.Run(in)
}

// FilterMonth keeps the items whose date falls inside (year, month).
func FilterMonth[T any](items []T, year int, month time.Month, date func(T) generic.TimePoint) []T {
	period := generic.MonthPeriod(year, month)
	var out []T
	for _, it := range items {
		if period.Contains(date(it)) {
			out = append(out, it)
		}
	}
	return out
}
