/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The calculation modules never fail; errors only arise at the edges
  (date parsing, date ordering, storage lookups, dataset import).

ERROR CATEGORIES:
  1. Input errors - Malformed dates, unordered date lists, bad datasets
  2. Lookup errors - Missing master data in a store

USAGE:
    if errors.Is(err, generic.ErrDatesNotAscending) {
        // caller handed the accumulator an unsorted date list
    }
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPeriod is returned for months outside 1-12 and unparsable years.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrDatesNotAscending is returned when a date list handed to the
	// cumulative pass is not strictly ascending.
	ErrDatesNotAscending = errors.New("dates not in ascending order")

	// ErrRatesNotFound is returned by stores when no monthly rates exist.
	ErrRatesNotFound = errors.New("monthly rates not found")

	// ErrUnknownScenario is returned when a demo scenario ID is not registered.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrInvalidDataset is returned when an imported dataset cannot be decoded.
	ErrInvalidDataset = errors.New("invalid dataset")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DateParseError records the offending input.
type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid date %q (use YYYY-MM-DD)", e.Value)
}

func (e *DateParseError) Unwrap() error {
	return ErrInvalidDate
}

// OutOfOrderError names the first pair of dates that breaks ascending order.
type OutOfOrderError struct {
	Previous TimePoint
	Next     TimePoint
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("dates not ascending: %s followed by %s", e.Previous, e.Next)
}

func (e *OutOfOrderError) Unwrap() error {
	return ErrDatesNotAscending
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrDatesNotAscending) ||
		errors.Is(err, ErrInvalidDataset) ||
		errors.Is(err, ErrUnknownScenario)
}

// IsNotFound returns true if the error indicates missing master data.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRatesNotFound)
}
