// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"vc-valuation/pkg/constants"
)

const (
	// DateTimeLayout is the format expected for the valuation date in config
	// files and is also the output date format.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseValuationDate parses a valuation date string. An empty string resolves
// to the provided fallback time truncated to its date.
func ParseValuationDate(dateStr string, fallback time.Time) (time.Time, error) {
	if dateStr == "" {
		return time.Date(fallback.Year(), fallback.Month(), fallback.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(DateTimeLayout, dateStr)
}

// YearEnd returns the December 31st date of the given calendar year, formatted
// with CashFlowDateLayout (e.g., "31-Dec-2030").
func YearEnd(year int) string {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).Format(constants.CashFlowDateLayout)
}
