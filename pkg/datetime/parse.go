// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-payoff/pkg/constants"
)

const (
	// StartDateLayout is the format expected for mortgage start dates.
	StartDateLayout = constants.StartDateLayout
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

// ParseStartDate parses an optional start date. An empty string yields the
// zero time, which callers treat as "today".
func ParseStartDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(StartDateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start date %q: expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}

// AddMonths advances t by the given number of calendar months. Days past the
// end of the target month roll into the following month, so January 31 plus
// one month is March 3 (or March 2 in a leap year).
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// ResolveStart returns start unless it is the zero time, in which case now is
// returned.
func ResolveStart(start, now time.Time) time.Time {
	if start.IsZero() {
		return now
	}
	return start
}
