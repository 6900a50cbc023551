// Package period computes the monthly windows every aggregation in the
// application shares. A transaction belongs to the month whose half-open
// window [first instant of month, first instant of next month) contains
// its date; this is the single source of truth for period membership.
package period

import (
	"time"

	apperrors "michauchera/internal/errors"
	"michauchera/internal/models"
)

// MonthRange returns the half-open window for (month, year) in loc.
// The start is inclusive (the 1st at 00:00:00.000); the end is the first
// instant of the following month, exclusive. December rolls over to
// January of the next year.
func MonthRange(month, year int, loc *time.Location) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, apperrors.ErrInvalidMonth
	}
	if year < models.MinBudgetYear {
		return time.Time{}, time.Time{}, apperrors.ErrInvalidYear
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)
	return start, end, nil
}

// Current returns the (month, year) the given instant falls in.
func Current(now time.Time) (int, int) {
	return int(now.Month()), now.Year()
}

// Contains reports whether t falls inside the month's half-open window.
func Contains(t time.Time, month, year int) bool {
	start, end, err := MonthRange(month, year, t.Location())
	if err != nil {
		return false
	}
	return !t.Before(start) && t.Before(end)
}
