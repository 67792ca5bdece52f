package absence

import (
	"errors"
	"fmt"
	"time"
)

// Plausibility failures, in the order the checks run.
var (
	ErrTooFarPast            = errors.New("date is too far in the past (before 1900)")
	ErrTooFarFuture          = errors.New("date is too far in the future (after 2100)")
	ErrImplausiblyOld        = errors.New("date is more than 5 years old - likely data error")
	ErrBeyondPlanningHorizon = errors.New("date is more than 2 years in the future - exceeds planning horizon")
	ErrInvalidMonth          = errors.New("invalid month")
	ErrInvalidDay            = errors.New("invalid day")
	ErrInvalidFebruaryDay    = errors.New("february cannot have that many days")
	ErrInvalidLeapDay        = errors.New("february 29 is not valid in a non-leap year")
	ErrInvalidShortMonthDay  = errors.New("30-day month cannot have 31 days")
)

const staleAfterMonths = 18

// Validator rejects structurally valid dates that fall outside the
// business-plausible horizon around a fixed reference day. The reference day
// is injected rather than read from the clock so the window is deterministic.
type Validator struct {
	Today time.Time
}

// NewValidator builds a Validator anchored at the date component of today.
func NewValidator(today time.Time) *Validator {
	year, month, day := today.Date()
	return &Validator{Today: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Validate applies the plausibility checks in order; the first failure wins.
// A non-empty warning means the date passed but is old enough to deserve a
// second look (more than 18 months before today).
func (v *Validator) Validate(date time.Time) (string, error) {
	year := date.Year()
	month := int(date.Month())
	day := date.Day()

	if year < 1900 {
		return "", fmt.Errorf("%w: year %d", ErrTooFarPast, year)
	}
	if year > 2100 {
		return "", fmt.Errorf("%w: year %d", ErrTooFarFuture, year)
	}
	if date.Before(v.Today.AddDate(-5, 0, 0)) {
		return "", fmt.Errorf("%w: %s", ErrImplausiblyOld, date.Format(dayMonthYearLayout))
	}
	if date.After(v.Today.AddDate(2, 0, 0)) {
		return "", fmt.Errorf("%w: %s", ErrBeyondPlanningHorizon, date.Format(dayMonthYearLayout))
	}

	warning := ""
	if date.Before(v.Today.AddDate(0, -staleAfterMonths, 0)) {
		warning = fmt.Sprintf("date %s is more than %d months old - verify accuracy",
			date.Format(dayMonthYearLayout), staleAfterMonths)
	}

	// The calendar checks below cannot fire for dates built by ExtractDate,
	// which already rejects impossible month/day combinations. They stay as
	// explicit invariants of the accepted range.
	if month < 1 || month > 12 {
		return "", fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	if day < 1 || day > 31 {
		return "", fmt.Errorf("%w: %d", ErrInvalidDay, day)
	}
	if month == 2 && day > 29 {
		return "", fmt.Errorf("%w: day %d", ErrInvalidFebruaryDay, day)
	}
	if month == 2 && day == 29 && !isLeapYear(year) {
		return "", fmt.Errorf("%w: %d", ErrInvalidLeapDay, year)
	}
	if (month == 4 || month == 6 || month == 9 || month == 11) && day > 30 {
		return "", fmt.Errorf("%w: month %d day %d", ErrInvalidShortMonthDay, month, day)
	}

	return warning, nil
}
