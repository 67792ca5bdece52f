package absence

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"absencer/internal/tabular"
)

// Structural date extraction failures.
var (
	ErrMissingDate           = errors.New("date cell is missing")
	ErrEmptyDateString       = errors.New("date string is empty")
	ErrInvalidDateFormat     = errors.New("invalid date")
	ErrUnsupportedDateFormat = errors.New("unsupported date format")
	ErrUnsupportedCellType   = errors.New("unsupported cell type for date")
)

const (
	isoDateLayout      = "2006-01-02"
	dayMonthYearLayout = "02.01.2006"
)

// Dot-separated day.month.year with a four-digit year, the format HR exports
// use. Day and month may be one or two digits.
var dayMonthYearPattern = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`)

// ExtractDate converts one cell into a calendar date at midnight UTC. Native
// date cells keep only their date component, read in the local time zone.
// Textual cells tolerate ISO timestamps (everything from the first 'T' is
// dropped), D.M.YYYY, and strict ISO YYYY-MM-DD.
func ExtractDate(cell tabular.Cell) (time.Time, error) {
	switch cell.Kind {
	case tabular.KindMissing:
		return time.Time{}, ErrMissingDate
	case tabular.KindDate:
		year, month, day := cell.Time.In(time.Local).Date()
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
	case tabular.KindString:
		return parseDateString(cell.Text)
	default:
		return time.Time{}, ErrUnsupportedCellType
	}
}

func parseDateString(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrEmptyDateString
	}
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}

	if dayMonthYearPattern.MatchString(s) {
		parts := strings.Split(s, ".")
		day, _ := strconv.Atoi(parts[0])
		month, _ := strconv.Atoi(parts[1])
		year, _ := strconv.Atoi(parts[2])
		return makeDate(year, month, day)
	}

	parsed, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedDateFormat, raw)
	}
	return parsed, nil
}

// makeDate builds a date from its literal components, rejecting combinations
// that do not exist on the calendar. No locale inference: day comes first.
func makeDate(year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > daysInMonth(year, month) {
		return time.Time{}, fmt.Errorf("%w: %02d.%02d.%04d", ErrInvalidDateFormat, day, month, year)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

func daysInMonth(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
