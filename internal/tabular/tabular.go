// Package tabular models spreadsheet-like input and output as a 2-D grid of
// typed cells, independent of the file format behind it.
package tabular

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the stored type of a cell.
type Kind int

const (
	// KindMissing marks a position with no cell at all, e.g. a row shorter
	// than the requested column. Distinct from KindEmpty: a blank cell exists
	// but holds nothing.
	KindMissing Kind = iota
	KindEmpty
	KindString
	KindNumber
	KindBool
	KindDate
)

// Cell is one typed spreadsheet cell. Only the field matching Kind is set.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
	Bool   bool
	Time   time.Time
}

func Missing() Cell         { return Cell{Kind: KindMissing} }
func Empty() Cell           { return Cell{Kind: KindEmpty} }
func String(s string) Cell  { return Cell{Kind: KindString, Text: s} }
func Number(v float64) Cell { return Cell{Kind: KindNumber, Number: v} }
func Bool(b bool) Cell      { return Cell{Kind: KindBool, Bool: b} }
func Date(t time.Time) Cell { return Cell{Kind: KindDate, Time: t} }

// StringValue renders a cell as text: strings are trimmed, plain numbers
// render as their integer truncation (40.0 -> "40"), booleans as
// "true"/"false", dates as DD.MM.YYYY. Anything else renders empty.
func (c Cell) StringValue() string {
	switch c.Kind {
	case KindString:
		return strings.TrimSpace(c.Text)
	case KindNumber:
		return strconv.FormatInt(int64(c.Number), 10)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	case KindDate:
		return c.Time.Format("02.01.2006")
	default:
		return ""
	}
}

// IntValue renders a cell as a rounded integer. Textual values that do not
// parse as a number yield 0.
func (c Cell) IntValue() int {
	switch c.Kind {
	case KindNumber:
		return int(math.Round(c.Number))
	case KindString:
		value, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0
		}
		return int(math.Round(value))
	default:
		return 0
	}
}

// Source reads a whole sheet as typed cells. Row 0 is the first sheet row;
// implementations decide nothing about headers.
type Source interface {
	Rows() ([][]Cell, error)
}

// Sink accepts an ordered sequence of string rows, header first.
type Sink interface {
	WriteRow(values []string) error
	Close() error
}

// At returns the cell at idx, or a missing cell when the row is too short.
func At(row []Cell, idx int) Cell {
	if idx < 0 || idx >= len(row) {
		return Missing()
	}
	return row[idx]
}

// RowEmpty reports whether every cell in the row renders as empty text.
func RowEmpty(row []Cell) bool {
	for _, c := range row {
		if c.StringValue() != "" {
			return false
		}
	}
	return true
}
