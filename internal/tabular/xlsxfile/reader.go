// Package xlsxfile reads and writes .xlsx workbooks as tabular cell grids.
package xlsxfile

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"absencer/internal/tabular"
)

// Reader exposes the first worksheet of a workbook as typed cells.
type Reader struct {
	file  *excelize.File
	sheet string
}

func Open(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return newReader(f)
}

func OpenReader(r io.Reader) (*Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return newReader(f)
}

func newReader(f *excelize.File) (*Reader, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, errors.New("workbook has no sheets")
	}
	return &Reader{file: f, sheet: sheets[0]}, nil
}

func (r *Reader) Close() error {
	return r.file.Close()
}

// Rows materializes the sheet. Cell typing follows the stored xlsx types:
// shared/inline strings, booleans, and numbers, with date-styled numbers
// converted through the Excel date epoch.
func (r *Reader) Rows() ([][]tabular.Cell, error) {
	raw, err := r.file.GetRows(r.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", r.sheet, err)
	}

	rows := make([][]tabular.Cell, len(raw))
	for rowIdx, rawRow := range raw {
		cells := make([]tabular.Cell, len(rawRow))
		for colIdx, value := range rawRow {
			cell, err := r.cell(rowIdx, colIdx, value)
			if err != nil {
				return nil, err
			}
			cells[colIdx] = cell
		}
		rows[rowIdx] = cells
	}
	return rows, nil
}

func (r *Reader) cell(rowIdx, colIdx int, raw string) (tabular.Cell, error) {
	name, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return tabular.Cell{}, err
	}
	cellType, err := r.file.GetCellType(r.sheet, name)
	if err != nil {
		return tabular.Cell{}, fmt.Errorf("cell %s: %w", name, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return tabular.Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		if raw == "" {
			return tabular.Empty(), nil
		}
		return tabular.String(raw), nil
	case excelize.CellTypeDate:
		// Workbooks rarely store ISO 8601 date cells, but they are valid.
		if parsed, perr := time.ParseInLocation("2006-01-02T15:04:05", strings.TrimSuffix(raw, "Z"), time.Local); perr == nil {
			return tabular.Date(parsed), nil
		}
		return tabular.String(raw), nil
	case excelize.CellTypeError:
		return tabular.Empty(), nil
	default:
		// Numbers carry no type attribute in the file.
		if raw == "" {
			return tabular.Empty(), nil
		}
		number, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			return tabular.String(raw), nil
		}
		if styled, serr := r.dateStyled(name); serr == nil && styled {
			if t, derr := excelize.ExcelDateToTime(number, false); derr == nil {
				return tabular.Date(t), nil
			}
		}
		return tabular.Number(number), nil
	}
}

func (r *Reader) dateStyled(name string) (bool, error) {
	styleID, err := r.file.GetCellStyle(r.sheet, name)
	if err != nil {
		return false, err
	}
	style, err := r.file.GetStyle(styleID)
	if err != nil || style == nil {
		return false, err
	}
	if builtinDateFormats[style.NumFmt] {
		return true, nil
	}
	if style.CustomNumFmt != nil {
		return looksLikeDateFormat(*style.CustomNumFmt), nil
	}
	return false, nil
}

// Built-in number formats Excel reserves for dates and times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true,
	21: true, 22: true, 27: true, 28: true, 29: true, 30: true, 31: true,
	32: true, 33: true, 34: true, 35: true, 36: true, 45: true, 46: true,
	47: true, 50: true, 51: true, 52: true, 53: true, 54: true, 55: true,
	56: true, 57: true, 58: true,
}

// looksLikeDateFormat reports whether a custom number format contains date or
// time tokens outside quoted literals and bracketed sections.
func looksLikeDateFormat(format string) bool {
	inQuote := false
	inBracket := false
	for _, r := range format {
		switch {
		case inQuote:
			if r == '"' {
				inQuote = false
			}
		case inBracket:
			if r == ']' {
				inBracket = false
			}
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == 'y' || r == 'Y' || r == 'm' || r == 'M' || r == 'd' || r == 'D' || r == 'h' || r == 'H' || r == 's' || r == 'S':
			return true
		}
	}
	return false
}
