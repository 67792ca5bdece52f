package xlsxfile

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Above this many rows the sink switches to excelize's stream writer, which
// keeps memory flat for large exports.
const streamThreshold = 10000

const columnWidth = 24

// Sink writes string rows into a fresh single-sheet workbook. The first row
// is styled as a bold header.
type Sink struct {
	file        *excelize.File
	sheet       string
	out         io.Writer
	stream      *excelize.StreamWriter
	headerStyle int
	row         int
	cols        int
}

// NewSink builds a workbook sink. expectedRows (header included) decides
// whether the streaming writer is used.
func NewSink(w io.Writer, expectedRows int) (*Sink, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	s := &Sink{file: f, sheet: sheet, out: w, headerStyle: headerStyle}
	if expectedRows > streamThreshold {
		stream, err := f.NewStreamWriter(sheet)
		if err != nil {
			return nil, fmt.Errorf("stream writer: %w", err)
		}
		s.stream = stream
	}
	return s, nil
}

func (s *Sink) WriteRow(values []string) error {
	s.row++
	if len(values) > s.cols {
		s.cols = len(values)
	}

	if s.stream != nil {
		cells := make([]interface{}, len(values))
		for i, value := range values {
			if s.row == 1 {
				cells[i] = excelize.Cell{StyleID: s.headerStyle, Value: value}
			} else {
				cells[i] = excelize.Cell{Value: value}
			}
		}
		name, err := excelize.CoordinatesToCellName(1, s.row)
		if err != nil {
			return err
		}
		return s.stream.SetRow(name, cells)
	}

	for i, value := range values {
		name, err := excelize.CoordinatesToCellName(i+1, s.row)
		if err != nil {
			return err
		}
		if err := s.file.SetCellValue(s.sheet, name, value); err != nil {
			return err
		}
	}
	if s.row == 1 {
		last, err := excelize.CoordinatesToCellName(len(values), 1)
		if err != nil {
			return err
		}
		if err := s.file.SetCellStyle(s.sheet, "A1", last, s.headerStyle); err != nil {
			return err
		}
	}
	return nil
}

// Close finalizes the workbook and writes it to the underlying writer.
func (s *Sink) Close() error {
	if s.stream != nil {
		if err := s.stream.Flush(); err != nil {
			return err
		}
	} else if s.cols > 0 {
		lastCol, err := excelize.ColumnNumberToName(s.cols)
		if err != nil {
			return err
		}
		if err := s.file.SetColWidth(s.sheet, "A", lastCol, columnWidth); err != nil {
			return err
		}
	}

	if err := s.file.Write(s.out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return s.file.Close()
}
