// Package csvfile reads and writes CSV files as tabular cell grids.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"absencer/internal/tabular"
)

// Reader parses CSV bytes into typed cells. CSV carries no cell types, so
// every non-blank value is a string cell; blank values map to empty cells so
// blank-row detection behaves the same as for workbooks.
type Reader struct {
	data []byte
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	return NewReader(data), nil
}

func (r *Reader) Rows() ([][]tabular.Cell, error) {
	decoded, err := decode(r.data)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(decoded))
	// Real-world exports have ragged rows and sloppy quoting.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]tabular.Cell
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		cells := make([]tabular.Cell, len(record))
		for i, value := range record {
			if strings.TrimSpace(value) == "" {
				cells[i] = tabular.Empty()
			} else {
				cells[i] = tabular.String(value)
			}
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
