package csvfile

import (
	"encoding/csv"
	"io"
)

// Sink writes string rows as CSV.
type Sink struct {
	w *csv.Writer
}

func NewSink(w io.Writer) *Sink {
	return &Sink{w: csv.NewWriter(w)}
}

func (s *Sink) WriteRow(values []string) error {
	return s.w.Write(values)
}

func (s *Sink) Close() error {
	s.w.Flush()
	return s.w.Error()
}
