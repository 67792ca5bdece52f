// Package export renders reconciliation results into downloadable formats.
package export

import (
	"io"
	"time"

	"absencer/internal/absence"
	"absencer/internal/tabular"
	"absencer/internal/tabular/csvfile"
	"absencer/internal/tabular/xlsxfile"
)

const dateLayout = "02.01.2006"

var header = []string{"USER-ID", "email", "absent from", "absent until"}

// WriteResults streams the header plus one 4-column row per result into the
// sink and closes it.
func WriteResults(sink tabular.Sink, results []absence.Result) error {
	if err := sink.WriteRow(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{r.UserID, r.Email, formatDate(r.AbsentFrom), formatDate(r.AbsentUntil)}
		if err := sink.WriteRow(row); err != nil {
			return err
		}
	}
	return sink.Close()
}

// Excel writes results as a single-sheet workbook.
func Excel(w io.Writer, results []absence.Result) error {
	sink, err := xlsxfile.NewSink(w, len(results)+1)
	if err != nil {
		return err
	}
	return WriteResults(sink, results)
}

// CSV writes results as comma-separated text with the same layout.
func CSV(w io.Writer, results []absence.Result) error {
	return WriteResults(csvfile.NewSink(w), results)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
