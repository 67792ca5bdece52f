package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"absencer/internal/absence"
)

// RunSummary carries the counters of one reconciliation run for the PDF
// cover section.
type RunSummary struct {
	GeneratedAt time.Time
	Employees   int
	Processed   int
	Excluded    int
	Errored     int
	Matched     int
	Unmatched   int
}

// PDF writes a run summary followed by the result table.
func PDF(w io.Writer, summary RunSummary, results []absence.Result) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Absence Reconciliation")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Generated: %s", summary.GeneratedAt.Format("02.01.2006 15:04")),
		fmt.Sprintf("Employees on roster: %d", summary.Employees),
		fmt.Sprintf("Absences processed: %d", summary.Processed),
		fmt.Sprintf("Excluded (working time/break): %d", summary.Excluded),
		fmt.Sprintf("Rows with errors: %d", summary.Errored),
		fmt.Sprintf("Matched: %d", summary.Matched),
		fmt.Sprintf("Unmatched: %d", summary.Unmatched),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	widths := []float64{40, 75, 35, 35}
	pdf.SetFont("Helvetica", "B", 10)
	for i, title := range header {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range results {
		row := []string{r.UserID, r.Email, formatDate(r.AbsentFrom), formatDate(r.AbsentUntil)}
		for i, value := range row {
			pdf.CellFormat(widths[i], 6, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
