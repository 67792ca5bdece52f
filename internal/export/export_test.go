package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absencer/internal/absence"
	"absencer/internal/tabular/xlsxfile"
)

func sampleResults() []absence.Result {
	return []absence.Result{
		{
			UserID:      "id1",
			Email:       "a@x.com",
			AbsentFrom:  time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
			AbsentUntil: time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			UserID:      "id2",
			Email:       "b@x.com",
			AbsentFrom:  time.Date(2024, time.August, 9, 0, 0, 0, 0, time.UTC),
			AbsentUntil: time.Date(2024, time.August, 9, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestCSVOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sampleResults()))

	want := "USER-ID,email,absent from,absent until\n" +
		"id1,a@x.com,01.07.2024,05.07.2024\n" +
		"id2,b@x.com,09.08.2024,09.08.2024\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVEmptyResultsStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, nil))
	assert.Equal(t, "USER-ID,email,absent from,absent until\n", buf.String())
}

func TestExcelOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Excel(&buf, sampleResults()))

	reader, err := xlsxfile.OpenReader(&buf)
	require.NoError(t, err)
	defer reader.Close()

	rows, err := reader.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "USER-ID", rows[0][0].StringValue())
	assert.Equal(t, "id2", rows[2][0].StringValue())
	assert.Equal(t, "09.08.2024", rows[2][2].StringValue())
}

func TestPDFOutput(t *testing.T) {
	var buf bytes.Buffer
	summary := RunSummary{
		GeneratedAt: time.Date(2024, time.July, 6, 10, 0, 0, 0, time.UTC),
		Employees:   2,
		Processed:   2,
		Matched:     2,
	}
	require.NoError(t, PDF(&buf, summary, sampleResults()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "expected a PDF document")
}
