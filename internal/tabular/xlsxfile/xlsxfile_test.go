package xlsxfile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"absencer/internal/tabular"
)

func TestSinkReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewSink(&buf, 3)
	require.NoError(t, err)
	require.NoError(t, sink.WriteRow([]string{"USER-ID", "email", "absent from", "absent until"}))
	require.NoError(t, sink.WriteRow([]string{"id1", "a@x.com", "01.07.2024", "05.07.2024"}))
	require.NoError(t, sink.Close())

	reader, err := OpenReader(&buf)
	require.NoError(t, err)
	defer reader.Close()

	rows, err := reader.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "USER-ID", rows[0][0].StringValue())
	assert.Equal(t, "a@x.com", rows[1][1].StringValue())
	assert.Equal(t, "01.07.2024", rows[1][2].StringValue())
}

func TestReaderCellTyping(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Popescu"))
	require.NoError(t, f.SetCellValue(sheet, "B1", 40.0))
	require.NoError(t, f.SetCellBool(sheet, "C1", true))

	// D1: a date-styled serial number, the way Excel stores dates.
	styleID, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "D1", "D1", styleID))
	require.NoError(t, f.SetCellValue(sheet, "D1", 45000.0))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	reader, err := OpenReader(&buf)
	require.NoError(t, err)
	defer reader.Close()

	rows, err := reader.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, tabular.KindString, row[0].Kind)
	assert.Equal(t, tabular.KindNumber, row[1].Kind)
	assert.Equal(t, 40, row[1].IntValue())
	assert.Equal(t, tabular.KindBool, row[2].Kind)
	assert.True(t, row[2].Bool)

	require.Equal(t, tabular.KindDate, row[3].Kind)
	expected, err := excelize.ExcelDateToTime(45000.0, false)
	require.NoError(t, err)
	assert.Equal(t, expected, row[3].Time)
}

func TestOpenRejectsGarbage(t *testing.T) {
	_, err := OpenReader(bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)
}

func TestSinkStreamingMode(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewSink(&buf, streamThreshold+2)
	require.NoError(t, err)
	require.NotNil(t, sink.stream)

	require.NoError(t, sink.WriteRow([]string{"USER-ID", "email"}))
	require.NoError(t, sink.WriteRow([]string{"id1", "a@x.com"}))
	require.NoError(t, sink.Close())

	reader, err := OpenReader(&buf)
	require.NoError(t, err)
	defer reader.Close()

	rows, err := reader.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "id1", rows[1][0].StringValue())
}
