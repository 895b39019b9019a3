package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Sheet:   "Payroll",
		Headers: []string{"Employee ID", "Name", "Total Hours"},
		Rows: [][]string{
			{"E-1", "Ana, Maria", "40.5"},
			{"E-2", "Bo", "0"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, File{Filename: "x.csv", Format: FormatCSV, Table: sampleTable()}.Write(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Employee ID", "Name", "Total Hours"}, records[0])
	assert.Equal(t, "Ana, Maria", records[1][1])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Payroll")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Employee ID", rows[0][0])
	assert.Equal(t, "40.5", rows[1][2])
}
