package fileio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"brokerage-service/internal/brokerage/model"
)

func TestReadSheetCSV(t *testing.T) {
	data := "DATE,MILLER NAME,BUYER NAME,,QTY,AMOUNT\n" +
		"15-03-2023,Sri Balaji Mills,Ravi Traders,x,50,\"1,000\"\n" +
		",,,,,\n" +
		"16-03-2023,Nidhi Agro,John Doe,,20,500\n"

	rows, err := ReadSheet(strings.NewReader(data), "ledger.CSV", 1)
	require.NoError(t, err)
	require.Len(t, rows, 2, "blank rows are skipped")

	assert.Equal(t, model.RawRow{
		"DATE":        "15-03-2023",
		"MILLER NAME": "Sri Balaji Mills",
		"BUYER NAME":  "Ravi Traders",
		"Column 4":    "x",
		"QTY":         "50",
		"AMOUNT":      "1,000",
	}, rows[0])
	assert.Equal(t, "Nidhi Agro", rows[1]["MILLER NAME"])
}

func TestReadSheetCSVHeaderRow(t *testing.T) {
	data := "TEJAS CANVASSING LEDGER\nQTY,QTY\n1,2\n"
	rows, err := ReadSheet(strings.NewReader(data), "ledger.csv", 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.RawRow{"QTY": "1", "QTY (2)": "2"}, rows[0])
}

func TestReadSheetXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"DATE", "MILLER NAME", "QTY", "AMOUNT", "BILL NO"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{45000, "Nidhi Agro", 50, 1000.5, "0012"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{45001, "Sri Balaji Mills", 20, 300, "13"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ReadSheet(bytes.NewReader(buf.Bytes()), "ledger.xlsx", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 45000.0, rows[0]["DATE"])
	assert.Equal(t, 50.0, rows[0]["QTY"])
	assert.Equal(t, 1000.5, rows[0]["AMOUNT"])
	assert.Equal(t, "0012", rows[0]["BILL NO"], "text cells stay text")
	assert.Equal(t, "Sri Balaji Mills", rows[1]["MILLER NAME"])
}

func TestReadSheetErrors(t *testing.T) {
	_, err := ReadSheet(strings.NewReader("x"), "ledger.pdf", 1)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = ReadSheet(strings.NewReader("not a zip"), "ledger.xlsx", 1)
	assert.Error(t, err)
}

func TestNumericCell(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"123", 123.0},
		{"12.50", 12.5},
		{"0", 0.0},
		{"0.5", 0.5},
		{"00123", "00123"},
		{"922020031617300", 922020031617300.0},
		{"9220200316173001", "9220200316173001"},
		{"BILL-7", "BILL-7"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, numericCell(tt.in))
		})
	}
}
