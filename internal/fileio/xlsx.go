package fileio

import (
	"fmt"
	"io"

	excelize "github.com/xuri/excelize/v2"

	"brokerage-service/internal/brokerage/model"
)

// readXLSX reads the first sheet with raw cell values so that dates arrive as
// serial numbers, not in whatever display format the workbook uses.
func readXLSX(r io.Reader, headerRow int) ([]model.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	grid := make([][]any, len(rows))
	for i, row := range rows {
		grid[i] = make([]any, len(row))
		for j, v := range row {
			grid[i][j] = typedCell(f, sheet, i, j, v)
		}
	}
	h := pickHeader(grid, headerRow)
	return rowsToRecords(grid, h, headerRow), nil
}

// typedCell keeps text cells as text and turns numeric and date cells into
// float64. Cells without an explicit type are numeric in xlsx.
func typedCell(f *excelize.File, sheet string, row, col int, v string) any {
	if v == "" {
		return v
	}
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return v
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return v
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate, excelize.CellTypeFormula:
		return numericCell(v)
	default:
		return v
	}
}
