package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	xls "github.com/extrame/xls"

	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/utils"
)

// scanMaxCols bounds the columns scanned when sizing an .xls sheet.
const scanMaxCols = 256

func normalizeCell(s string) string {
	return utils.Sanitize(s)
}

// computeMaxCols finds the real sheet width; Row.LastCol is unreliable for
// files written by accounting packages.
func computeMaxCols(sheet *xls.WorkSheet) int {
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := maxCols; j < scanMaxCols; j++ {
			if normalizeCell(r.Col(j)) != "" {
				maxCols = j + 1
			}
		}
	}
	return max(maxCols, 1)
}

func readXLS(r io.Reader, headerRow int) ([]model.RawRow, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wb *xls.WorkBook
	var lastErr error
	for _, ch := range []string{"utf-8", "windows-1252"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("failed to open workbook")
		}
		return nil, fmt.Errorf("open xls: %w", lastErr)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	maxCols := computeMaxCols(sheet)
	grid := make([][]any, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]any, maxCols)
		for j := 0; j < maxCols; j++ {
			v := ""
			if row != nil {
				v = normalizeCell(row.Col(j))
			}
			if i >= headerRow {
				cols[j] = numericCell(v)
			} else {
				cols[j] = v
			}
		}
		grid = append(grid, cols)
	}
	if len(grid) == 0 {
		return nil, nil
	}

	h := pickHeader(grid, headerRow)
	return rowsToRecords(grid, h, headerRow), nil
}
