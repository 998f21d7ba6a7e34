package fileio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/utils"
)

// ErrUnsupported is returned for file types the reader cannot decode.
var ErrUnsupported = errors.New("unsupported file type")

// ReadSheet picks a decoder by extension and returns the first sheet as rows
// keyed by header. headerRow is 1-based; values below 1 mean the first row.
func ReadSheet(r io.Reader, filename string, headerRow int) ([]model.RawRow, error) {
	if headerRow < 1 {
		headerRow = 1
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, filename)
	}
}

// pickHeader takes the header row, naming blank cells "Column N" and
// suffixing repeated labels so no column is lost.
func pickHeader(rows [][]any, headerRow int) []string {
	idx := headerRow - 1
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, v := range h {
		s := utils.Sanitize(utils.ToText(v))
		if s == "" {
			s = fmt.Sprintf("Column %d", i+1)
		}
		k := utils.HeaderKey(s)
		seen[k]++
		if n := seen[k]; n > 1 {
			s = fmt.Sprintf("%s (%d)", s, n)
		}
		out[i] = s
	}
	return out
}

// rowsToRecords converts a grid to records by header, skipping blank rows.
func rowsToRecords(rows [][]any, headers []string, headerRow int) []model.RawRow {
	var out []model.RawRow
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		m := make(model.RawRow, len(headers))
		empty := true
		for c := range headers {
			var v any = ""
			if c < len(rec) && rec[c] != nil {
				v = rec[c]
			}
			if empty && utils.Sanitize(utils.ToText(v)) != "" {
				empty = false
			}
			m[headers[c]] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

// numericCell types a decoded spreadsheet cell: plain numbers become float64,
// everything else stays text. Digit codes that a number would mangle, such as
// "00123" or a 16-digit account number, stay text.
func numericCell(s string) any {
	if isDigitCode(s) {
		return s
	}
	if f, ok := utils.IsNumeric(s); ok {
		return f
	}
	return s
}

// maxExactDigits is the longest digit run a float64 holds exactly.
const maxExactDigits = 15

func isDigitCode(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return (len(s) > 1 && s[0] == '0') || len(s) > maxExactDigits
}

func stringsToAny(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = make([]any, len(row))
		for j, v := range row {
			out[i][j] = v
		}
	}
	return out
}
