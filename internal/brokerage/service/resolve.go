package service

import (
	"sort"

	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/utils"
)

// fold re-keys a raw row by HeaderKey. When two raw labels fold to the same
// key ("Qty" and "QTY ") the first non-blank one in label order wins.
func fold(row model.RawRow) map[string]any {
	if len(row) == 0 {
		return nil
	}
	labels := make([]string, 0, len(row))
	for k := range row {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	out := make(map[string]any, len(row))
	for _, k := range labels {
		v := row[k]
		if v == nil {
			continue
		}
		hk := utils.HeaderKey(k)
		if prev, ok := out[hk]; ok && !isBlank(prev) {
			continue
		}
		out[hk] = v
	}
	return out
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return utils.Sanitize(s) == ""
	}
	return false
}

// pick returns the first non-blank value among keys of a folded row.
// Both the resolver and the header normalizer go through it.
func pick(f map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := f[utils.HeaderKey(k)]; ok && !isBlank(v) {
			return v, true
		}
	}
	return nil, false
}

// cellText is the text form of a resolved cell.
func cellText(v any) string {
	return utils.Sanitize(utils.ToText(v))
}

// cellNumber is the numeric form of a resolved cell. Blank or malformed
// cells yield 0: one bad cell never fails an import.
func cellNumber(v any) float64 {
	if isBlank(v) {
		return 0
	}
	return utils.ToNumber(v)
}

// Resolve returns the value of the first candidate key holding a non-blank
// value. Keys match case-insensitively and ignore surrounding spaces.
func Resolve(row model.RawRow, keys ...string) (any, bool) {
	if len(keys) == 0 || len(row) == 0 {
		return nil, false
	}
	return pick(fold(row), keys)
}

// ResolveText is Resolve with a sanitized string result, "" when absent.
func ResolveText(row model.RawRow, keys ...string) string {
	v, _ := Resolve(row, keys...)
	return cellText(v)
}

// ResolveNumber is Resolve with a numeric result, 0 when absent or malformed.
func ResolveNumber(row model.RawRow, keys ...string) float64 {
	v, _ := Resolve(row, keys...)
	return cellNumber(v)
}
