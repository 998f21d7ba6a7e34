package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// currency and unit marks that may lead or trail a ledger number
	rxUnitPrefix = regexp.MustCompile(`^(?:rs\.?|inr|₹|qtls?\.?|quintals?)`)
	rxUnitSuffix = regexp.MustCompile(`(?:rs\.?|inr|₹|/-|qtls?\.?|quintals?)$`)
	rxPlainNum   = regexp.MustCompile(`^-?(?:\d+(?:\.\d*)?|\.\d+)$`)
	numGrouping  = strings.NewReplacer("\u00A0", "", "\u202F", "", "\u2009", "", " ", "", "\t", "", ",", "")
)

// ParseNumber parses ledger-style numbers: "1,23,456.50", "₹ 2,345", "Rs. 1,000",
// "(120)", "  45 qtl". Commas are digit grouping, never a decimal separator.
// Anything that is not a plain decimal once the marks are gone, "1e5"
// included, is rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = numGrouping.Replace(strings.ToLower(s))
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = s[1:]
	}
	s = rxUnitPrefix.ReplaceAllString(s, "")
	s = rxUnitSuffix.ReplaceAllString(s, "")
	if !rxPlainNum.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// ToNumber converts a decoded cell to a float. Anything unparsable is 0.
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return x
	case float32:
		return ToNumber(float64(x))
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case string:
		f, _ := ParseNumber(x)
		return f
	default:
		return 0
	}
}

// IsNumeric reports whether a cell holds a number, either typed or as text.
func IsNumeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64, float32, int, int64, int32:
		return ToNumber(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ToText stringifies a cell. Numbers drop trailing zeros: 1023.0 -> "1023".
func ToText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("02-01-2006")
	default:
		return ""
	}
}
