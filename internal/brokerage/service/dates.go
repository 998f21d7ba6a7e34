package service

import (
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"brokerage-service/internal/utils"
)

// DateLayout is the display format of every date in previews and reports.
const DateLayout = "02-01-2006"

// excelEpoch is day 0 of spreadsheet serial dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// minYear is the earliest year accepted from free text.
const minYear = 1900

// maxSerial is 9999-12-31; larger serials are not dates.
const maxSerial = 2958465

// Day-first layouts tried before the generic parser, which prefers
// month-first for ambiguous slashed dates.
var dayFirstLayouts = []string{
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"2.1.2006",
	"02-01-06",
	"02/01/06",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"02 Jan 2006",
	"2006-01-02",
	"2006/01/02",
}

// SerialToTime converts a spreadsheet serial (days since 1899-12-30, with an
// optional fraction of a day) to a UTC time.
func SerialToTime(serial float64) time.Time {
	whole := math.Floor(serial)
	frac := serial - whole
	return excelEpoch.AddDate(0, 0, int(whole)).Add(time.Duration(frac * float64(24*time.Hour)))
}

// FormatDate renders a date cell as DD-MM-YYYY. Numbers are serials; text is
// parsed; anything unparsable comes back as its own text. It never fails.
func FormatDate(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format(DateLayout)
	}
	if f, ok := utils.IsNumeric(v); ok {
		if math.Abs(f) > maxSerial {
			return utils.ToText(v)
		}
		return SerialToTime(f).Format(DateLayout)
	}
	raw := utils.ToText(v)
	if t, ok := ParseDate(raw); ok {
		return t.Format(DateLayout)
	}
	return raw
}

func plausibleYear(t time.Time) bool {
	return t.Year() >= minYear && t.Year() <= 9999
}

// ParseDate parses free-text dates, day-first when ambiguous.
func ParseDate(s string) (time.Time, bool) {
	s = utils.Sanitize(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dayFirstLayouts {
		if t, err := time.Parse(l, s); err == nil && plausibleYear(t) {
			return t, true
		}
	}
	if strings.ContainsAny(s, "0123456789") {
		// dateparse takes things like "99:99" as a time on day zero
		if t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(false)); err == nil && plausibleYear(t) {
			return t, true
		}
	}
	return time.Time{}, false
}
