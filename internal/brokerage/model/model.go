package model

import (
	"strings"

	"brokerage-service/internal/utils"
)

// All is the sentinel for "no miller/buyer filter".
const All = "all"

// Canonical field names produced by the header normalizer.
const (
	FieldDate     = "DATE"
	FieldQuantity = "QUANTITY"
	FieldAmount   = "AMOUNT"
	FieldRate     = "RATE"
	FieldBuyer    = "BUYER"
	FieldMiller   = "MILLER NAME"
	FieldBillNo   = "BILL NO"
	FieldShopLoc  = "SHOP LOC"
)

// RawRow is one spreadsheet row as decoded: header label -> cell value.
// Values are string, float64, int or time.Time; any key may be missing.
type RawRow map[string]any

// Row is a canonical ledger row. Date, Quantity, Amount and Rate keep the
// raw cell so that numeric parsing and date formatting happen at use time.
type Row struct {
	Index    int            `json:"index"` // 1-based position in the source sheet
	Date     any            `json:"date,omitempty"`
	Quantity any            `json:"quantity,omitempty"`
	Amount   any            `json:"amount,omitempty"`
	Rate     any            `json:"rate,omitempty"`
	Buyer    string         `json:"buyer"`
	BuyerKey string         `json:"-"`
	Miller   string         `json:"miller"`
	BillNo   string         `json:"billNo"`
	ShopLoc  string         `json:"shopLoc"`
	Extra    map[string]any `json:"extra,omitempty"` // unrecognized columns, key trimmed+uppercased
}

// CommissionType selects how the commission of a non-overridden row is computed.
type CommissionType string

const (
	Percentage CommissionType = "percentage"
	Fixed      CommissionType = "fixed"
)

// Override forces a rate for millers whose name contains Pattern (case-insensitive).
type Override struct {
	Pattern string  `json:"pattern" yaml:"pattern"`
	Rate    float64 `json:"rate" yaml:"rate"`   // fraction of amount
	Label   string  `json:"label" yaml:"label"` // shown in the Rate column
}

// Matches reports whether the override applies to miller.
func (o Override) Matches(miller string) bool {
	p := strings.ToLower(strings.TrimSpace(o.Pattern))
	if p == "" || miller == "" {
		return false
	}
	return strings.Contains(strings.ToLower(miller), p)
}

// Rates is the rate configuration for one computation pass.
type Rates struct {
	Type      CommissionType `json:"commissionType"`
	Rate      float64        `json:"commissionRate"` // fraction, 0.02 == 2%
	FixedRate float64        `json:"fixedRate"`      // currency per quintal
	Overrides []Override     `json:"overrides,omitempty"`
}

// Computed is a canonical row with its derived figures.
type Computed struct {
	Row
	Qty        float64 `json:"qty"`
	Amt        float64 `json:"amt"`
	Commission float64 `json:"commission"`
	RateLabel  string  `json:"rateLabel"`
	Overridden bool    `json:"overridden,omitempty"`
}

// Totals is the summary of a computed row set. Sums are not rounded.
type Totals struct {
	Count      int     `json:"count"`
	Quantity   float64 `json:"quantity"`
	Amount     float64 `json:"amount"`
	Commission float64 `json:"commission"`
}

// LocationMap maps a buyer key (utils.Key) to its shop location.
type LocationMap map[string]string

// Lookup finds the location of buyer regardless of case and spacing.
func (m LocationMap) Lookup(buyer string) (string, bool) {
	k := utils.Key(buyer)
	if k == "" {
		return "", false
	}
	loc, ok := m[k]
	return loc, ok
}

// Side is the presentation mode of the preview and report.
type Side string

const (
	MillerSide Side = "miller"
	BuyerSide  Side = "buyer"
)

// ParseSide defaults to the miller side for anything unknown.
func ParseSide(s string) Side {
	if strings.EqualFold(strings.TrimSpace(s), string(BuyerSide)) {
		return BuyerSide
	}
	return MillerSide
}

// HeaderHint describes an unrecognized column and its closest canonical field.
type HeaderHint struct {
	Header     string  `json:"header"`
	Suggestion string  `json:"suggestion,omitempty"`
	Score      float64 `json:"score,omitempty"`
}

// ImportReport summarizes what the normalizer saw in a sheet.
type ImportReport struct {
	Rows         int          `json:"rows"`
	Recognized   []string     `json:"recognized"`
	Unrecognized []HeaderHint `json:"unrecognized"`
}
