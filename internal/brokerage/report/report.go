// Package report turns a session view into a printable brokerage bill and
// renders it as PDF or XLSX.
package report

import (
	"regexp"
	"strconv"

	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/brokerage/service"
	"brokerage-service/internal/brokerage/session"
	"brokerage-service/internal/config"
	"brokerage-service/internal/utils"
)

// DefaultPageSize is the number of preview lines per page.
const DefaultPageSize = 10

// Field is a label/value pair of the recipient and summary blocks.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Line is one transaction row, formatted for display. The numeric fields keep
// the unrounded figures for renderers that write numbers.
type Line struct {
	No          int     `json:"no"`
	Date        string  `json:"date"`
	Party       string  `json:"party"`
	Counterpart string  `json:"counterpart"`
	BillNo      string  `json:"billNo"`
	Quantity    string  `json:"quantity"`
	Rate        string  `json:"rate"`
	Amount      string  `json:"amount"`
	Commission  string  `json:"commission"`
	Qty         float64 `json:"-"`
	Amt         float64 `json:"-"`
	Comm        float64 `json:"-"`
}

// Cells returns the line in column order.
func (l Line) Cells() []string {
	return []string{
		strconv.Itoa(l.No), l.Date, l.Party, l.Counterpart, l.BillNo,
		l.Quantity, l.Rate, l.Amount, l.Commission,
	}
}

// Report is everything a renderer needs. It holds no references to the store.
type Report struct {
	Side      model.Side     `json:"side"`
	Firm      config.Profile `json:"firm"`
	Period    string         `json:"period"`
	BillNo    string         `json:"billNo"`
	BillDate  string         `json:"billDate"`
	Recipient []Field        `json:"recipient"`
	Columns   []string       `json:"columns"`
	Lines     []Line         `json:"lines"`
	Summary   []Field        `json:"summary"`
	Totals    model.Totals   `json:"totals"`
	Rates     model.Rates    `json:"rates"`
	FileBase  string         `json:"fileBase"`
}

// Build lays out the report for one side. On the miller side the miller is the
// recipient and buyers are the counterparts; the buyer side is the mirror, with
// the shop location printed under the buyer.
func Build(v session.View, side model.Side, firm config.Profile) Report {
	r := Report{
		Side:     side,
		Firm:     firm,
		Period:   dash(v.Bill.Period),
		BillNo:   dash(v.Bill.Number),
		BillDate: dash(service.FormatDate(emptyNil(v.Bill.Date))),
		Totals:   v.Totals,
		Rates:    v.Rates,
	}

	party, counterpart := "Miller", "Buyer"
	selected := v.Selection.Miller
	if side == model.BuyerSide {
		party, counterpart = "Buyer", "Miller"
		selected = v.Selection.Buyer
		r.Recipient = []Field{
			{Label: "TO", Value: recipientName(selected, side)},
			{Label: "ROAD", Value: dash(v.Selection.ShopLocation)},
		}
	} else {
		r.Recipient = []Field{{Label: "Miller", Value: recipientName(selected, side)}}
	}
	r.FileBase = FileName(selected, side, "")
	r.Columns = []string{"#", "Date", party, counterpart, "Bill No", "Quantity", "Rate", "Amount", "Commission"}

	r.Lines = make([]Line, len(v.Rows))
	for i, c := range v.Rows {
		l := Line{
			No:          i + 1,
			Date:        service.FormatDate(c.Date),
			Party:       c.Miller,
			Counterpart: c.Buyer,
			BillNo:      c.BillNo,
			Quantity:    utils.Trim(c.Qty),
			Rate:        c.RateLabel,
			Amount:      utils.Fixed2(c.Amt),
			Commission:  utils.Fixed2(c.Commission),
			Qty:         c.Qty,
			Amt:         c.Amt,
			Comm:        c.Commission,
		}
		if side == model.BuyerSide {
			l.Party, l.Counterpart = c.Buyer, c.Miller
		}
		r.Lines[i] = l
	}

	r.Summary = []Field{
		{Label: "Total Transactions", Value: strconv.Itoa(v.Totals.Count)},
		{Label: "Total Quantity (Quintals)", Value: utils.Fixed2(v.Totals.Quantity)},
		{Label: "Total Amount", Value: utils.Fixed2(v.Totals.Amount)},
		{Label: "Total Commission", Value: utils.Fixed2(v.Totals.Commission)},
		{Label: "Commission Type", Value: CommissionType(v.Rates)},
	}
	return r
}

// CommissionType describes the configured rate: "2.00%" or "Rs. 11 per unit".
// The rupee sign is spelled out because the PDF fonts are cp1252.
func CommissionType(r model.Rates) string {
	if r.Type == model.Percentage {
		return service.RateLabel(r)
	}
	return "Rs. " + service.RateLabel(r) + " per unit"
}

// PageView is one page of report lines.
type PageView struct {
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
	Size  int    `json:"size"`
	Total int    `json:"total"`
	Lines []Line `json:"lines"`
}

// Page returns page n (1-based) of the lines. n is clamped into range and a
// non-positive size falls back to DefaultPageSize.
func (r Report) Page(n, size int) PageView {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(r.Lines)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	n = min(max(n, 1), pages)

	start := min((n-1)*size, total)
	end := min(start+size, total)
	return PageView{Page: n, Pages: pages, Size: size, Total: total, Lines: r.Lines[start:end]}
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName derives the export name from the selected counterpart. ext may be
// empty or carry its dot (".pdf").
func FileName(selected string, side model.Side, ext string) string {
	name := utils.Sanitize(selected)
	if name == "" || utils.Key(name) == model.All {
		if side == model.BuyerSide {
			return "AllBuyers" + ext
		}
		return "AllMillers" + ext
	}
	return unsafeName.ReplaceAllString(name, "_") + ext
}

func recipientName(selected string, side model.Side) string {
	if utils.Key(selected) == model.All {
		if side == model.BuyerSide {
			return "All Buyers"
		}
		return "All Millers"
	}
	return dash(selected)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func emptyNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
