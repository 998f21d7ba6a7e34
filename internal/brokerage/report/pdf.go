package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin = 40.0
	pdfLine   = 16.0
)

type rgb struct{ r, g, b int }

var (
	blue   = rgb{0, 0, 255}
	amber  = rgb{255, 193, 7}
	indigo = rgb{63, 81, 181}
	azure  = rgb{0, 123, 255}
	green  = rgb{76, 175, 80}
	white  = rgb{255, 255, 255}
	black  = rgb{0, 0, 0}
)

// lineWidths are the transaction column widths in points; they fill an A4
// page between the margins.
var lineWidths = []float64{22, 58, 85, 85, 45, 50, 40, 65, 65}

var lineAligns = []string{"C", "L", "L", "L", "L", "R", "R", "R", "R"}

// PDF renders an A4 portrait bill with go-pdf/fpdf.
type PDF struct {
	// Created pins the document creation date; zero means now.
	Created time.Time
}

func (PDF) ContentType() string { return "application/pdf" }
func (PDF) Ext() string { return ".pdf" }

func (p PDF) Render(w io.Writer, r Report) error {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(true, pdfMargin)
	doc.SetTitle(fmt.Sprintf("%s brokerage %s", r.Firm.Name, r.FileBase), true)
	doc.SetCreator(r.Firm.Name, true)
	if !p.Created.IsZero() {
		doc.SetCreationDate(p.Created)
	}
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	pageW, _ := doc.GetPageSize()
	width := pageW - 2*pdfMargin

	// firm header
	doc.SetFont("Helvetica", "B", 16)
	setText(doc, blue)
	doc.CellFormat(0, 20, tr(r.Firm.Name), "", 1, "C", false, 0, "")
	setText(doc, black)
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 14, tr(r.Firm.Address), "", 1, "C", false, 0, "")
	doc.CellFormat(0, 14, tr(fmt.Sprintf("Phone: %s ; PAN NO: %s", r.Firm.Phone, r.Firm.PAN)), "", 1, "C", false, 0, "")
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, pdfLine, tr("BROKERAGE FROM : "+r.Period), "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(width/2, pdfLine+4, tr("Bill No: "+r.BillNo), "", 0, "L", false, 0, "")
	doc.CellFormat(width/2, pdfLine+4, tr("Date: "+r.BillDate), "", 1, "R", false, 0, "")
	doc.Ln(4)

	// recipient
	head := make([]string, len(r.Recipient))
	body := make([]string, len(r.Recipient))
	for i, f := range r.Recipient {
		head[i], body[i] = f.Label, f.Value
	}
	even := evenWidths(width, len(head))
	table(doc, tr, head, [][]string{body}, even, repeat("C", len(head)), amber, black)
	doc.Ln(12)

	// transactions
	rows := make([][]string, len(r.Lines))
	for i, l := range r.Lines {
		rows[i] = l.Cells()
	}
	table(doc, tr, r.Columns, rows, lineWidths, lineAligns, azure, white)
	doc.Ln(12)

	// summary
	sum := make([][]string, len(r.Summary))
	for i, f := range r.Summary {
		sum[i] = []string{f.Label, f.Value}
	}
	table(doc, tr, []string{"Summary", "Value"}, sum, evenWidths(width, 2), []string{"L", "R"}, indigo, white)
	doc.Ln(12)

	// bank
	b := r.Firm.Bank
	table(doc, tr,
		[]string{"Acc Name", "A/C No", "Bank Name", "IFSC", "UPI NO"},
		[][]string{{b.AccountName, b.AccountNo, b.BankName, b.IFSC, b.UPI}},
		evenWidths(width, 5), []string{"L", "R", "L", "C", "R"}, green, white)
	doc.Ln(28)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, pdfLine, "Authorized Signatory", "", 1, "R", false, 0, "")

	if err := doc.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return doc.Output(w)
}

// table draws a bordered grid with a filled header row.
func table(doc *fpdf.Fpdf, tr func(string) string, head []string, rows [][]string, widths []float64, aligns []string, fill, headText rgb) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(fill.r, fill.g, fill.b)
	setText(doc, headText)
	for i, h := range head {
		doc.CellFormat(widths[i], pdfLine, tr(h), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	setText(doc, black)
	for _, row := range rows {
		for i, c := range row {
			doc.CellFormat(widths[i], pdfLine, fit(doc, tr, c, widths[i]-4), "1", 0, aligns[i], false, 0, "")
		}
		doc.Ln(-1)
	}
}

// fit shortens the UTF-8 text s until its translated form fits in w points
// and returns the translated text.
func fit(doc *fpdf.Fpdf, tr func(string) string, s string, w float64) string {
	if out := tr(s); doc.GetStringWidth(out) <= w {
		return out
	}
	r := []rune(s)
	for len(r) > 1 && doc.GetStringWidth(tr(string(r)+"..")) > w {
		r = r[:len(r)-1]
	}
	return tr(string(r) + "..")
}

func setText(doc *fpdf.Fpdf, c rgb) { doc.SetTextColor(c.r, c.g, c.b) }

func evenWidths(total float64, n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = total / float64(n)
	}
	return w
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
