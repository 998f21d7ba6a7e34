package report

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/brokerage/service"
	"brokerage-service/internal/brokerage/session"
	"brokerage-service/internal/config"
)

func view(t *testing.T) session.View {
	t.Helper()
	s := session.New(service.DefaultRates())
	s.Import([]model.RawRow{
		{"DATE": 45000, "MILLER NAME": "Sri Rama Mills", "BUYER NAME": "Kumar Traders", "QTY": 10, "AMOUNT": 1000.0, "BILL NO": "7", "PLACE": "YPR"},
		{"DATE": "N/A", "MILLER NAME": "Nidhi Agro Industries", "BUYER NAME": "Kumar Traders", "QTY": 5, "AMOUNT": 500.0},
		{"MILLER NAME": "Sri Rama Mills", "BUYER NAME": "Devi Stores", "QTY": "2.5", "AMOUNT": "250.456"},
	})
	s.SetBill(session.Bill{Number: "42", Date: "2025-07-31", Period: "June 2025 to July 2025"})
	return s.Snapshot()
}

func TestBuildMillerSide(t *testing.T) {
	r := Build(view(t), model.MillerSide, config.DefaultProfile())

	assert.Equal(t, "42", r.BillNo)
	assert.Equal(t, "31-07-2025", r.BillDate)
	assert.Equal(t, "June 2025 to July 2025", r.Period)
	assert.Equal(t, []Field{{Label: "Miller", Value: "All Millers"}}, r.Recipient)
	assert.Equal(t, "AllMillers", r.FileBase)
	assert.Equal(t, []string{"#", "Date", "Miller", "Buyer", "Bill No", "Quantity", "Rate", "Amount", "Commission"}, r.Columns)

	require.Len(t, r.Lines, 3)
	assert.Equal(t, []string{"1", "15-03-2023", "Sri Rama Mills", "Kumar Traders", "7", "10", "11", "1000.00", "110.00"}, r.Lines[0].Cells())
	assert.Equal(t, []string{"2", "N/A", "Nidhi Agro Industries", "Kumar Traders", "", "5", "1%", "500.00", "5.00"}, r.Lines[1].Cells())
	assert.Equal(t, "250.46", r.Lines[2].Amount)
	assert.Equal(t, "27.50", r.Lines[2].Commission)

	assert.Equal(t, []Field{
		{Label: "Total Transactions", Value: "3"},
		{Label: "Total Quantity (Quintals)", Value: "17.50"},
		{Label: "Total Amount", Value: "1750.46"},
		{Label: "Total Commission", Value: "142.50"},
		{Label: "Commission Type", Value: "Rs. 11 per unit"},
	}, r.Summary)
}

func TestBuildBuyerSide(t *testing.T) {
	s := session.New(service.DefaultRates())
	s.Import([]model.RawRow{
		{"MILLER NAME": "M1", "BUYER": "Kumar Traders", "PLACE": "YPR", "QTY": 1},
		{"MILLER NAME": "M2", "BUYER": "Devi Stores", "QTY": 1},
	})
	s.SelectBuyer("kumar traders")

	r := Build(s.Snapshot(), model.BuyerSide, config.DefaultProfile())
	assert.Equal(t, []Field{{Label: "TO", Value: "kumar traders"}, {Label: "ROAD", Value: "YPR"}}, r.Recipient)
	assert.Equal(t, "kumar_traders", r.FileBase)
	assert.Equal(t, "Buyer", r.Columns[2])
	assert.Equal(t, "Miller", r.Columns[3])
	require.Len(t, r.Lines, 1)
	assert.Equal(t, "Kumar Traders", r.Lines[0].Party)
	assert.Equal(t, "M1", r.Lines[0].Counterpart)
	assert.Equal(t, "-", r.BillNo)
	assert.Equal(t, "-", r.BillDate)
}

func TestCommissionType(t *testing.T) {
	assert.Equal(t, "2.00%", CommissionType(model.Rates{Type: model.Percentage, Rate: 0.02}))
	assert.Equal(t, "Rs. 11 per unit", CommissionType(model.Rates{Type: model.Fixed, FixedRate: 11}))
	assert.Equal(t, "Rs. 10.5 per unit", CommissionType(model.Rates{Type: model.Fixed, FixedRate: 10.5}))
}

func TestFitKeepsTranslatedText(t *testing.T) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 9)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	name := "Café Müller Agro Industries Private Limited"
	assert.Equal(t, tr("Café"), fit(doc, tr, "Café", 200), "short text untouched")

	got := fit(doc, tr, name, 60)
	assert.LessOrEqual(t, doc.GetStringWidth(got), 60.0)
	assert.True(t, strings.HasSuffix(got, ".."))
	assert.NotContains(t, got, "\uFFFD")

	runes := []rune(name)
	matched := false
	for n := 1; n < len(runes); n++ {
		if tr(string(runes[:n])+"..") == got {
			matched = true
			break
		}
	}
	assert.True(t, matched, "truncated on a character boundary before translation")
}

func TestPage(t *testing.T) {
	r := Report{Lines: make([]Line, 23)}
	for i := range r.Lines {
		r.Lines[i].No = i + 1
	}

	tests := []struct {
		name      string
		n, size   int
		wantPage  int
		wantPages int
		wantFirst int
		wantLen   int
	}{
		{name: "first", n: 1, size: 0, wantPage: 1, wantPages: 3, wantFirst: 1, wantLen: 10},
		{name: "last partial", n: 3, size: 10, wantPage: 3, wantPages: 3, wantFirst: 21, wantLen: 3},
		{name: "past end clamps", n: 9, size: 10, wantPage: 3, wantPages: 3, wantFirst: 21, wantLen: 3},
		{name: "zero clamps", n: 0, size: 5, wantPage: 1, wantPages: 5, wantFirst: 1, wantLen: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := r.Page(tt.n, tt.size)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPages, p.Pages)
			assert.Equal(t, 23, p.Total)
			require.Len(t, p.Lines, tt.wantLen)
			assert.Equal(t, tt.wantFirst, p.Lines[0].No)
		})
	}

	empty := Report{}.Page(4, 10)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.Pages)
	assert.Empty(t, empty.Lines)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		selected string
		side     model.Side
		ext      string
		want     string
	}{
		{"all", model.MillerSide, ".pdf", "AllMillers.pdf"},
		{"ALL", model.BuyerSide, ".pdf", "AllBuyers.pdf"},
		{"", model.BuyerSide, "", "AllBuyers"},
		{"Sri Rama Mills (P) Ltd.", model.MillerSide, ".xlsx", "Sri_Rama_Mills__P__Ltd_.xlsx"},
		{"  Devi  Stores ", model.BuyerSide, ".pdf", "Devi_Stores.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.selected, tt.side, tt.ext))
		})
	}
}

func TestRenderPDF(t *testing.T) {
	r := Build(view(t), model.MillerSide, config.DefaultProfile())
	var buf bytes.Buffer
	ok := Export(&buf, r, PDF{Created: time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)}, zerolog.Nop())
	require.True(t, ok)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderXLSX(t *testing.T) {
	r := Build(view(t), model.MillerSide, config.DefaultProfile())
	var buf bytes.Buffer
	require.True(t, Export(&buf, r, XLSX{}, zerolog.Nop()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue(xlsxSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Tejas Canvassing", name)

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	var found bool
	for _, row := range rows {
		if len(row) > 2 && row[0] == "1" && row[2] == "Sri Rama Mills" {
			found = true
		}
	}
	assert.True(t, found, "first transaction line present")
}

type failing struct{ panics bool }

func (failing) ContentType() string { return "text/plain" }
func (failing) Ext() string { return ".txt" }
func (f failing) Render(w io.Writer, _ Report) error {
	if f.panics {
		panic("renderer unavailable")
	}
	_, _ = w.Write([]byte("partial"))
	return errors.New("boom")
}

func TestExportFailure(t *testing.T) {
	for _, panics := range []bool{false, true} {
		var buf bytes.Buffer
		ok := Export(&buf, Report{FileBase: "x"}, failing{panics: panics}, zerolog.Nop())
		assert.False(t, ok)
		assert.Zero(t, buf.Len(), "nothing written on failure")
	}
}

func TestForFormat(t *testing.T) {
	rd, err := ForFormat("")
	require.NoError(t, err)
	assert.Equal(t, ".pdf", rd.Ext())

	rd, err = ForFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", rd.Ext())

	_, err = ForFormat("docx")
	assert.Error(t, err)
}
