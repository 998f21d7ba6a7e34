package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brokerage-service/internal/brokerage/model"
)

func sampleSheet() []model.RawRow {
	return []model.RawRow{
		{"Date": 45000.0, "Miller Name": "Nidhi Agro Industries", "BUYER NAMER": "  john   doe ", "Qtls": "50", "Total": "1,000", "PLACE": "MGB", "Lorry No": " KA 01  1234 "},
		{"DATE": "15-03-2023", "MILLER NAME": "Sri Balaji Mills", "BUYER": "Ravi Traders", "QUANTITY": 20.0, "AMOUNT": 5400.0, "SHOP LOC": "", "PLACE": "YPR", "BILL NO": 1023.0},
		{"date": "N/A", "miller": "Sri Balaji Mills", "Buyer Name": "John Doe", "qty": "abc"},
	}
}

func TestNormalizeSheet(t *testing.T) {
	rows := NormalizeSheet(sampleSheet())
	require.Len(t, rows, 3)

	r := rows[0]
	assert.Equal(t, 1, r.Index)
	assert.Equal(t, 45000.0, r.Date)
	assert.Equal(t, "50", r.Quantity)
	assert.Equal(t, "1,000", r.Amount)
	assert.Equal(t, "john doe", r.Buyer)
	assert.Equal(t, "john doe", r.BuyerKey)
	assert.Equal(t, "Nidhi Agro Industries", r.Miller)
	assert.Equal(t, "MGB", r.ShopLoc)
	assert.Equal(t, map[string]any{"LORRY NO": "KA 01 1234"}, r.Extra)

	r = rows[1]
	assert.Equal(t, "YPR", r.ShopLoc, "blank SHOP LOC falls through to PLACE")
	assert.Equal(t, "1023", r.BillNo)
	assert.Nil(t, r.Extra)

	r = rows[2]
	assert.Equal(t, 3, r.Index)
	assert.Equal(t, "John Doe", r.Buyer)
	assert.Equal(t, "john doe", r.BuyerKey)
	assert.Equal(t, "Sri Balaji Mills", r.Miller)
	assert.Equal(t, "abc", r.Quantity)
}

func TestNormalizeSynonymPriority(t *testing.T) {
	row := NormalizeRow(model.RawRow{"SHOP LOC": "4TH", "PLACE": "5TH", "QTY": "3", "QUINTALS": "7"}, 1)
	assert.Equal(t, "4TH", row.ShopLoc)
	assert.Equal(t, "7", row.Quantity, "QUINTALS ranks above QTY")
	assert.Nil(t, row.Extra, "losing synonyms are dropped, not kept as extras")
}

func TestNormalizeSheetIdempotent(t *testing.T) {
	once := NormalizeSheet(sampleSheet())
	twice := NormalizeSheet(rowsToRaw(once))
	assert.Equal(t, once, twice)
}

func TestCanonicalField(t *testing.T) {
	tests := []struct {
		header string
		want   string
		known  bool
	}{
		{" qtls ", model.FieldQuantity, true},
		{"Total Amount", model.FieldAmount, true},
		{"place", model.FieldShopLoc, true},
		{"Buyer Namer", model.FieldBuyer, true},
		{"Rate", model.FieldRate, true},
		{"Lorry No", "LORRY NO", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, known := CanonicalField(tt.header)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestInspect(t *testing.T) {
	rep := Inspect([]model.RawRow{
		{"DATE": 1.0, "BYUER": "x", "QTY": 1, "Lorry No": "KA"},
		{"DATE": 2.0, "BYUER": "y"},
	})
	assert.Equal(t, 2, rep.Rows)
	assert.Equal(t, []string{model.FieldDate, model.FieldQuantity}, rep.Recognized)
	require.Len(t, rep.Unrecognized, 2)
	assert.Equal(t, "BYUER", rep.Unrecognized[0].Header)
	assert.Equal(t, model.FieldBuyer, rep.Unrecognized[0].Suggestion)
	assert.Equal(t, "LORRY NO", rep.Unrecognized[1].Header)
	assert.Empty(t, rep.Unrecognized[1].Suggestion)
}
