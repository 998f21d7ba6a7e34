package service

import (
	"sort"

	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/utils"
)

// ShadowBuyerKey carries the lowercase buyer key when a row is flattened back
// to a raw mapping. The normalizer always recomputes it.
const ShadowBuyerKey = "__BUYER_NORM__"

type synonym struct {
	field   string
	aliases []string // priority order, HeaderKey form
}

// synonyms is the header table. Within a field, the first alias that holds a
// non-blank value wins; the other aliases of that field are dropped.
var synonyms = []synonym{
	{model.FieldDate, []string{"DATE"}},
	{model.FieldQuantity, []string{"QUANTITY", "QUINTALS", "QTY", "QTLS", "QUINTAL"}},
	{model.FieldAmount, []string{"AMOUNT", "NET AMT.", "NET AMT", "AMT", "TOTAL", "TOTAL AMOUNT", "VALUE"}},
	{model.FieldRate, []string{"RATE"}},
	{model.FieldBuyer, []string{"BUYER", "BUYER NAME", "BUYER NAMER"}},
	{model.FieldMiller, []string{"MILLER NAME", "MILLER"}},
	{model.FieldBillNo, []string{"BILL NO", "BILL NO.", "BILL NUMBER", "BILL"}},
	{model.FieldShopLoc, []string{"SHOP LOC", "PLACE"}},
}

var aliasField = func() map[string]string {
	m := make(map[string]string)
	for _, s := range synonyms {
		for _, a := range s.aliases {
			m[a] = s.field
		}
	}
	return m
}()

// CanonicalField maps a raw header to its canonical name. Unknown headers come
// back in HeaderKey form with ok == false.
func CanonicalField(header string) (string, bool) {
	hk := utils.HeaderKey(header)
	if f, ok := aliasField[hk]; ok {
		return f, true
	}
	return hk, false
}

// NormalizeSheet rewrites raw rows into canonical rows, keeping source order.
func NormalizeSheet(raw []model.RawRow) []model.Row {
	out := make([]model.Row, 0, len(raw))
	for i, r := range raw {
		out = append(out, NormalizeRow(r, i+1))
	}
	return out
}

// NormalizeRow canonicalizes one raw row; index is its 1-based position.
func NormalizeRow(raw model.RawRow, index int) model.Row {
	f := fold(raw)
	picked := make(map[string]any, len(synonyms))
	for _, s := range synonyms {
		if v, ok := pick(f, s.aliases); ok {
			picked[s.field] = cleanCell(v)
		}
	}

	row := model.Row{
		Index:    index,
		Date:     picked[model.FieldDate],
		Quantity: picked[model.FieldQuantity],
		Amount:   picked[model.FieldAmount],
		Rate:     picked[model.FieldRate],
		Buyer:    cellText(picked[model.FieldBuyer]),
		Miller:   cellText(picked[model.FieldMiller]),
		BillNo:   cellText(picked[model.FieldBillNo]),
		ShopLoc:  cellText(picked[model.FieldShopLoc]),
	}
	row.BuyerKey = utils.Key(row.Buyer)

	for k, v := range f {
		if _, known := aliasField[k]; known || k == ShadowBuyerKey {
			continue
		}
		if row.Extra == nil {
			row.Extra = make(map[string]any)
		}
		row.Extra[k] = cleanCell(v)
	}
	return row
}

// cleanCell sanitizes text cells and leaves typed cells untouched.
func cleanCell(v any) any {
	if s, ok := v.(string); ok {
		return utils.Sanitize(s)
	}
	return v
}

// rowToRaw flattens a canonical row back into a raw mapping. Feeding the
// result to NormalizeRow with the same index yields the same row.
func rowToRaw(r model.Row) model.RawRow {
	raw := make(model.RawRow, len(r.Extra)+9)
	for k, v := range r.Extra {
		raw[k] = v
	}
	put := func(k string, v any) {
		if !isBlank(v) {
			raw[k] = v
		}
	}
	put(model.FieldDate, r.Date)
	put(model.FieldQuantity, r.Quantity)
	put(model.FieldAmount, r.Amount)
	put(model.FieldRate, r.Rate)
	put(model.FieldBuyer, r.Buyer)
	put(model.FieldMiller, r.Miller)
	put(model.FieldBillNo, r.BillNo)
	put(model.FieldShopLoc, r.ShopLoc)
	put(ShadowBuyerKey, r.BuyerKey)
	return raw
}

// rowsToRaw is rowToRaw over a slice.
func rowsToRaw(rows []model.Row) []model.RawRow {
	out := make([]model.RawRow, len(rows))
	for i, r := range rows {
		out[i] = rowToRaw(r)
	}
	return out
}

// Inspect reports which canonical fields a sheet provides and which headers
// were not recognized, with the nearest canonical field as a hint.
func Inspect(raw []model.RawRow) model.ImportReport {
	rep := model.ImportReport{Rows: len(raw)}
	seen := make(map[string]bool)
	recognized := make(map[string]bool)
	for _, r := range raw {
		labels := make([]string, 0, len(r))
		for k := range r {
			labels = append(labels, k)
		}
		sort.Strings(labels)
		for _, k := range labels {
			hk := utils.HeaderKey(k)
			if hk == "" || hk == ShadowBuyerKey || seen[hk] {
				continue
			}
			seen[hk] = true
			if f, ok := CanonicalField(hk); ok {
				recognized[f] = true
				continue
			}
			rep.Unrecognized = append(rep.Unrecognized, headerIndex.hint(hk))
		}
	}
	for _, s := range synonyms {
		if recognized[s.field] {
			rep.Recognized = append(rep.Recognized, s.field)
		}
	}
	return rep
}
