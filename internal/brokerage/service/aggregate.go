package service

import "brokerage-service/internal/brokerage/model"

// Aggregate folds computed rows into totals over unrounded values.
func Aggregate(rows []model.Computed) model.Totals {
	t := model.Totals{Count: len(rows)}
	for _, r := range rows {
		t.Quantity += r.Qty
		t.Amount += r.Amt
		t.Commission += r.Commission
	}
	return t
}
