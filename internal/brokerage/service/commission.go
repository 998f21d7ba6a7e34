package service

import (
	"errors"
	"fmt"

	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/utils"
)

// DefaultOverrides is the built-in override table: Nidhi Agro always pays 1%
// of the amount, whatever rate is configured.
var DefaultOverrides = []model.Override{
	{Pattern: "nidhi agro", Rate: 0.01, Label: "1%"},
}

// DefaultRates are the rates a fresh session starts with.
func DefaultRates() model.Rates {
	return model.Rates{
		Type:      model.Fixed,
		Rate:      0.02,
		FixedRate: 11,
		Overrides: DefaultOverrides,
	}
}

var (
	ErrCommissionType = errors.New("commission type must be percentage or fixed")
	ErrNegativeRate   = errors.New("rates cannot be negative")
)

// ValidateRates checks user supplied rates. Compute itself accepts anything.
func ValidateRates(r model.Rates) error {
	switch r.Type {
	case model.Percentage, model.Fixed:
	default:
		return fmt.Errorf("%w: %q", ErrCommissionType, r.Type)
	}
	if r.Rate < 0 || r.FixedRate < 0 {
		return ErrNegativeRate
	}
	for _, o := range r.Overrides {
		if o.Rate < 0 {
			return fmt.Errorf("%w: override %q", ErrNegativeRate, o.Pattern)
		}
	}
	return nil
}

// RateLabel is the Rate column text for the configured (non-override) rate.
func RateLabel(r model.Rates) string {
	if r.Type == model.Percentage {
		return fmt.Sprintf("%.2f%%", r.Rate*100)
	}
	return utils.Trim(r.FixedRate)
}

// Compute derives quantity, amount and commission of one row.
//
// Order: the first override whose pattern occurs in the miller name, then the
// percentage rate on amount, otherwise the fixed rate per quantity.
func Compute(row model.Row, r model.Rates) model.Computed {
	c := model.Computed{
		Row: row,
		Qty: cellNumber(row.Quantity),
		Amt: cellNumber(row.Amount),
	}
	for _, o := range r.Overrides {
		if o.Matches(row.Miller) {
			c.Commission = c.Amt * o.Rate
			c.RateLabel = overrideLabel(o)
			c.Overridden = true
			return c
		}
	}
	if r.Type == model.Percentage {
		c.Commission = c.Amt * r.Rate
	} else {
		c.Commission = c.Qty * r.FixedRate
	}
	c.RateLabel = RateLabel(r)
	return c
}

func overrideLabel(o model.Override) string {
	if o.Label != "" {
		return o.Label
	}
	return utils.Trim(o.Rate*100) + "%"
}

// ComputeAll applies Compute to every row, keeping order.
func ComputeAll(rows []model.Row, r model.Rates) []model.Computed {
	out := make([]model.Computed, len(rows))
	for i, row := range rows {
		out[i] = Compute(row, r)
	}
	return out
}
