// Package prefs remembers the billing period between sessions. It is the only
// state that outlives a session.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("preference not found")

// Store is a small string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Close() error
}

const (
	keyFromMonth = "fromMonth"
	keyFromYear  = "fromYear"
	keyToMonth   = "toMonth"
	keyToYear    = "toYear"
)

var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Period is the billing period printed on reports. It never filters rows.
type Period struct {
	FromMonth string `json:"fromMonth"`
	FromYear  string `json:"fromYear"`
	ToMonth   string `json:"toMonth"`
	ToYear    string `json:"toYear"`
}

func DefaultPeriod() Period {
	return Period{FromMonth: "June", FromYear: "2025", ToMonth: "July", ToYear: "2025"}
}

// String renders "June 2025 to July 2025".
func (p Period) String() string {
	return fmt.Sprintf("%s %s to %s %s", p.FromMonth, p.FromYear, p.ToMonth, p.ToYear)
}

// Normalize canonicalizes month names ("jun", "JUNE" -> "June") and checks
// that years are numbers.
func (p Period) Normalize() (Period, error) {
	var err error
	if p.FromMonth, err = month(p.FromMonth); err != nil {
		return p, err
	}
	if p.ToMonth, err = month(p.ToMonth); err != nil {
		return p, err
	}
	for _, y := range []*string{&p.FromYear, &p.ToYear} {
		*y = strings.TrimSpace(*y)
		if n, err := strconv.Atoi(*y); err != nil || n < 1900 || n > 9999 {
			return p, fmt.Errorf("invalid year %q", *y)
		}
	}
	return p, nil
}

func month(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 3 {
		for _, m := range months {
			if strings.HasPrefix(strings.ToLower(m), strings.ToLower(s)) {
				return m, nil
			}
		}
	}
	return "", fmt.Errorf("invalid month %q", s)
}

// LoadPeriod reads the stored period; missing fields fall back to defaults.
func LoadPeriod(ctx context.Context, s Store) (Period, error) {
	p := DefaultPeriod()
	for key, dst := range map[string]*string{
		keyFromMonth: &p.FromMonth,
		keyFromYear:  &p.FromYear,
		keyToMonth:   &p.ToMonth,
		keyToYear:    &p.ToYear,
	} {
		v, err := s.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return DefaultPeriod(), fmt.Errorf("load %s: %w", key, err)
		}
		*dst = v
	}
	return p, nil
}

// SavePeriod validates and stores all four fields.
func SavePeriod(ctx context.Context, s Store, p Period) (Period, error) {
	p, err := p.Normalize()
	if err != nil {
		return p, err
	}
	for _, kv := range [][2]string{
		{keyFromMonth, p.FromMonth},
		{keyFromYear, p.FromYear},
		{keyToMonth, p.ToMonth},
		{keyToYear, p.ToYear},
	} {
		if err := s.Put(ctx, kv[0], kv[1]); err != nil {
			return p, fmt.Errorf("save %s: %w", kv[0], err)
		}
	}
	return p, nil
}
