// Package session holds the working state of one brokerage session: the
// imported ledger, the user's selections and everything derived from them.
//
// Every mutation runs the same one-way pipeline: option sets are narrowed,
// out-of-range selections are resolved, then the filtered rows, computed rows
// and totals are rebuilt and subscribers are notified with the new View.
package session

import (
	"errors"

	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/brokerage/service"
	"brokerage-service/internal/utils"
)

// ErrNoData is returned by operations that need an imported ledger.
var ErrNoData = errors.New("no ledger imported")

// maxPasses bounds selection auto-resolution; two passes always reach a
// fixed point, the rest is headroom.
const maxPasses = 4

// Selection is what the user picked.
type Selection struct {
	Miller       string `json:"miller"`
	Buyer        string `json:"buyer"`
	ShopLocation string `json:"shopLocation"`
	BuyerManual  bool   `json:"buyerManual"` // buyer chosen by hand, even if "all"
}

// Bill is the header metadata printed on the report.
type Bill struct {
	Number string `json:"billNumber"`
	Date   string `json:"billDate"`
	Period string `json:"periodOfBilling"`
}

// View is the derived, read-only state handed to renderers.
type View struct {
	Selection Selection          `json:"selection"`
	Rates     model.Rates        `json:"rates"`
	Bill      Bill               `json:"bill"`
	Millers   []string           `json:"millers"`
	Buyers    []string           `json:"buyers"`
	Locations model.LocationMap  `json:"locations"`
	Rows      []model.Computed   `json:"-"`
	Totals    model.Totals       `json:"totals"`
	Import    model.ImportReport `json:"import"`
	Loaded    int                `json:"loaded"` // rows in the whole ledger
}

type axis int

const (
	millerAxis axis = iota
	buyerAxis
)

// Store is the state container. It is not safe for concurrent use.
type Store struct {
	rows      []model.Row
	locations model.LocationMap
	report    model.ImportReport
	sel       Selection
	rates     model.Rates
	bill      Bill
	view      View
	subs      map[int]func(View)
	nextSub   int
}

// New returns an empty store using rates until SetRates is called.
func New(rates model.Rates) *Store {
	s := &Store{
		rates:     rates,
		locations: model.LocationMap{},
		sel:       Selection{Miller: model.All, Buyer: model.All},
		subs:      make(map[int]func(View)),
	}
	s.derive(buyerAxis)
	return s
}

// Subscribe registers fn for every new View and returns its cancel func.
func (s *Store) Subscribe(fn func(View)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// Import replaces the whole dataset. Nothing from the previous ledger
// survives: selections go back to "all" and the shop location is cleared.
func (s *Store) Import(raw []model.RawRow) model.ImportReport {
	s.rows = service.NormalizeSheet(raw)
	s.report = service.Inspect(raw)
	s.locations = service.ExtractBuyerLocations(s.rows)
	s.sel = Selection{Miller: model.All, Buyer: model.All}
	s.view = View{}
	s.derive(millerAxis)
	return s.report
}

// SelectMiller picks a miller (or model.All) and resets the buyer.
func (s *Store) SelectMiller(miller string) {
	s.sel.Miller = normalizeChoice(miller)
	s.sel.Buyer = model.All
	s.sel.BuyerManual = false
	s.derive(millerAxis)
}

// SelectBuyer picks a buyer (or model.All) and fills its shop location.
func (s *Store) SelectBuyer(buyer string) {
	s.sel.Buyer = normalizeChoice(buyer)
	s.sel.BuyerManual = true
	s.derive(buyerAxis)
}

// SetShopLocation overrides the location printed for the buyer.
func (s *Store) SetShopLocation(loc string) {
	s.sel.ShopLocation = utils.Sanitize(loc)
	s.derive(buyerAxis)
}

// SetRates swaps the rate configuration after validating it.
func (s *Store) SetRates(r model.Rates) error {
	if err := service.ValidateRates(r); err != nil {
		return err
	}
	s.rates = r
	s.derive(buyerAxis)
	return nil
}

// SetBill updates the report header metadata.
func (s *Store) SetBill(b Bill) {
	s.bill = Bill{
		Number: utils.Sanitize(b.Number),
		Date:   utils.Sanitize(b.Date),
		Period: utils.Sanitize(b.Period),
	}
	s.derive(buyerAxis)
}

// Snapshot returns the current View. Treat its slices as read-only.
func (s *Store) Snapshot() View { return s.view }

// Empty reports whether a ledger has been imported.
func (s *Store) Empty() bool { return len(s.rows) == 0 }

func normalizeChoice(v string) string {
	v = utils.Sanitize(v)
	if v == "" || utils.Key(v) == model.All {
		return model.All
	}
	return v
}

// derive runs the pipeline. changed is the axis the user just touched; the
// other axis is resolved against it first so the user's choice wins.
func (s *Store) derive(changed axis) {
	prevBuyer := s.view.Selection.Buyer

	var millers, buyers []string
	for pass := 0; pass < maxPasses; pass++ {
		moved := false
		if changed == buyerAxis {
			millers = s.millerOptions()
			moved = s.resolveMiller(millers) || moved
			buyers = s.buyerOptions()
			moved = s.resolveBuyer(buyers) || moved
		} else {
			buyers = s.buyerOptions()
			moved = s.resolveBuyer(buyers) || moved
			millers = s.millerOptions()
			moved = s.resolveMiller(millers) || moved
		}
		if !moved {
			break
		}
	}

	if s.sel.Buyer != model.All && utils.Key(s.sel.Buyer) != utils.Key(prevBuyer) {
		if loc, ok := s.locations.Lookup(s.sel.Buyer); ok {
			s.sel.ShopLocation = loc
		}
	}

	filtered := s.filter()
	computed := service.ComputeAll(filtered, s.rates)
	s.view = View{
		Selection: s.sel,
		Rates:     s.rates,
		Bill:      s.bill,
		Millers:   millers,
		Buyers:    buyers,
		Locations: s.locations,
		Rows:      computed,
		Totals:    service.Aggregate(computed),
		Import:    s.report,
		Loaded:    len(s.rows),
	}
	for _, fn := range s.subs {
		fn(s.view)
	}
}

// resolveMiller keeps the miller inside its option set: an out-of-set choice
// becomes the only remaining option, or "all".
func (s *Store) resolveMiller(opts []string) bool {
	if s.sel.Miller == model.All || containsKey(opts, s.sel.Miller) {
		return false
	}
	s.sel.Miller = single(opts)
	return true
}

// resolveBuyer is resolveMiller for buyers, plus: a buyer left on "all" by the
// system is auto-selected when exactly one buyer remains.
func (s *Store) resolveBuyer(opts []string) bool {
	if s.sel.Buyer == model.All {
		if !s.sel.BuyerManual && len(opts) == 1 {
			s.sel.Buyer = opts[0]
			return true
		}
		return false
	}
	if containsKey(opts, s.sel.Buyer) {
		return false
	}
	s.sel.Buyer = single(opts)
	if s.sel.Buyer == model.All {
		s.sel.BuyerManual = false
	}
	return true
}

func single(opts []string) string {
	if len(opts) == 1 {
		return opts[0]
	}
	return model.All
}

// millerOptions lists millers that trade with the selected buyer.
func (s *Store) millerOptions() []string {
	bk := ""
	if s.sel.Buyer != model.All {
		bk = utils.Key(s.sel.Buyer)
	}
	return distinct(s.rows, func(r model.Row) (string, bool) {
		return r.Miller, bk == "" || r.BuyerKey == bk
	})
}

// buyerOptions lists buyers that trade with the selected miller.
func (s *Store) buyerOptions() []string {
	mk := ""
	if s.sel.Miller != model.All {
		mk = utils.Key(s.sel.Miller)
	}
	return distinct(s.rows, func(r model.Row) (string, bool) {
		return r.Buyer, mk == "" || utils.Key(r.Miller) == mk
	})
}

// filter keeps source order.
func (s *Store) filter() []model.Row {
	mk, bk := "", ""
	if s.sel.Miller != model.All {
		mk = utils.Key(s.sel.Miller)
	}
	if s.sel.Buyer != model.All {
		bk = utils.Key(s.sel.Buyer)
	}
	out := make([]model.Row, 0, len(s.rows))
	for _, r := range s.rows {
		if mk != "" && utils.Key(r.Miller) != mk {
			continue
		}
		if bk != "" && r.BuyerKey != bk {
			continue
		}
		out = append(out, r)
	}
	return out
}

// distinct collects names in first-seen order, one per Key.
func distinct(rows []model.Row, pick func(model.Row) (string, bool)) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range rows {
		name, ok := pick(r)
		k := utils.Key(name)
		if !ok || k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, utils.Sanitize(name))
	}
	return out
}

func containsKey(opts []string, v string) bool {
	k := utils.Key(v)
	for _, o := range opts {
		if utils.Key(o) == k {
			return true
		}
	}
	return false
}
