// Package handler exposes a brokerage session over HTTP. Request parameters
// arrive as form or query values; responses are JSON except for exports.
package handler

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/brokerage/report"
	"brokerage-service/internal/brokerage/service"
	"brokerage-service/internal/brokerage/session"
	"brokerage-service/internal/config"
	"brokerage-service/internal/fileio"
	"brokerage-service/internal/prefs"
)

// Handler owns the single in-memory session of the service.
type Handler struct {
	cfg     config.Config
	logger  zerolog.Logger
	profile config.Profile
	prefs   prefs.Store

	mu    sync.Mutex // guards store
	store *session.Store
}

// New starts a session with the default rates, the profile's override table
// and the persisted billing period.
func New(cfg config.Config, logger zerolog.Logger, profile config.Profile, ps prefs.Store) *Handler {
	rates := service.DefaultRates()
	rates.Overrides = profile.Overrides

	h := &Handler{
		cfg:     cfg,
		logger:  logger,
		profile: profile,
		prefs:   ps,
		store:   session.New(rates),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	period, err := prefs.LoadPeriod(ctx, ps)
	if err != nil {
		logger.Warn().Err(err).Msg("billing period not loaded, using default")
	}
	h.store.SetBill(session.Bill{Period: period.String()})
	h.store.Subscribe(func(v session.View) {
		logger.Debug().
			Str("miller", v.Selection.Miller).
			Str("buyer", v.Selection.Buyer).
			Int("rows", v.Totals.Count).
			Int("loaded", v.Loaded).
			Msg("view derived")
	})
	return h
}

type stateResponse struct {
	session.View
	ShopLocations []string `json:"shopLocations"`
}

func (h *Handler) state() stateResponse {
	return stateResponse{View: h.store.Snapshot(), ShopLocations: h.profile.ShopLocations}
}

// Import replaces the session ledger with the uploaded sheet. A sheet that
// cannot be decoded is rejected as a whole and the previous ledger stays.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := requestLogger(h.logger, r)
	defer r.Body.Close()

	if err := r.ParseMultipartForm(int64(h.cfg.MaxUploadMB) << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	raw, err := fileio.ReadSheet(file, header.Filename, atoi(r.FormValue("header_row"), 1))
	if err != nil {
		log.Warn().Err(err).Str("file", header.Filename).Msg("import failed")
		http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	rep := h.store.Import(raw)
	resp := h.state()
	h.mu.Unlock()

	log.Info().
		Str("file", header.Filename).
		Int("rows", rep.Rows).
		Strs("recognized", rep.Recognized).
		Int("unrecognized", len(rep.Unrecognized)).
		Dur("elapsed", time.Since(start)).
		Msg("import done")
	writeJSON(w, log, http.StatusOK, resp)
}

// State returns the current view without the row data.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := h.state()
	h.mu.Unlock()
	writeJSON(w, requestLogger(h.logger, r), http.StatusOK, resp)
}

// Selection applies miller, buyer and shop_location, in that order, for the
// keys present in the request.
func (h *Handler) Selection(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.logger, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	if v, ok := formValue(r, "miller"); ok {
		h.store.SelectMiller(v)
	}
	if v, ok := formValue(r, "buyer"); ok {
		h.store.SelectBuyer(v)
	}
	if v, ok := formValue(r, "shop_location"); ok {
		h.store.SetShopLocation(v)
	}
	resp := h.state()
	h.mu.Unlock()

	writeJSON(w, log, http.StatusOK, resp)
}

// Rates updates commission_type, commission_rate and fixed_rate. Missing keys
// keep their current value; the override table is not editable here.
func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.logger, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	rates := h.store.Snapshot().Rates
	if v, ok := formValue(r, "commission_type"); ok {
		rates.Type = model.CommissionType(v)
	}
	if v, ok := formValue(r, "commission_rate"); ok {
		rates.Rate = toFloat(v, rates.Rate)
		if toBool(r.FormValue("percent"), false) {
			rates.Rate /= 100
		}
	}
	if v, ok := formValue(r, "fixed_rate"); ok {
		rates.FixedRate = toFloat(v, rates.FixedRate)
	}
	if err := h.store.SetRates(rates); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, log, http.StatusOK, h.state())
}

// Bill updates bill_number and bill_date. The period is owned by /period.
func (h *Handler) Bill(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.logger, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	bill := h.store.Snapshot().Bill
	if v, ok := formValue(r, "bill_number"); ok {
		bill.Number = v
	}
	if v, ok := formValue(r, "bill_date"); ok {
		bill.Date = v
	}
	h.store.SetBill(bill)
	resp := h.state()
	h.mu.Unlock()

	writeJSON(w, log, http.StatusOK, resp)
}

type previewResponse struct {
	Side      model.Side      `json:"side"`
	Period    string          `json:"period"`
	BillNo    string          `json:"billNo"`
	BillDate  string          `json:"billDate"`
	Recipient []report.Field  `json:"recipient"`
	Columns   []string        `json:"columns"`
	Summary   []report.Field  `json:"summary"`
	Totals    model.Totals    `json:"totals"`
	Page      report.PageView `json:"page"`
}

// Preview returns one page of the report for ?side=miller|buyer&page=N.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	side := model.ParseSide(r.URL.Query().Get("side"))
	rep := h.build(side)
	writeJSON(w, requestLogger(h.logger, r), http.StatusOK, previewResponse{
		Side:      rep.Side,
		Period:    rep.Period,
		BillNo:    rep.BillNo,
		BillDate:  rep.BillDate,
		Recipient: rep.Recipient,
		Columns:   rep.Columns,
		Summary:   rep.Summary,
		Totals:    rep.Totals,
		Page:      rep.Page(atoi(r.URL.Query().Get("page"), 1), h.cfg.PageSize),
	})
}

// Export streams the report as ?format=pdf|xlsx for ?side=miller|buyer.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.logger, r)
	q := r.URL.Query()

	rd, err := report.ForFormat(q.Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	empty := h.store.Empty()
	h.mu.Unlock()
	if empty {
		http.Error(w, session.ErrNoData.Error(), http.StatusConflict)
		return
	}

	rep := h.build(model.ParseSide(q.Get("side")))
	var buf bytes.Buffer
	if !report.Export(&buf, rep, rd, log) {
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	name := rep.FileBase + rd.Ext()
	w.Header().Set("Content-Type", rd.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Str("file", name).Msg("write export")
	}
}

func (h *Handler) build(side model.Side) report.Report {
	h.mu.Lock()
	v := h.store.Snapshot()
	h.mu.Unlock()
	return report.Build(v, side, h.profile)
}

// GetPeriod returns the persisted billing period.
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.logger, r)
	p, err := prefs.LoadPeriod(r.Context(), h.prefs)
	if err != nil {
		log.Error().Err(err).Msg("load period")
		http.Error(w, "failed to load period", http.StatusInternalServerError)
		return
	}
	writeJSON(w, log, http.StatusOK, periodResponse{Period: p, Text: p.String()})
}

type periodResponse struct {
	prefs.Period
	Text string `json:"text"`
}

// PutPeriod validates and persists from_month, from_year, to_month and
// to_year, then prints the new period on the session's bill.
func (h *Handler) PutPeriod(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.logger, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form: "+err.Error(), http.StatusBadRequest)
		return
	}

	cur, err := prefs.LoadPeriod(r.Context(), h.prefs)
	if err != nil {
		log.Warn().Err(err).Msg("load period")
	}
	for key, dst := range map[string]*string{
		"from_month": &cur.FromMonth,
		"from_year":  &cur.FromYear,
		"to_month":   &cur.ToMonth,
		"to_year":    &cur.ToYear,
	} {
		if v, ok := formValue(r, key); ok {
			*dst = v
		}
	}
	if _, err := cur.Normalize(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := prefs.SavePeriod(r.Context(), h.prefs, cur)
	if err != nil {
		log.Error().Err(err).Msg("save period")
		http.Error(w, "failed to save period", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	bill := h.store.Snapshot().Bill
	bill.Period = p.String()
	h.store.SetBill(bill)
	h.mu.Unlock()

	log.Info().Str("period", p.String()).Msg("period saved")
	writeJSON(w, log, http.StatusOK, periodResponse{Period: p, Text: p.String()})
}
