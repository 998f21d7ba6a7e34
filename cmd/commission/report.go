package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/brokerage/report"
	"brokerage-service/internal/brokerage/service"
	"brokerage-service/internal/brokerage/session"
	"brokerage-service/internal/config"
	"brokerage-service/internal/fileio"
	"brokerage-service/internal/prefs"
	"brokerage-service/internal/utils"
)

type reportOpts struct {
	file      string
	headerRow int
	miller    string
	buyer     string
	shopLoc   string
	ctype     string
	rate      float64
	fixedRate float64
	side      string
	format    string
	out       string
	billNo    string
	billDate  string
	prefsDB   string
}

func reportCmd() *cobra.Command {
	var o reportOpts
	defaults := service.DefaultRates()

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a brokerage bill from a ledger",
		Long: `Read a ledger workbook, filter it by miller and buyer, compute commissions
and write the bill as PDF or XLSX.

Examples:
  # Miller side bill for one miller, 2% of amount
  commission report --file ledger.xlsx --miller "Sri Rama Mills" --type percentage --rate 0.02

  # Buyer side bill at 11 per quintal, as a workbook
  commission report --file ledger.csv --buyer "Kumar Traders" --side buyer --format xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.file, "file", "f", "", "ledger file (.xlsx, .xls, .csv)")
	f.IntVar(&o.headerRow, "header-row", 1, "1-based row holding the column headers")
	f.StringVar(&o.miller, "miller", model.All, "miller to bill, or all")
	f.StringVar(&o.buyer, "buyer", model.All, "buyer to bill, or all")
	f.StringVar(&o.shopLoc, "shop-location", "", "override the buyer's shop location")
	f.StringVar(&o.ctype, "type", string(defaults.Type), "commission type: percentage or fixed")
	f.Float64Var(&o.rate, "rate", defaults.Rate, "percentage rate as a fraction (0.02 = 2%)")
	f.Float64Var(&o.fixedRate, "fixed-rate", defaults.FixedRate, "fixed rate per quintal")
	f.StringVar(&o.side, "side", string(model.MillerSide), "report side: miller or buyer")
	f.StringVar(&o.format, "format", "pdf", "output format: pdf or xlsx")
	f.StringVarP(&o.out, "out", "o", "", "output path (default: derived from the selection; - for stdout)")
	f.StringVar(&o.billNo, "bill-no", "", "bill number")
	f.StringVar(&o.billDate, "bill-date", "", "bill date")
	f.StringVar(&o.prefsDB, "prefs-db", "", "preferences database for the billing period (default: $PREFS_DB)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runReport(cmd *cobra.Command, o reportOpts) error {
	logger := cliLogger(cmd)
	profile, err := loadProfile(cmd)
	if err != nil {
		return err
	}

	rd, err := report.ForFormat(o.format)
	if err != nil {
		return err
	}
	raw, err := readLedger(o.file, o.headerRow)
	if err != nil {
		return err
	}

	rates := model.Rates{
		Type:      model.CommissionType(o.ctype),
		Rate:      o.rate,
		FixedRate: o.fixedRate,
		Overrides: profile.Overrides,
	}
	s := session.New(service.DefaultRates())
	if err := s.SetRates(rates); err != nil {
		return err
	}
	s.Import(raw)
	if s.Empty() {
		return fmt.Errorf("%s: %w", o.file, session.ErrNoData)
	}
	if err := checkParty("miller", o.miller, s.Snapshot().Millers); err != nil {
		return err
	}
	s.SelectMiller(o.miller)
	if err := checkParty("buyer", o.buyer, s.Snapshot().Buyers); err != nil {
		return err
	}
	if utils.Key(o.buyer) != model.All {
		s.SelectBuyer(o.buyer)
	}
	if o.shopLoc != "" {
		s.SetShopLocation(o.shopLoc)
	}
	s.SetBill(session.Bill{
		Number: o.billNo,
		Date:   o.billDate,
		Period: billingPeriod(cmd, o.prefsDB, logger).String(),
	})

	v := s.Snapshot()
	rep := report.Build(v, model.ParseSide(o.side), profile)

	var w io.Writer = cmd.OutOrStdout()
	path := o.out
	if path != "-" {
		if path == "" {
			path = rep.FileBase + rd.Ext()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		fh, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer fh.Close()
		w = fh
	}
	if !report.Export(w, rep, rd, logger) {
		return fmt.Errorf("failed to render %s report", o.format)
	}
	if path != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d rows, quantity %s, amount %s, commission %s\n",
			path, v.Totals.Count, rep.Summary[1].Value, rep.Summary[2].Value, rep.Summary[3].Value)
	}
	return nil
}

// checkParty rejects a name that is not among opts, so a typo cannot turn
// into a bill for everyone.
func checkParty(kind, name string, opts []string) error {
	k := utils.Key(name)
	if k == "" || k == model.All {
		return nil
	}
	for _, o := range opts {
		if utils.Key(o) == k {
			return nil
		}
	}
	return fmt.Errorf("%s %q not found in the ledger (or not trading with the selected miller)", kind, name)
}

func readLedger(path string, headerRow int) ([]model.RawRow, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer fh.Close()
	raw, err := fileio.ReadSheet(fh, path, headerRow)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}

// billingPeriod reads the persisted period when a database is configured.
func billingPeriod(cmd *cobra.Command, dbPath string, logger zerolog.Logger) prefs.Period {
	if dbPath == "" {
		dbPath = os.Getenv("PREFS_DB")
	}
	if dbPath == "" {
		return prefs.DefaultPeriod()
	}
	store, err := prefs.NewSQLite(dbPath)
	if err != nil {
		logger.Warn().Err(err).Str("db", dbPath).Msg("preferences unavailable, using default period")
		return prefs.DefaultPeriod()
	}
	defer store.Close()
	p, err := prefs.LoadPeriod(cmd.Context(), store)
	if err != nil {
		logger.Warn().Err(err).Msg("billing period not loaded")
	}
	return p
}

func loadProfile(cmd *cobra.Command) (config.Profile, error) {
	path, _ := cmd.Flags().GetString("profile")
	if path == "" {
		path = os.Getenv("PROFILE_FILE")
	}
	return config.LoadProfile(path)
}

func cliLogger(cmd *cobra.Command) zerolog.Logger {
	lvlStr, _ := cmd.Flags().GetString("log-level")
	lvl, err := zerolog.ParseLevel(lvlStr)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(lvl).With().Timestamp().Logger()
}
