package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"brokerage-service/internal/brokerage/service"
)

func inspectCmd() *cobra.Command {
	var headerRow int
	cmd := &cobra.Command{
		Use:   "inspect <ledger>",
		Short: "Show which columns of a ledger are recognized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readLedger(args[0], headerRow)
			if err != nil {
				return err
			}
			rep := service.Inspect(raw)
			rows := service.NormalizeSheet(raw)
			locs := service.ExtractBuyerLocations(rows)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "rows\t%d\n", rep.Rows)
			fmt.Fprintf(tw, "buyer locations\t%d\n", len(locs))
			for _, f := range rep.Recognized {
				fmt.Fprintf(tw, "recognized\t%s\n", f)
			}
			for _, h := range rep.Unrecognized {
				if h.Suggestion != "" {
					fmt.Fprintf(tw, "unrecognized\t%s\tmaybe %s (%.2f)\n", h.Header, h.Suggestion, h.Score)
				} else {
					fmt.Fprintf(tw, "unrecognized\t%s\n", h.Header)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&headerRow, "header-row", 1, "1-based row holding the column headers")
	return cmd
}
