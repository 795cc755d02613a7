package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"course_platform/internal/domain/payment/repository"
	"course_platform/internal/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var (
	ledgerFrom string
	ledgerTo   string
)

func newLedgerReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger-report",
		Short: "Summarize successful payment and refund records",
		RunE:  runLedgerReport,
	}
	cmd.Flags().StringVar(&ledgerFrom, "from", "", "start date, inclusive (2006-01-02), defaults to today")
	cmd.Flags().StringVar(&ledgerTo, "to", "", "end date, exclusive (2006-01-02), defaults to from + 1 day")
	return cmd
}

func parseRange(from, to string, now time.Time) (time.Time, time.Time, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if from != "" {
		t, err := time.ParseInLocation(time.DateOnly, from, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
		start = t
	}
	end := start.AddDate(0, 0, 1)
	if to != "" {
		t, err := time.ParseInLocation(time.DateOnly, to, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
		end = t
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to must be after --from")
	}
	return start, end, nil
}

func runLedgerReport(cmd *cobra.Command, args []string) error {
	from, to, err := parseRange(ledgerFrom, ledgerTo, time.Now())
	if err != nil {
		return err
	}

	db, err := sqlx.Connect("pgx", config.GlobalConfig.Database.URL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	rows, err := repository.NewLedgerReport(db).Summary(cmd.Context(), from, to)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "PLATFORM\tTYPE\tCOUNT\tAMOUNT\n")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", row.Platform, row.Type, row.Count, row.Amount.StringFixed(2))
	}
	return w.Flush()
}
