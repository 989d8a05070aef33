package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/ledger"
	"github.com/centsible/centsible/internal/model"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a spending summary for a date range",
		Long: `Aggregate a user's transactions into a spending summary.

The summary shows per-type totals, per-category totals, and a daily
time series. Without --from/--to the current calendar month is used.`,
		RunE: runReport,
	}

	cmd.Flags().String("owner", "", "User id whose transactions to summarize")
	cmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "End date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ownerID, _ := cmd.Flags().GetString("owner")

	from, err := flagDate(cmd, "from")
	if err != nil {
		return err
	}
	to, err := flagDate(cmd, "to")
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	summary, err := ledger.New(store).Summarize(ctx, ownerID, from, to)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	fmt.Println(cli.RenderBox(cli.ChartIcon+" Spending Summary", renderSummary(summary)))

	return nil
}

func flagDate(cmd *cobra.Command, name string) (*time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse --%s: %w", name, err)
	}
	return &t, nil
}

func renderSummary(summary *model.Summary) string {
	var b strings.Builder

	b.WriteString(cli.BoldStyle.Render("Totals"))
	b.WriteString("\n")
	if len(summary.Totals) == 0 {
		b.WriteString(cli.SubtleStyle.Render("  no transactions in range"))
		b.WriteString("\n")
	}
	for _, t := range summary.Totals {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", t.Type, renderAmount(t.Type, t.Total)))
	}

	if len(summary.ByCategory) > 0 {
		b.WriteString("\n")
		b.WriteString(cli.BoldStyle.Render("By category"))
		b.WriteString("\n")
		for _, ct := range summary.ByCategory {
			b.WriteString(fmt.Sprintf("  %-24s %-8s %s\n", ct.CategoryName, ct.Type, renderAmount(ct.Type, ct.Total)))
		}
	}

	if len(summary.TimeSeries) > 0 {
		b.WriteString("\n")
		b.WriteString(cli.BoldStyle.Render("Daily"))
		b.WriteString("\n")
		for _, day := range summary.TimeSeries {
			b.WriteString(fmt.Sprintf("  %s  in %s  out %s\n",
				day.Date,
				cli.IncomeStyle.Render(day.Income.StringFixed(2)),
				cli.ExpenseStyle.Render(day.Expense.StringFixed(2))))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderAmount(txnType model.TransactionType, amount decimal.Decimal) string {
	if txnType == model.TransactionTypeIncome {
		return cli.IncomeStyle.Render(amount.StringFixed(2))
	}
	return cli.ExpenseStyle.Render(amount.StringFixed(2))
}
