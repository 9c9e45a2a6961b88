package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/money"
	"github.com/cleared-dev/reconcile/internal/recon"
)

// printBucket writes one bucket as a table with row numbers usable by toggle.
func printBucket(out io.Writer, side recon.Side, rows []recon.Row, unit money.Unit, currency string) {
	fmt.Fprintf(out, "%s (%d)\n", bucketTitle(side), len(rows))
	if len(rows) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, row := range rows {
		mark := " "
		if row.Selected {
			mark = "x"
		}
		fmt.Fprintf(tw, "  %d\t[%s]\t%s\t%s\t%s\t%s\t%s\t\n",
			i, mark,
			row.Split.Date.Format("2006-01-02"),
			row.Split.Num,
			row.Split.Description,
			money.Format(row.Magnitude, unit, currency),
			row.Split.ID)
	}
	tw.Flush()
}

func bucketTitle(side recon.Side) string {
	if side == recon.Debit {
		return "Debits"
	}
	return "Credits"
}

func printTotals(out io.Writer, s *recon.Session, t recon.Totals, currency string) {
	f := func(d decimal.Decimal) string { return money.Format(d, t.Unit, currency) }
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Target adjustment\t%s\t\n", f(s.Target()))
	fmt.Fprintf(tw, "Selected debits\t%s\t\n", f(t.TotalDebit))
	fmt.Fprintf(tw, "Selected credits\t%s\t\n", f(t.TotalCredit))
	fmt.Fprintf(tw, "Difference\t%s\t\n", f(t.Difference))
	tw.Flush()
	if t.Difference.IsZero() {
		fmt.Fprintln(out, "Balanced.")
	}
}

func printSession(out io.Writer, s *recon.Session, currency string) error {
	fmt.Fprintf(out, "Session %s, account %d\n", s.ID(), s.AccountID())
	printBucket(out, recon.Debit, s.Rows(recon.Debit), s.Unit(), currency)
	printBucket(out, recon.Credit, s.Rows(recon.Credit), s.Unit(), currency)
	t, err := s.Totals()
	if err != nil {
		return err
	}
	printTotals(out, s, t, currency)
	return nil
}
