package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reconcile/internal/money"
	"github.com/cleared-dev/reconcile/internal/recnlog"
	"github.com/cleared-dev/reconcile/internal/recon"
)

func newStatusCommand() *cobra.Command {
	var repoDir string
	var accountID int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show an account's balances and unreconciled splits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.OutOrStdout(), repoDir, accountID)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")
	cmd.Flags().IntVar(&accountID, "account", 0, "account ID (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runStatus(out io.Writer, repoDir string, accountID int) error {
	r, err := openRepo(repoDir)
	if err != nil {
		return err
	}
	acct, err := r.account(accountID)
	if err != nil {
		return err
	}

	a := acct.Account()
	unit := money.UnitOf(a.Type)
	cur := r.cfg.Ledger.Currency
	fmt.Fprintf(out, "%d %s (%s)\n", a.ID, r.chart.FullName(a.ID), a.Type)
	fmt.Fprintf(out, "Reconciled balance: %s\n", money.Format(acct.ReconciledBalance(), unit, cur))
	fmt.Fprintf(out, "Cleared balance:    %s\n", money.Format(acct.ClearedBalance(), unit, cur))
	fmt.Fprintf(out, "Balance:            %s\n", money.Format(acct.Balance(), unit, cur))

	entries, err := recnlog.Read(r.root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if last, ok := recnlog.LastCommit(entries, a.ID); ok {
		fmt.Fprintf(out, "Last reconciled:    %s (%d splits%s)\n",
			last.Timestamp.Local().Format("2006-01-02 15:04"), len(last.SplitIDs), hashSuffix(last.CommitHash))
	} else {
		fmt.Fprintln(out, "Last reconciled:    never")
	}

	debit, credit := recon.Classify(acct)
	printBucket(out, recon.Debit, debit, unit, cur)
	printBucket(out, recon.Credit, credit, unit, cur)
	return nil
}

func hashSuffix(hash string) string {
	if hash == "" {
		return ""
	}
	return ", " + hash
}
