package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reconcile/internal/ledger"
	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/recon"
)

type addOptions struct {
	repoDir     string
	date        string
	description string
	num         string
	from        int
	to          int
	amount      string
	shares      string
	state       string
}

func newAddCommand() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transfer between two accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&opts.date, "date", "", "transaction date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.description, "desc", "", "description")
	cmd.Flags().StringVar(&opts.num, "num", "", "check or reference number")
	cmd.Flags().IntVar(&opts.from, "from", 0, "account the amount leaves (required)")
	cmd.Flags().IntVar(&opts.to, "to", 0, "account the amount enters (required)")
	cmd.Flags().StringVar(&opts.amount, "amount", "", "currency amount, positive (required)")
	cmd.Flags().StringVar(&opts.shares, "shares", "", "share quantity when a side is a stock or mutual fund account")
	cmd.Flags().StringVar(&opts.state, "state", "n", "reconcile state of both splits: n, c, or y")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runAdd(out io.Writer, opts addOptions) error {
	date, err := time.Parse("2006-01-02", opts.date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", opts.date, err)
	}

	amount, err := recon.ParseAmount(opts.amount)
	if err != nil {
		return err
	}

	var shares decimal.Decimal
	if opts.shares != "" {
		shares, err = recon.ParseAmount(opts.shares)
		if err != nil {
			return fmt.Errorf("shares: %w", err)
		}
	}

	state := model.ReconcileState(opts.state)
	if !state.Valid() {
		return fmt.Errorf("invalid state %q: want n, c, or y", opts.state)
	}

	r, err := openRepo(opts.repoDir)
	if err != nil {
		return err
	}

	txnID, err := r.book.AddTransfer(ledger.TransferParams{
		Date:        date,
		Num:         opts.num,
		Description: opts.description,
		From:        opts.from,
		To:          opts.to,
		Amount:      amount,
		Shares:      shares,
		Reconciled:  state,
	})
	if err != nil {
		return err
	}

	hash, err := r.save(fmt.Sprintf("add: %s %s", txnID, opts.description))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Added %s%s\n", txnID, commitSuffix(hash))
	return nil
}

func commitSuffix(hash string) string {
	if hash == "" {
		return ""
	}
	return " (" + hash + ")"
}
