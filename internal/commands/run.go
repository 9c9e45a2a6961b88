package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reconcile/internal/importer"
	"github.com/cleared-dev/reconcile/internal/match"
	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/recnlog"
	"github.com/cleared-dev/reconcile/internal/recon"
)

type runOptions struct {
	repoDir       string
	account       int
	endingBalance string
	statement     string
	format        string
	selectIDs     []string
	auto          bool
	commit        bool
	interactive   bool
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile an account against a statement ending balance",
		Long: "Start a reconciliation session for --account. The ending balance comes from\n" +
			"--ending-balance or from the last balance in --statement. Splits can be\n" +
			"selected with --select, matched against the statement with --auto, or\n" +
			"toggled interactively with --interactive. Selected splits are marked\n" +
			"reconciled only with --commit or the interactive commit command.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.repoDir, "repo", ".", "repository directory")
	cmd.Flags().IntVar(&opts.account, "account", 0, "account ID (required)")
	cmd.Flags().StringVar(&opts.endingBalance, "ending-balance", "", "statement ending balance, e.g. \"$1,234.56\" or \"(20.00)\"")
	cmd.Flags().StringVar(&opts.statement, "statement", "", "statement CSV to take the ending balance and auto-match lines from")
	cmd.Flags().StringVar(&opts.format, "format", "", "statement format (default from config)")
	cmd.Flags().StringSliceVar(&opts.selectIDs, "select", nil, "split IDs to select")
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "select splits matching statement lines")
	cmd.Flags().BoolVar(&opts.commit, "commit", false, "mark the selection reconciled")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "read session commands from stdin")
	_ = cmd.MarkFlagRequired("account")
	cmd.MarkFlagsMutuallyExclusive("commit", "interactive")

	return cmd
}

// run is one CLI reconciliation: the repository, the registry holding the
// session, and the statement it is checked against.
type run struct {
	repo  *repo
	reg   *recon.Registry
	sess  *recon.Session
	lines []model.StatementLine
	out   io.Writer
}

func runReconcile(in io.Reader, out io.Writer, opts runOptions) error {
	r, err := openRepo(opts.repoDir)
	if err != nil {
		return err
	}
	acct, err := r.account(opts.account)
	if err != nil {
		return err
	}

	// Statements carry currency amounts and balances; share accounts are
	// reconciled against a share count given with --ending-balance.
	if acct.AccountType().IsShares() && (opts.statement != "" || opts.auto) {
		return fmt.Errorf("account %d is kept in shares: --statement and --auto need a currency account; pass --ending-balance as a share count", opts.account)
	}

	var lines []model.StatementLine
	ending := opts.endingBalance
	if opts.statement != "" {
		format := opts.format
		if format == "" {
			if ba, ok := r.cfg.BankAccountFor(opts.account); ok && ba.Format != "" {
				format = ba.Format
			} else {
				format = r.cfg.Statements.Format
			}
		}
		lines, err = importer.DefaultRegistry().ParseFile(opts.statement, format)
		if err != nil {
			return err
		}
		if ending == "" {
			bal, err := importer.EndingBalance(lines)
			if err != nil {
				return fmt.Errorf("%s: %w; pass --ending-balance", opts.statement, err)
			}
			ending = bal.String()
		}
	}
	if ending == "" {
		return errors.New("an ending balance is required: pass --ending-balance or --statement")
	}
	if opts.auto && lines == nil {
		return errors.New("--auto needs --statement")
	}

	reg := recon.NewRegistry()
	sess, err := reg.Open(acct, ending)
	if err != nil {
		return err
	}
	rn := &run{repo: r, reg: reg, sess: sess, lines: lines, out: out}
	rn.log(recnlog.ActionStart, fmt.Sprintf("ending %s, target %s", ending, sess.Target()), nil, "")

	for _, id := range opts.selectIDs {
		if err := rn.selectSplit(id); err != nil {
			rn.cancel("invalid selection")
			return err
		}
	}
	if opts.auto {
		rn.autoMatch()
	}

	if opts.interactive {
		return rn.repl(in)
	}

	if err := printSession(out, sess, r.cfg.Ledger.Currency); err != nil {
		return err
	}
	if opts.commit {
		return rn.commit()
	}
	rn.cancel("not committed")
	return nil
}

func (rn *run) selectSplit(splitID string) error {
	side, row, ok := rn.sess.Find(splitID)
	if !ok {
		return fmt.Errorf("split %s is not an unreconciled split of account %d", splitID, rn.sess.AccountID())
	}
	if rn.sess.Rows(side)[row].Selected {
		return nil
	}
	return rn.sess.Toggle(side, row)
}

func (rn *run) autoMatch() {
	cfg := rn.repo.cfg.Reconcile
	opts := match.DefaultOptions()
	if cfg.DateWindow > 0 {
		opts.DateWindow = cfg.DateWindow
	}
	opts.MaxDistance = cfg.MaxDistance

	suggestions := match.Suggest(rn.sess, rn.lines, opts)
	if err := match.Apply(rn.sess, suggestions); err != nil {
		fmt.Fprintf(os.Stderr, "warning: auto-match: %v\n", err)
		return
	}
	fmt.Fprintf(rn.out, "Auto-matched %d of %d statement lines\n", len(suggestions), len(rn.lines))
}

func (rn *run) commit() error {
	totals, err := rn.sess.Totals()
	if err != nil {
		return err
	}
	if !totals.Difference.IsZero() {
		fmt.Fprintf(os.Stderr, "warning: committing with a difference of %s\n", totals.Difference)
	}

	accountID := rn.sess.AccountID()
	res, err := rn.reg.Commit(accountID, rn.repo.book)
	if err != nil {
		var ce *recon.CommitError
		if errors.As(err, &ce) && len(ce.Applied) > 0 {
			if _, serr := rn.repo.save(fmt.Sprintf("reconcile: account %d (partial)", accountID)); serr != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", serr)
			}
			rn.log(recnlog.ActionFailed, err.Error(), ce.Applied, "")
		}
		return err
	}

	var hash string
	if res.RequiresSave {
		hash, err = rn.repo.save(fmt.Sprintf("reconcile: account %d, %d splits", accountID, res.AppliedCount()))
		if err != nil {
			rn.log(recnlog.ActionFailed, err.Error(), res.Applied, "")
			return err
		}
	}
	rn.log(recnlog.ActionCommit, fmt.Sprintf("difference %s", totals.Difference), res.Applied, hash)
	fmt.Fprintf(rn.out, "Reconciled %d splits%s\n", res.AppliedCount(), commitSuffix(hash))
	return nil
}

func (rn *run) cancel(reason string) {
	if err := rn.reg.Cancel(rn.sess.AccountID()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	rn.log(recnlog.ActionCancel, reason, rn.sess.Selected(), "")
}

func (rn *run) log(action, details string, splitIDs []string, hash string) {
	entry := recnlog.Entry{
		Timestamp:  time.Now().UTC(),
		Session:    rn.sess.ID(),
		AccountID:  rn.sess.AccountID(),
		Action:     action,
		Details:    details,
		SplitIDs:   splitIDs,
		CommitHash: hash,
	}
	if err := recnlog.Append(rn.repo.root, []recnlog.Entry{entry}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write reconcile log: %v\n", err)
	}
}

const replHelp = `Commands:
  toggle d|c <row>...   select or deselect rows of the debit or credit bucket
  select <split-id>...  select splits by ID
  auto                  select splits matching statement lines
  rows                  show both buckets
  totals                show the selected totals and the difference
  refresh               reload the ledger and rebuild the buckets
  commit                mark the selection reconciled and finish
  cancel                finish without changing the ledger
`

// repl reads session commands until commit, cancel, or end of input.
// End of input cancels the session.
func (rn *run) repl(in io.Reader) error {
	currency := rn.repo.cfg.Ledger.Currency
	if err := printSession(rn.out, rn.sess, currency); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(rn.out, "> ")
		if !sc.Scan() {
			break
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "toggle", "t":
			err = rn.toggle(fields[1:])
		case "select", "s":
			for _, id := range fields[1:] {
				if err = rn.selectSplit(id); err != nil {
					break
				}
			}
		case "auto":
			if rn.lines == nil {
				err = errors.New("no statement loaded")
			} else {
				rn.autoMatch()
			}
		case "rows":
			printBucket(rn.out, recon.Debit, rn.sess.Rows(recon.Debit), rn.sess.Unit(), currency)
			printBucket(rn.out, recon.Credit, rn.sess.Rows(recon.Credit), rn.sess.Unit(), currency)
		case "totals":
			var t recon.Totals
			if t, err = rn.sess.Totals(); err == nil {
				printTotals(rn.out, rn.sess, t, currency)
			}
		case "refresh":
			err = rn.refresh()
		case "commit":
			if err = rn.commit(); err == nil {
				return nil
			}
			// A partial commit leaves the session open for a retry. Once the
			// session is committed a failed save cannot be retried here.
			if rn.sess.State() == recon.StateCommitted {
				return err
			}
		case "cancel", "quit", "q":
			rn.cancel("cancelled")
			fmt.Fprintln(rn.out, "Cancelled.")
			return nil
		case "help", "?":
			fmt.Fprint(rn.out, replHelp)
		default:
			err = fmt.Errorf("unknown command %q (try help)", fields[0])
		}
		if err != nil {
			fmt.Fprintf(rn.out, "error: %v\n", err)
		}
	}
	if err := sc.Err(); err != nil {
		rn.cancel("input error")
		return fmt.Errorf("reading commands: %w", err)
	}
	rn.cancel("end of input")
	return nil
}

func (rn *run) toggle(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: toggle d|c <row>...")
	}
	side, ok := recon.ParseSide(args[0])
	if !ok {
		return fmt.Errorf("unknown bucket %q: want d or c", args[0])
	}
	for _, a := range args[1:] {
		row, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("invalid row %q", a)
		}
		if err := rn.sess.Toggle(side, row); err != nil {
			return err
		}
	}
	t, err := rn.sess.Totals()
	if err != nil {
		return err
	}
	printTotals(rn.out, rn.sess, t, rn.repo.cfg.Ledger.Currency)
	return nil
}

// refresh reloads the ledger from disk. The selection is cleared.
func (rn *run) refresh() error {
	if err := rn.repo.reload(); err != nil {
		return err
	}
	acct, err := rn.repo.account(rn.sess.AccountID())
	if err != nil {
		return err
	}
	if err := rn.sess.Refresh(acct); err != nil {
		return err
	}
	return printSession(rn.out, rn.sess, rn.repo.cfg.Ledger.Currency)
}
