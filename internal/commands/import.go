package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reconcile/internal/importer"
	"github.com/cleared-dev/reconcile/internal/ledger"
	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/money"
)

type importOptions struct {
	repoDir string
	account int
	offset  int
	format  string
}

func newImportCommand() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import bank statement lines as cleared transfers",
		Long: "Import bank statement lines as cleared transfers. Each line becomes a\n" +
			"transaction between --account and --offset. Lines already in the ledger\n" +
			"(same date, amount, and description) are skipped. Files under import/ are\n" +
			"moved to import/processed/ afterwards. Without a file argument every CSV\n" +
			"in import/ is imported.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runImport(cmd.OutOrStdout(), args[0], opts)
			}
			return runImportPending(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.repoDir, "repo", ".", "repository directory")
	cmd.Flags().IntVar(&opts.account, "account", 0, "bank account ID (default from statements.bank_accounts)")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "offset account ID (default from statements.bank_accounts)")
	cmd.Flags().StringVar(&opts.format, "format", "", "statement format (default from config)")

	return cmd
}

func runImportPending(out io.Writer, opts importOptions) error {
	root, err := filepath.Abs(opts.repoDir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	files, err := importer.Scan(root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "Nothing to import")
		return nil
	}
	for _, f := range files {
		fmt.Fprintf(out, "%s: ", f.Name)
		if err := runImport(out, f.Path, opts); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	return nil
}

func runImport(out io.Writer, file string, opts importOptions) error {
	r, err := openRepo(opts.repoDir)
	if err != nil {
		return err
	}

	account, offset, format := opts.account, opts.offset, opts.format
	if len(r.cfg.Statements.BankAccounts) == 1 && account == 0 {
		account = r.cfg.Statements.BankAccounts[0].AccountID
	}
	if ba, ok := r.cfg.BankAccountFor(account); ok {
		if offset == 0 {
			offset = ba.OffsetID
		}
		if format == "" {
			format = ba.Format
		}
	}
	if format == "" {
		format = r.cfg.Statements.Format
	}
	if account == 0 || offset == 0 {
		return errors.New("--account and --offset are required unless configured in statements.bank_accounts")
	}

	lines, err := importer.DefaultRegistry().ParseFile(file, format)
	if err != nil {
		return err
	}

	acct, err := r.account(account)
	if err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, s := range acct.Splits() {
		seen[dedupKey(s.Date.Format("2006-01-02"), money.Contribution(acct.AccountType(), s).String(), s.Description)] = true
	}

	added, skipped := 0, 0
	for _, line := range lines {
		key := dedupKey(line.Date.Format("2006-01-02"), line.Amount.String(), line.Description)
		if seen[key] {
			skipped++
			continue
		}
		if line.Amount.IsZero() {
			fmt.Fprintf(os.Stderr, "warning: skipping zero-amount line %q on %s\n", line.Description, line.Date.Format("2006-01-02"))
			skipped++
			continue
		}
		if _, err := r.book.AddTransfer(transferFor(line, account, offset)); err != nil {
			return fmt.Errorf("importing %q on %s: %w", line.Description, line.Date.Format("2006-01-02"), err)
		}
		seen[key] = true
		added++
	}

	hash, err := r.save(fmt.Sprintf("import: %d lines from %s into %d", added, filepath.Base(file), account))
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(file)
	if err == nil && filepath.Dir(abs) == filepath.Join(r.root, "import") {
		if err := importer.MarkProcessed(r.root, filepath.Base(abs)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	fmt.Fprintf(out, "Imported %d lines, skipped %d%s\n", added, skipped, commitSuffix(hash))
	return nil
}

// transferFor turns a statement line into a cleared transfer. Deposits move
// money from the offset account into the bank account.
func transferFor(line model.StatementLine, account, offset int) ledger.TransferParams {
	p := ledger.TransferParams{
		Date:        line.Date,
		Num:         line.CheckNumber,
		Description: line.Description,
		Amount:      line.Amount.Abs(),
		Reconciled:  model.StateCleared,
	}
	if line.Amount.IsPositive() {
		p.From, p.To = offset, account
	} else {
		p.From, p.To = account, offset
	}
	return p
}

func dedupKey(date, amount, description string) string {
	return date + "|" + amount + "|" + description
}
