package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/reconcile/internal/accounts"
	"github.com/cleared-dev/reconcile/internal/config"
	"github.com/cleared-dev/reconcile/internal/gitops"
	"github.com/cleared-dev/reconcile/internal/ledger"
)

// repo is a loaded ledger repository.
type repo struct {
	root  string
	cfg   *config.Config
	chart *accounts.Service
	book  *ledger.Book
}

func openRepo(dir string) (*repo, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}

	chart, err := accounts.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading chart of accounts: %w", err)
	}

	book, err := ledger.Open(root, chart)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	return &repo{root: root, cfg: cfg, chart: chart, book: book}, nil
}

// reload re-reads the ledger from disk, discarding unsaved changes.
func (r *repo) reload() error {
	book, err := ledger.Open(r.root, r.chart)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}
	r.book = book
	return nil
}

// save writes touched months and, when auto_commit is on, commits them.
// Returns the commit hash, or "" if nothing was committed.
func (r *repo) save(message string) (string, error) {
	paths, err := r.book.Save()
	if err != nil {
		return "", fmt.Errorf("saving ledger: %w", err)
	}
	if len(paths) == 0 || !r.cfg.Git.AutoCommit {
		return "", nil
	}
	if !gitops.IsRepo(r.root) {
		fmt.Fprintf(os.Stderr, "warning: %s is not a git repository, skipping commit\n", r.root)
		return "", nil
	}
	hash, err := gitops.CommitPaths(r.root, paths, message, r.cfg.Git.AuthorName, r.cfg.Git.AuthorEmail)
	if err != nil {
		return "", fmt.Errorf("committing ledger: %w", err)
	}
	return hash, nil
}

func (r *repo) account(id int) (*ledger.AccountBook, error) {
	return r.book.Account(id)
}
