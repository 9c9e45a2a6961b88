// Package ledger stores splits as monthly CSV files in a repository and
// serves them to reconciliation sessions.
package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cleared-dev/reconcile/internal/id"
	"github.com/cleared-dev/reconcile/internal/model"
)

const splitsFile = "splits.csv"

// ErrUnknownSplit is returned when a split ID is not in the book.
var ErrUnknownSplit = errors.New("unknown split")

type monthKey struct {
	year, month int
}

// Book is the in-memory ledger loaded from a repository.
type Book struct {
	repoRoot string
	accounts AccountLookup
	splits   []model.Split
	index    map[string]int
	touched  map[monthKey]bool
	dirty    bool
}

// Open loads every month's splits.csv under repoRoot.
func Open(repoRoot string, accounts AccountLookup) (*Book, error) {
	b := &Book{
		repoRoot: repoRoot,
		accounts: accounts,
		index:    make(map[string]int),
		touched:  make(map[monthKey]bool),
	}

	paths, err := filepath.Glob(filepath.Join(repoRoot, "[0-9][0-9][0-9][0-9]", "[0-9][0-9]", splitsFile))
	if err != nil {
		return nil, fmt.Errorf("listing ledger files: %w", err)
	}
	for _, path := range paths {
		splits, err := readFile(path)
		if err != nil {
			return nil, err
		}
		for _, s := range splits {
			if _, dup := b.index[s.ID]; dup {
				return nil, fmt.Errorf("%s: duplicate split %s", path, s.ID)
			}
			b.index[s.ID] = len(b.splits)
			b.splits = append(b.splits, s)
		}
	}
	return b, nil
}

func readFile(path string) ([]model.Split, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	splits, err := ReadSplits(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return splits, nil
}

// Split returns a split by ID.
func (b *Book) Split(splitID string) (model.Split, bool) {
	i, ok := b.index[splitID]
	if !ok {
		return model.Split{}, false
	}
	return b.splits[i], true
}

// Len returns the number of splits in the book.
func (b *Book) Len() int { return len(b.splits) }

// SetReconciledState updates the reconciled flag of one split. The change
// stays in memory until Save.
func (b *Book) SetReconciledState(splitID string, state model.ReconcileState) error {
	if !state.Valid() {
		return fmt.Errorf("split %s: invalid reconciled flag %q", splitID, state)
	}
	i, ok := b.index[splitID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSplit, splitID)
	}
	if b.splits[i].Reconciled == state {
		return nil
	}
	b.splits[i].Reconciled = state
	b.touch(b.splits[i].Date.Year(), int(b.splits[i].Date.Month()))
	return nil
}

// MarkDirty records that the book must be saved.
func (b *Book) MarkDirty() { b.dirty = true }

// Dirty reports whether the book has unsaved changes.
func (b *Book) Dirty() bool { return b.dirty }

func (b *Book) touch(year, month int) {
	b.touched[monthKey{year, month}] = true
	b.dirty = true
}

// Save writes every month changed since the book was loaded or last saved.
// It returns the paths written.
func (b *Book) Save() ([]string, error) {
	keys := make([]monthKey, 0, len(b.touched))
	for k := range b.touched {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	var written []string
	for _, k := range keys {
		path, err := b.writeMonth(k)
		if err != nil {
			return written, err
		}
		written = append(written, path)
		delete(b.touched, k)
	}
	b.dirty = false
	return written, nil
}

func (b *Book) writeMonth(k monthKey) (string, error) {
	path := b.monthPath(k.year, k.month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating ledger dir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", tmp, err)
	}
	if err := WriteSplits(f, b.month(k.year, k.month)); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("replacing %s: %w", path, err)
	}
	return path, nil
}

// month returns the splits of one month in file order.
func (b *Book) month(year, month int) []model.Split {
	var out []model.Split
	for _, s := range b.splits {
		if s.Date.Year() == year && int(s.Date.Month()) == month {
			out = append(out, s)
		}
	}
	return out
}

// nextSeq returns the next available transaction sequence number for a month.
func (b *Book) nextSeq(year, month int) int {
	maxSeq := 0
	for _, s := range b.month(year, month) {
		_, _, seq, err := id.ParseTransactionID(s.TransactionID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

func (b *Book) monthPath(year, month int) string {
	return filepath.Join(b.repoRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), splitsFile)
}

