package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/reconcile/internal/model"
)

const chartFile = "chart-of-accounts.csv"

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byID     map[int]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[int]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Service{accounts: accounts, byID: byID}
}

// Load reads and checks accounts/chart-of-accounts.csv under repoRoot.
func Load(repoRoot string) (*Service, error) {
	path := filepath.Join(repoRoot, "accounts", chartFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	if err := Check(accts); err != nil {
		return nil, err
	}
	return NewService(accts), nil
}

// Check verifies that account IDs are unique and every parent exists
// without forming a cycle. Share accounts may only be nested under other
// share accounts, since a parent's balance must be in one unit.
func Check(accts []model.Account) error {
	byID := make(map[int]model.Account, len(accts))
	for _, a := range accts {
		if _, dup := byID[a.ID]; dup {
			return fmt.Errorf("account %d: duplicate ID", a.ID)
		}
		byID[a.ID] = a
	}
	for _, a := range accts {
		if a.ParentID == 0 {
			continue
		}
		parent, ok := byID[a.ParentID]
		if !ok {
			return fmt.Errorf("account %d: unknown parent %d", a.ID, a.ParentID)
		}
		if a.Type.IsShares() && !parent.Type.IsShares() {
			return fmt.Errorf("account %d: %s account under %s parent %d", a.ID, a.Type, parent.Type, parent.ID)
		}
		seen := map[int]bool{a.ID: true}
		for p := a.ParentID; p != 0; p = byID[p].ParentID {
			if seen[p] {
				return fmt.Errorf("account %d: parent cycle through %d", a.ID, p)
			}
			seen[p] = true
		}
	}
	return nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id int) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// FullName joins the names from the top-level ancestor down, e.g.
// "Brokerage:Index Fund".
func (s *Service) FullName(id int) string {
	var names []string
	for a, ok := s.byID[id]; ok && len(names) <= len(s.accounts); a, ok = s.byID[a.ParentID] {
		names = append(names, a.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ":")
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, chartFile)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	if err := WriteAccounts(f, s.accounts); err != nil {
		f.Close()
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing chart of accounts: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing chart of accounts: %w", err)
	}
	return nil
}
