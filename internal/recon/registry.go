package recon

import (
	"fmt"
	"sync"
)

// Registry keeps at most one open session per account.
type Registry struct {
	mu       sync.Mutex
	sessions map[int]*Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int]*Session)}
}

// Open starts a session for acct unless one is already in progress.
func (r *Registry) Open(acct AccountView, endingBalance string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[acct.AccountID()]; ok {
		return nil, fmt.Errorf("account %d: %w", acct.AccountID(), ErrSessionActive)
	}
	s, err := Start(acct, endingBalance)
	if err != nil {
		return nil, err
	}
	r.sessions[acct.AccountID()] = s
	return s, nil
}

// Get returns the open session for an account.
func (r *Registry) Get(accountID int) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[accountID]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", accountID, ErrNoSession)
	}
	return s, nil
}

// Cancel discards the account's session. The ledger is not touched.
func (r *Registry) Cancel(accountID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[accountID]; !ok {
		return fmt.Errorf("account %d: %w", accountID, ErrNoSession)
	}
	delete(r.sessions, accountID)
	return nil
}

// Commit commits the account's session to l and releases it. A failed
// commit leaves the session registered.
func (r *Registry) Commit(accountID int, l Ledger) (CommitResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[accountID]
	if !ok {
		return CommitResult{}, fmt.Errorf("account %d: %w", accountID, ErrNoSession)
	}
	res, err := s.Commit(l)
	if err != nil {
		return CommitResult{}, err
	}
	delete(r.sessions, accountID)
	return res, nil
}
