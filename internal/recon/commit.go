package recon

import "github.com/cleared-dev/reconcile/internal/model"

// SplitMutator persists a split's reconciled state.
type SplitMutator interface {
	SetReconciledState(splitID string, state model.ReconcileState) error
}

// DirtyMarker records that the ledger has unsaved changes.
type DirtyMarker interface {
	MarkDirty()
}

// Ledger is what Commit writes to.
type Ledger interface {
	SplitMutator
	DirtyMarker
}

// CommitResult summarizes a successful commit.
type CommitResult struct {
	Applied      []string // split IDs set to reconciled, debits first
	RequiresSave bool
}

// AppliedCount returns the number of splits marked reconciled.
func (r CommitResult) AppliedCount() int { return len(r.Applied) }

// Commit marks every selected split as reconciled in l. If anything was
// selected the ledger is marked dirty. On success the session becomes
// terminal; if the ledger rejects a split, the returned *CommitError lists
// what was already applied and the session stays open so the commit can be
// retried.
func (s *Session) Commit(l Ledger) (CommitResult, error) {
	if s.state != StateOpen {
		return CommitResult{}, ErrInvalidState
	}

	var res CommitResult
	for _, b := range [][]Row{s.debit, s.credit} {
		for _, r := range b {
			if !r.Selected {
				continue
			}
			if err := l.SetReconciledState(r.Split.ID, model.StateReconciled); err != nil {
				if len(res.Applied) > 0 {
					l.MarkDirty()
				}
				return CommitResult{}, &CommitError{SplitID: r.Split.ID, Applied: res.Applied, Err: err}
			}
			res.Applied = append(res.Applied, r.Split.ID)
			res.RequiresSave = true
		}
	}

	if res.RequiresSave {
		l.MarkDirty()
	}
	s.state = StateCommitted
	return res, nil
}
