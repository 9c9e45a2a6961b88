package recon

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOutOfRange is returned when a toggle addresses a row past the end of
	// its bucket.
	ErrOutOfRange = errors.New("row out of range")
	// ErrInvalidState is returned for any session operation after commit.
	ErrInvalidState = errors.New("session already committed")
	// ErrMalformedAmount is returned when an ending balance cannot be parsed.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrSessionActive is returned when an account already has an open session.
	ErrSessionActive = errors.New("reconciliation already in progress")
	// ErrNoSession is returned when no session is open for an account.
	ErrNoSession = errors.New("no reconciliation in progress")
)

// CommitError reports a commit that failed part way through. Applied lists
// the splits whose state was already set to reconciled.
type CommitError struct {
	SplitID string
	Applied []string
	Err     error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("reconciling split %s (applied %d: %s): %v",
		e.SplitID, len(e.Applied), strings.Join(e.Applied, ","), e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
