// Package recnlog keeps the audit trail of reconciliation sessions in
// logs/reconcile-log.csv.
package recnlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Actions recorded in the log.
const (
	ActionStart  = "start"
	ActionCommit = "commit"
	ActionCancel = "cancel"
	ActionFailed = "commit_failed"
)

// Entry is one row in the reconcile log.
type Entry struct {
	Timestamp  time.Time
	Session    string
	AccountID  int
	Action     string
	Details    string
	SplitIDs   []string
	CommitHash string
}

// Header is the CSV header for reconcile-log.csv.
const Header = "timestamp,session,account_id,action,details,split_ids,commit_hash"

const (
	numFields     = 7
	logDir        = "logs"
	logFile       = "logs/reconcile-log.csv"
	colTimestamp  = 0
	colSession    = 1
	colAccountID  = 2
	colAction     = 3
	colDetails    = 4
	colSplitIDs   = 5
	colCommitHash = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSession] = e.Session
	row[colAccountID] = strconv.Itoa(e.AccountID)
	row[colAction] = e.Action
	row[colDetails] = e.Details
	row[colSplitIDs] = strings.Join(e.SplitIDs, ";")
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	accountID, err := strconv.Atoi(record[colAccountID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing account_id %q: %w", record[colAccountID], err)
	}

	var ids []string
	if record[colSplitIDs] != "" {
		ids = strings.Split(record[colSplitIDs], ";")
	}

	return Entry{
		Timestamp:  ts,
		Session:    record[colSession],
		AccountID:  accountID,
		Action:     record[colAction],
		Details:    record[colDetails],
		SplitIDs:   ids,
		CommitHash: record[colCommitHash],
	}, nil
}

// Append writes entries to <repoRoot>/logs/reconcile-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening reconcile log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/reconcile-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	path := filepath.Join(repoRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening reconcile log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// ForAccount returns the entries recorded for one account.
func ForAccount(entries []Entry, accountID int) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out
}

// LastCommit returns the most recent commit entry for an account.
func LastCommit(entries []Entry, accountID int) (Entry, bool) {
	mine := ForAccount(entries, accountID)
	for i := len(mine) - 1; i >= 0; i-- {
		if mine[i].Action == ActionCommit {
			return mine[i], true
		}
	}
	return Entry{}, false
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading reconcile log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
