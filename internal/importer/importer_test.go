package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reconcile/internal/model"
)

func TestChaseParser_Parse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)

	p := &ChaseParser{}
	lines, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Len(t, lines, 6)

	// First: GITHUB subscription
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", lines[0].Description)
	assert.Equal(t, "-4.00", lines[0].Amount.StringFixed(2))
	assert.Equal(t, "ACH_DEBIT", lines[0].Type)
	assert.Equal(t, "1996.00", lines[0].Balance.StringFixed(2))
	assert.True(t, lines[0].HasBalance)
	assert.Equal(t, 2025, lines[0].Date.Year())
	assert.Equal(t, 3, lines[0].Date.Day())

	// Third: a paper check carries its number.
	assert.Equal(t, "1002", lines[2].CheckNumber)

	// Fourth: ACME income (positive)
	assert.Equal(t, "ACME CONSULTING INVOICE 1042", lines[3].Description)
	assert.True(t, lines[3].Amount.IsPositive())
	assert.Equal(t, "3500.00", lines[3].Amount.StringFixed(2))
}

func TestChaseParser_Reference(t *testing.T) {
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)

	lines, err := (&ChaseParser{}).Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, "chase_20250103_GITHUBPROS", lines[0].Reference)
}

func TestChaseParser_EmptyFile(t *testing.T) {
	p := &ChaseParser{}
	lines, err := p.Parse(strings.NewReader("Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"))
	require.NoError(t, err)
	assert.Nil(t, lines)
}

func TestChaseParser_BadDate(t *testing.T) {
	csv := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n"
	_, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestChaseParser_PendingRowHasNoBalance(t *testing.T) {
	csv := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,01/30/2025,PENDING,-4.00,ACH_DEBIT, ,\n"
	lines, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.False(t, lines[0].HasBalance)
}

func TestChaseParser_BadBalance(t *testing.T) {
	csv := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,01/30/2025,X,-4.00,ACH_DEBIT,abc,\n"
	_, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing balance")
}

func TestGenericParser(t *testing.T) {
	csv := "date,description,amount,balance\n2025-01-05,Coffee,-3.50,96.50\n2025-01-06,Refund,10.00,\n"
	lines, err := (&GenericParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "96.50", lines[0].Balance.StringFixed(2))
	assert.False(t, lines[1].HasBalance)

	_, err = (&GenericParser{}).Parse(strings.NewReader("date,description,amount,balance\n01/05/2025,Coffee,-3.50,\n"))
	assert.Error(t, err)
}

func TestEndingBalance(t *testing.T) {
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)
	lines, err := (&ChaseParser{}).Parse(strings.NewReader(string(data)))
	require.NoError(t, err)

	bal, err := EndingBalance(lines)
	require.NoError(t, err)
	assert.Equal(t, "5419.20", bal.StringFixed(2))

	// Newest-first exports give the same answer.
	reversed := make([]model.StatementLine, len(lines))
	for i, l := range lines {
		reversed[len(lines)-1-i] = l
	}
	bal, err = EndingBalance(reversed)
	require.NoError(t, err)
	assert.Equal(t, "5419.20", bal.StringFixed(2))
}

func TestEndingBalance_NoBalance(t *testing.T) {
	lines := []model.StatementLine{{Date: time.Now(), Amount: decimal.NewFromInt(1)}}
	_, err := EndingBalance(lines)
	assert.ErrorIs(t, err, ErrNoBalance)

	_, err = EndingBalance(nil)
	assert.ErrorIs(t, err, ErrNoBalance)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("chase"))
	assert.NotNil(t, r.Get("CHASE"))
	assert.NotNil(t, r.Get("generic"))
	assert.Nil(t, r.Get("wells"))

	assert.Panics(t, func() { r.Register(&ChaseParser{}) })
}

func TestParseFile(t *testing.T) {
	r := DefaultRegistry()
	lines, err := r.ParseFile("../../testdata/chase_checking.csv", "chase")
	require.NoError(t, err)
	assert.Len(t, lines, 6)

	_, err = r.ParseFile("../../testdata/chase_checking.csv", "wells")
	assert.Error(t, err)

	_, err = r.ParseFile(filepath.Join(t.TempDir(), "missing.csv"), "chase")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanAndMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importPath := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importPath, "jan.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importPath, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(importPath, "processed"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "jan.csv", files[0].Name)
	assert.Equal(t, int64(1), files[0].Size)

	require.NoError(t, MarkProcessed(dir, "jan.csv"))
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "jan.csv"))
	assert.NoError(t, err)

	files, err = Scan(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScan_NoImportDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}
