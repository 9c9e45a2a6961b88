package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/model"
)

// GenericParser reads a plain "date,description,amount,balance" export with
// ISO dates. The balance column may be empty.
type GenericParser struct{}

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads the CSV and returns statement lines.
func (p *GenericParser) Parse(r io.Reader) ([]model.StatementLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading generic CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var lines []model.StatementLine
	for i, rec := range records[1:] {
		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[0], err)
		}
		amount, err := decimal.NewFromString(rec[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[2], err)
		}
		line := model.StatementLine{Date: date, Description: rec[1], Amount: amount}
		if bal := strings.TrimSpace(rec[3]); bal != "" {
			if line.Balance, err = decimal.NewFromString(bal); err != nil {
				return nil, fmt.Errorf("row %d: parsing balance %q: %w", i+2, bal, err)
			}
			line.HasBalance = true
		}
		lines = append(lines, line)
	}
	return lines, nil
}
