package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/model"
)

// Header is the CSV header for splits.csv.
const Header = "split_id,transaction_id,num,date,description,account_id,amount,share_price,reconciled"

const (
	numFields     = 9
	dateFormat    = "2006-01-02"
	colSplitID    = 0
	colTxnID      = 1
	colNum        = 2
	colDate       = 3
	colDesc       = 4
	colAcctID     = 5
	colAmount     = 6
	colSharePrice = 7
	colReconciled = 8
)

// ReadSplits reads all splits from a splits.csv reader.
func ReadSplits(r io.Reader) ([]model.Split, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading splits CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var splits []model.Split
	for i, rec := range records[1:] {
		s, err := UnmarshalSplit(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		splits = append(splits, s)
	}
	return splits, nil
}

// WriteSplits writes splits to a splits.csv writer (including header).
func WriteSplits(w io.Writer, splits []model.Split) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, s := range splits {
		if err := cw.Write(MarshalSplit(s)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalSplit converts a Split to a CSV row ([]string).
func MarshalSplit(s model.Split) []string {
	row := make([]string, numFields)
	row[colSplitID] = s.ID
	row[colTxnID] = s.TransactionID
	row[colNum] = s.Num
	row[colDate] = s.Date.Format(dateFormat)
	row[colDesc] = s.Description
	row[colAcctID] = strconv.Itoa(s.AccountID)
	if s.SharePrice.Equal(decimal.NewFromInt(1)) {
		row[colAmount] = s.Amount.StringFixed(2)
	} else {
		// Share quantities keep their full precision.
		row[colAmount] = s.Amount.String()
		row[colSharePrice] = s.SharePrice.String()
	}
	row[colReconciled] = string(s.Reconciled)
	return row
}

// UnmarshalSplit converts a CSV row to a Split. An empty share price means 1
// and an empty reconciled flag means not reconciled.
func UnmarshalSplit(record []string) (model.Split, error) {
	if len(record) != numFields {
		return model.Split{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Split{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	accountID, err := strconv.Atoi(record[colAcctID])
	if err != nil {
		return model.Split{}, fmt.Errorf("parsing account_id %q: %w", record[colAcctID], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Split{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	price := decimal.NewFromInt(1)
	if record[colSharePrice] != "" {
		price, err = decimal.NewFromString(record[colSharePrice])
		if err != nil {
			return model.Split{}, fmt.Errorf("parsing share_price %q: %w", record[colSharePrice], err)
		}
	}

	state := model.ReconcileState(record[colReconciled])
	if state == "" {
		state = model.StateNotReconciled
	}
	if !state.Valid() {
		return model.Split{}, fmt.Errorf("invalid reconciled flag %q", record[colReconciled])
	}

	return model.Split{
		ID:            record[colSplitID],
		TransactionID: record[colTxnID],
		Num:           record[colNum],
		Date:          date,
		Description:   record[colDesc],
		AccountID:     accountID,
		Amount:        amount,
		SharePrice:    price,
		Reconciled:    state,
	}, nil
}
