package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTransactionID returns a transaction ID like "2025-01-001".
func FormatTransactionID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// FormatSplitID returns a split ID like "2025-01-001a" (split 0='a', 1='b', etc.).
func FormatSplitID(txnID string, n int) string {
	return txnID + string(rune('a'+n))
}

// ParseTransactionID parses "2025-01-001" (or a split ID) into year, month, seq.
func ParseTransactionID(s string) (year, month, seq int, err error) {
	parts := strings.SplitN(TransactionOf(s), "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid transaction ID format: %q", s)
	}

	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in transaction ID %q: %w", s, err)
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in transaction ID %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("month %d out of range in transaction ID %q", month, s)
	}
	if seq, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", s, err)
	}

	return year, month, seq, nil
}

// TransactionOf strips the split suffix from a split ID.
// "2025-01-001a" -> "2025-01-001"
func TransactionOf(splitID string) string {
	i := len(splitID)
	for i > 0 && splitID[i-1] >= 'a' && splitID[i-1] <= 'z' {
		i--
	}
	return splitID[:i]
}

// SplitIndex returns the position of a split within its transaction
// ("2025-01-001b" -> 1), or -1 if the ID has no split suffix.
func SplitIndex(splitID string) int {
	base := TransactionOf(splitID)
	if len(splitID)-len(base) != 1 {
		return -1
	}
	return int(splitID[len(splitID)-1] - 'a')
}
