// Package match proposes which session rows correspond to statement lines.
package match

import (
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/recon"
)

// Options tunes Suggest.
type Options struct {
	// DateWindow is how many days a split's date may differ from the
	// statement line's.
	DateWindow int
	// MaxDistance rejects candidates whose normalized description distance
	// (0 = identical, 1 = nothing in common) exceeds it. Zero disables the
	// check.
	MaxDistance float64
}

// DefaultOptions matches within a week and ignores descriptions except for
// tie-breaking.
func DefaultOptions() Options {
	return Options{DateWindow: 7}
}

// Suggestion pairs a statement line with a session row.
type Suggestion struct {
	Line     model.StatementLine
	Side     recon.Side
	Row      int
	SplitID  string
	Distance float64
}

// Suggest pairs each statement line with an unselected row whose
// contribution equals the line amount. Candidates outside the date window
// are skipped; among the rest the closest description wins, then the
// closest date, then register order. Each row is used at most once.
func Suggest(s *recon.Session, lines []model.StatementLine, opts Options) []Suggestion {
	used := map[recon.Side]map[int]bool{recon.Debit: {}, recon.Credit: {}}
	rows := map[recon.Side][]recon.Row{recon.Debit: s.Rows(recon.Debit), recon.Credit: s.Rows(recon.Credit)}

	var out []Suggestion
	for _, line := range lines {
		side := recon.Credit
		if line.Amount.IsNegative() {
			side = recon.Debit
		}

		best := -1
		var bestDist float64
		var bestDays int
		for i, r := range rows[side] {
			if r.Selected || used[side][i] || !r.Contribution.Equal(line.Amount) {
				continue
			}
			days := daysApart(r.Split.Date, line.Date)
			if days > opts.DateWindow {
				continue
			}
			dist := Distance(r.Split.Description, line.Description)
			if opts.MaxDistance > 0 && dist > opts.MaxDistance {
				continue
			}
			if best < 0 || dist < bestDist || (dist == bestDist && days < bestDays) {
				best, bestDist, bestDays = i, dist, days
			}
		}
		if best < 0 {
			continue
		}
		used[side][best] = true
		out = append(out, Suggestion{
			Line:     line,
			Side:     side,
			Row:      best,
			SplitID:  rows[side][best].Split.ID,
			Distance: bestDist,
		})
	}
	return out
}

// Apply selects every suggested row in the session.
func Apply(s *recon.Session, suggestions []Suggestion) error {
	for _, sg := range suggestions {
		if err := s.Toggle(sg.Side, sg.Row); err != nil {
			return err
		}
	}
	return nil
}

// Distance is the levenshtein distance between two descriptions, ignoring
// case and surrounding space, scaled by the longer length.
func Distance(a, b string) float64 {
	a = strings.ToUpper(strings.TrimSpace(a))
	b = strings.ToUpper(strings.TrimSpace(b))
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

func daysApart(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
