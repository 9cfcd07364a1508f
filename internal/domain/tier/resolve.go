package tier

import (
	"math"
	"sort"
)

const fullProgress = 100

// Result is the rank derived from a score. It is computed on demand and
// never stored.
type Result struct {
	Current Definition  `json:"current_tier"`
	Next    *Definition `json:"next_tier"`
	// ProgressPercent is the way from Current.MinScore to Next.MinScore, 0-100.
	ProgressPercent int `json:"progress_percent"`
	// AmountToNext is the score still missing for Next; 0 at the top tier.
	AmountToNext int `json:"amount_to_next"`
}

// IsTop reports whether the result sits in the table's last tier.
func (r Result) IsTop() bool { return r.Next == nil }

// Resolve returns the tier for score in table. Negative scores count as 0.
// Behavior on a table that fails Validate is undefined.
func Resolve(score int, table Table) Result {
	if score < 0 {
		score = 0
	}
	tiers := table.tiers
	// First tier whose lower bound is above score, minus one.
	i := sort.Search(len(tiers), func(i int) bool { return tiers[i].MinScore > score }) - 1
	if i < 0 {
		i = 0
	}
	current := tiers[i]
	if i == len(tiers)-1 {
		return Result{Current: current, ProgressPercent: fullProgress}
	}

	next := tiers[i+1]
	span := float64(next.MinScore - current.MinScore)
	pct := int(math.Round(float64(score-current.MinScore) / span * fullProgress))
	pct = max(0, min(fullProgress, pct))

	return Result{
		Current:         current,
		Next:            &next,
		ProgressPercent: pct,
		AmountToNext:    next.MinScore - score,
	}
}

// Change describes how a tier moved between two scores on the same table.
type Change int

const (
	Unchanged Change = iota
	Promoted
	Demoted
)

// String returns the metric/log label for the change.
func (c Change) String() string {
	switch c {
	case Promoted:
		return "promotion"
	case Demoted:
		return "demotion"
	default:
		return "unchanged"
	}
}

// Compare reports whether moving from before to after changes the tier.
func Compare(before, after int, table Table) Change {
	from := table.index(Resolve(before, table).Current.ID)
	to := table.index(Resolve(after, table).Current.ID)
	switch {
	case to > from:
		return Promoted
	case to < from:
		return Demoted
	default:
		return Unchanged
	}
}
