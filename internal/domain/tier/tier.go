// Package tier maps accumulated scores onto named rank tiers.
//
// A Table is an ordered, immutable list of tier definitions. Tables are
// constant data shipped with the code; each ranking track owns exactly one
// table and scores are never resolved against another track's table.
package tier

import (
	"fmt"
)

// Unbounded marks the MaxScore of the top tier in a table.
const Unbounded = -1

// minTiers is the smallest table that still has a "next tier" below the top.
const minTiers = 2

// ID identifies a tier independently of its display name.
type ID string

// Definition describes one band of a score range.
type Definition struct {
	ID ID `json:"id"`
	// MinScore is the inclusive lower bound.
	MinScore int `json:"min_score"`
	// MaxScore is the inclusive upper bound, or Unbounded for the top tier.
	// It is derived by NewTable from the following tier.
	MaxScore    int    `json:"max_score"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// IsTop reports whether the definition has no upper bound.
func (d Definition) IsTop() bool { return d.MaxScore == Unbounded }

// Contains reports whether score falls inside the definition's range.
func (d Definition) Contains(score int) bool {
	if score < d.MinScore {
		return false
	}
	return d.IsTop() || score <= d.MaxScore
}

// Style returns the presentation metadata for the definition.
func (d Definition) Style() Style { return StyleFor(d.ID) }

// Table is an ordered sequence of contiguous tier definitions.
type Table struct {
	name  string
	tiers []Definition
}

// NewTable builds a table from definitions ordered by MinScore and derives
// each MaxScore. It returns an error wrapping ErrInvalidTable when the
// definitions break the table invariants.
func NewTable(name string, defs ...Definition) (Table, error) {
	tiers := make([]Definition, len(defs))
	copy(tiers, defs)
	for i := range tiers {
		if i == len(tiers)-1 {
			tiers[i].MaxScore = Unbounded
			continue
		}
		tiers[i].MaxScore = tiers[i+1].MinScore - 1
	}
	t := Table{name: name, tiers: tiers}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// MustTable is NewTable for package-level constants. It panics on a
// malformed table.
func MustTable(name string, defs ...Definition) Table {
	t, err := NewTable(name, defs...)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate checks that the table starts at 0, is strictly increasing and
// contiguous, has at least two tiers and unique names and ids.
func (t Table) Validate() error {
	if len(t.tiers) < minTiers {
		return fmt.Errorf("table %q: %w: need at least %d tiers, got %d", t.name, ErrInvalidTable, minTiers, len(t.tiers))
	}
	if t.tiers[0].MinScore != 0 {
		return fmt.Errorf("table %q: %w: first tier starts at %d, want 0", t.name, ErrInvalidTable, t.tiers[0].MinScore)
	}
	names := make(map[string]struct{}, len(t.tiers))
	ids := make(map[ID]struct{}, len(t.tiers))
	for i, d := range t.tiers {
		if d.Name == "" || d.ID == "" {
			return fmt.Errorf("table %q: %w: tier %d has no name or id", t.name, ErrInvalidTable, i)
		}
		if _, dup := names[d.Name]; dup {
			return fmt.Errorf("table %q: %w: duplicate name %q", t.name, ErrInvalidTable, d.Name)
		}
		if _, dup := ids[d.ID]; dup {
			return fmt.Errorf("table %q: %w: duplicate id %q", t.name, ErrInvalidTable, d.ID)
		}
		names[d.Name] = struct{}{}
		ids[d.ID] = struct{}{}

		if i == len(t.tiers)-1 {
			if !d.IsTop() {
				return fmt.Errorf("table %q: %w: top tier %q must be unbounded", t.name, ErrInvalidTable, d.Name)
			}
			continue
		}
		next := t.tiers[i+1]
		if next.MinScore <= d.MinScore {
			return fmt.Errorf("table %q: %w: %q (%d) does not increase over %q (%d)", t.name, ErrInvalidTable, next.Name, next.MinScore, d.Name, d.MinScore)
		}
		if d.MaxScore != next.MinScore-1 {
			return fmt.Errorf("table %q: %w: gap or overlap between %q and %q", t.name, ErrInvalidTable, d.Name, next.Name)
		}
	}
	return nil
}

// Name returns the table's name.
func (t Table) Name() string { return t.name }

// Len returns the number of tiers.
func (t Table) Len() int { return len(t.tiers) }

// At returns the i-th tier in ascending order.
func (t Table) At(i int) Definition { return t.tiers[i] }

// Tiers returns a copy of the definitions in ascending order.
func (t Table) Tiers() []Definition {
	out := make([]Definition, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// Lookup returns the tier with the given id.
func (t Table) Lookup(id ID) (Definition, bool) {
	for _, d := range t.tiers {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// index returns the position of id in the table, or -1.
func (t Table) index(id ID) int {
	for i, d := range t.tiers {
		if d.ID == id {
			return i
		}
	}
	return -1
}
