// Package table holds the value -> cheapest term maps the search is built on.
//
// The same type serves as a level table (terms of one exact digit budget) and
// as the aggregated table (the best term per value across all budgets built
// so far). Entries are keyed by the decimal form of the value.
package table

import (
	"math/big"
	"sort"

	"digits/internal/term"
)

// Key returns the map key for v.
func Key(v *big.Int) string { return v.String() }

// Table maps each value to the cheapest term found for it. It is not safe
// for concurrent use; parallel builders fill private tables and Merge them.
type Table struct {
	entries map[string]*term.Term
}

// New returns an empty table.
func New() *Table {
	return &Table{entries: make(map[string]*term.Term)}
}

// Insert stores x unless an entry for the same value already wins under
// term.Less. It reports whether x was stored.
func (t *Table) Insert(x *term.Term) bool {
	k := Key(x.Value())
	if cur, ok := t.entries[k]; ok && !term.Less(x, cur) {
		return false
	}
	t.entries[k] = x
	return true
}

// Merge inserts every entry of src and returns how many were stored.
// Merging the same table twice leaves t unchanged the second time.
func (t *Table) Merge(src *Table) int {
	n := 0
	for _, x := range src.entries {
		if t.Insert(x) {
			n++
		}
	}
	return n
}

// Get returns the term recorded for v.
func (t *Table) Get(v *big.Int) (*term.Term, bool) {
	x, ok := t.entries[Key(v)]
	return x, ok
}

// Has reports whether v is present.
func (t *Table) Has(v *big.Int) bool {
	_, ok := t.entries[Key(v)]
	return ok
}

// Len returns the number of distinct values.
func (t *Table) Len() int { return len(t.entries) }

// Terms returns the entries ordered by value.
func (t *Table) Terms() []*term.Term {
	out := make([]*term.Term, 0, len(t.entries))
	for _, x := range t.entries {
		out = append(out, x)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Value().Cmp(out[j].Value()) < 0
	})
	return out
}

// Range calls fn for every entry in unspecified order until fn returns false.
func (t *Table) Range(fn func(*term.Term) bool) {
	for _, x := range t.entries {
		if !fn(x) {
			return
		}
	}
}
