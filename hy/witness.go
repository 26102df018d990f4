package hy

import (
	"sort"

	"github.com/teranos/depminer/attrset"
)

// WitnessList is a deduplicated collection of agree sets grouped by their
// cardinality. Level k holds the witnesses with exactly k agreeing columns.
//
// An agree set W is evidence that W is not a unique column combination and
// that W does not determine any column outside W. Disagree returns the
// complement when a caller thinks in disagreement sets.
type WitnessList struct {
	numAttrs int
	levels   [][]attrset.Set
	seen     map[string]struct{}
}

// NewWitnessList returns an empty list over numAttrs columns.
func NewWitnessList(numAttrs int) *WitnessList {
	return &WitnessList{
		numAttrs: numAttrs,
		levels:   make([][]attrset.Set, numAttrs+1),
		seen:     make(map[string]struct{}),
	}
}

// Add inserts w unless an equal set is already present. It reports whether w
// was new.
func (l *WitnessList) Add(w attrset.Set) bool {
	key := w.Key()
	if _, ok := l.seen[key]; ok {
		return false
	}
	l.seen[key] = struct{}{}
	k := w.Count()
	l.levels[k] = append(l.levels[k], w)
	return true
}

// Contains reports whether w is in the list.
func (l *WitnessList) Contains(w attrset.Set) bool {
	_, ok := l.seen[w.Key()]
	return ok
}

// Len returns the number of witnesses.
func (l *WitnessList) Len() int {
	return len(l.seen)
}

// NumAttributes returns the number of columns the witnesses range over.
func (l *WitnessList) NumAttributes() int {
	return l.numAttrs
}

// Depth returns the largest cardinality holding a witness, or -1 when empty.
func (l *WitnessList) Depth() int {
	for k := len(l.levels) - 1; k >= 0; k-- {
		if len(l.levels[k]) > 0 {
			return k
		}
	}
	return -1
}

// Level returns the witnesses of cardinality k in insertion order.
func (l *WitnessList) Level(k int) []attrset.Set {
	if k < 0 || k >= len(l.levels) {
		return nil
	}
	return l.levels[k]
}

// All returns every witness in canonical order.
func (l *WitnessList) All() []attrset.Set {
	out := make([]attrset.Set, 0, len(l.seen))
	for _, level := range l.levels {
		out = append(out, level...)
	}
	sort.SliceStable(out, func(i, j int) bool { return attrset.Compare(out[i], out[j]) < 0 })
	return out
}

// Disagree returns the columns on which the rows behind w disagree.
func (l *WitnessList) Disagree(w attrset.Set) attrset.Set {
	return w.Complement(l.numAttrs)
}
