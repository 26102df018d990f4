// Package attrset implements attribute sets: bit vectors over the column
// indexes of a relation.
//
// A Set is immutable. Every operation that changes membership returns a new
// Set, so a Set can be used as a dependency tree key, stored in a witness
// list, or shared between workers without copying.
package attrset

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Set is an immutable set of attribute (column) indexes.
// The zero value is the empty set.
type Set struct {
	bits *bitset.BitSet
}

// Of returns the set holding attrs.
func Of(attrs ...int) Set {
	if len(attrs) == 0 {
		return Set{}
	}
	b := bitset.New(0)
	for _, a := range attrs {
		b.Set(uint(a))
	}
	return Set{bits: b}
}

// Full returns {0, ..., n-1}.
func Full(n int) Set {
	if n <= 0 {
		return Set{}
	}
	b := bitset.New(uint(n))
	for a := 0; a < n; a++ {
		b.Set(uint(a))
	}
	return Set{bits: b}
}

// FromBitSet takes ownership of b. The caller must not modify b afterwards.
func FromBitSet(b *bitset.BitSet) Set {
	return Set{bits: b}
}

// Builder accumulates attributes for a Set on the hot path without an
// allocation per added bit.
type Builder struct {
	bits *bitset.BitSet
}

// NewBuilder returns a builder sized for n attributes.
func NewBuilder(n int) *Builder {
	return &Builder{bits: bitset.New(uint(n))}
}

// Add adds attr.
func (b *Builder) Add(attr int) {
	b.bits.Set(uint(attr))
}

// Build returns the accumulated Set and resets the builder.
func (b *Builder) Build() Set {
	s := Set{bits: b.bits}
	b.bits = bitset.New(b.bits.Len())
	return s
}

// Has reports whether attr is in s.
func (s Set) Has(attr int) bool {
	if s.bits == nil || attr < 0 {
		return false
	}
	return s.bits.Test(uint(attr))
}

// With returns s ∪ {attr}.
func (s Set) With(attr int) Set {
	b := s.clone()
	b.Set(uint(attr))
	return Set{bits: b}
}

// Without returns s \ {attr}.
func (s Set) Without(attr int) Set {
	if !s.Has(attr) {
		return s
	}
	b := s.clone()
	b.Clear(uint(attr))
	return Set{bits: b}
}

// Union returns s ∪ o.
func (s Set) Union(o Set) Set {
	switch {
	case o.bits == nil:
		return s
	case s.bits == nil:
		return o
	}
	return Set{bits: s.bits.Union(o.bits)}
}

// Intersect returns s ∩ o.
func (s Set) Intersect(o Set) Set {
	if s.bits == nil || o.bits == nil {
		return Set{}
	}
	return Set{bits: s.bits.Intersection(o.bits)}
}

// Difference returns s \ o.
func (s Set) Difference(o Set) Set {
	if s.bits == nil || o.bits == nil {
		return s
	}
	return Set{bits: s.bits.Difference(o.bits)}
}

// Complement returns {0, ..., n-1} \ s.
func (s Set) Complement(n int) Set {
	return Full(n).Difference(s)
}

// IsSubsetOf reports whether s ⊆ o.
func (s Set) IsSubsetOf(o Set) bool {
	if s.bits == nil {
		return true
	}
	if o.bits == nil {
		return s.Count() == 0
	}
	return o.bits.IsSuperSet(s.bits)
}

// IsProperSubsetOf reports whether s ⊂ o.
func (s Set) IsProperSubsetOf(o Set) bool {
	return s.Count() < o.Count() && s.IsSubsetOf(o)
}

// Equal reports whether s and o hold the same attributes.
func (s Set) Equal(o Set) bool {
	return s.Count() == o.Count() && s.IsSubsetOf(o)
}

// Count returns |s|.
func (s Set) Count() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// IsEmpty reports whether s holds no attribute.
func (s Set) IsEmpty() bool {
	return s.Count() == 0
}

// First returns the smallest attribute in s, or -1 for the empty set.
func (s Set) First() int {
	if s.bits == nil {
		return -1
	}
	a, ok := s.bits.NextSet(0)
	if !ok {
		return -1
	}
	return int(a)
}

// Attrs returns the attributes of s in ascending order.
func (s Set) Attrs() []int {
	if s.bits == nil {
		return nil
	}
	out := make([]int, 0, s.bits.Count())
	for a, ok := s.bits.NextSet(0); ok; a, ok = s.bits.NextSet(a + 1) {
		out = append(out, int(a))
	}
	return out
}

// Each calls fn for every attribute in ascending order.
func (s Set) Each(fn func(attr int)) {
	if s.bits == nil {
		return
	}
	for a, ok := s.bits.NextSet(0); ok; a, ok = s.bits.NextSet(a + 1) {
		fn(int(a))
	}
}

// Key returns a string usable as a map key. Equal sets have equal keys
// regardless of the capacity of their backing bit vectors.
func (s Set) Key() string {
	if s.bits == nil {
		return ""
	}
	var sb strings.Builder
	for a, ok := s.bits.NextSet(0); ok; a, ok = s.bits.NextSet(a + 1) {
		// two bytes per attribute keeps keys short for realistic widths
		sb.WriteByte(byte(a >> 8))
		sb.WriteByte(byte(a))
	}
	return sb.String()
}

// String renders s as "[0 2 5]".
func (s Set) String() string {
	attrs := s.Attrs()
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = strconv.Itoa(a)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Compare orders sets canonically: by cardinality, then lexicographically by
// ascending attribute index. It returns -1, 0 or +1.
func Compare(a, b Set) int {
	ca, cb := a.Count(), b.Count()
	if ca != cb {
		if ca < cb {
			return -1
		}
		return 1
	}
	aa, ba := a.Attrs(), b.Attrs()
	for i := range aa {
		if aa[i] != ba[i] {
			if aa[i] < ba[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (s Set) clone() *bitset.BitSet {
	if s.bits == nil {
		return bitset.New(0)
	}
	return s.bits.Clone()
}
