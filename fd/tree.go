package fd

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/teranos/depminer/attrset"
)

// FD is the functional dependency LHS → RHS.
type FD struct {
	LHS attrset.Set
	RHS int
}

func (f FD) String() string {
	return fmt.Sprintf("%s -> %d", f.LHS, f.RHS)
}

// Compare orders FDs by LHS canonically, then by RHS.
func Compare(a, b FD) int {
	if c := attrset.Compare(a.LHS, b.LHS); c != 0 {
		return c
	}
	switch {
	case a.RHS < b.RHS:
		return -1
	case a.RHS > b.RHS:
		return 1
	}
	return 0
}

// Tree is a prefix tree over left-hand sides. Each node holds the right-hand
// sides of the FDs whose LHS is its path, plus the union of right-hand sides
// stored anywhere below it, which lets lookups for one RHS skip whole
// branches.
type Tree struct {
	numAttrs int
	root     *node
	size     int
}

type node struct {
	children []*node
	rhs      *bitset.BitSet
	subtree  *bitset.BitSet
}

func newNode(n int) *node {
	return &node{rhs: bitset.New(uint(n)), subtree: bitset.New(uint(n))}
}

// NewTree returns a tree holding ∅ → A for every attribute A.
func NewTree(numAttrs int) *Tree {
	t := &Tree{numAttrs: numAttrs, root: newNode(numAttrs)}
	for a := 0; a < numAttrs; a++ {
		t.Add(attrset.Of(), a)
	}
	return t
}

// NumAttributes returns the number of columns of the tree.
func (t *Tree) NumAttributes() int {
	return t.numAttrs
}

// Len returns the number of stored FDs.
func (t *Tree) Len() int {
	return t.size
}

// Add stores lhs → rhs and reports whether it was not stored before.
func (t *Tree) Add(lhs attrset.Set, rhs int) bool {
	r := uint(rhs)
	n := t.root
	n.subtree.Set(r)
	lhs.Each(func(a int) {
		if n.children == nil {
			n.children = make([]*node, t.numAttrs)
		}
		if n.children[a] == nil {
			n.children[a] = newNode(t.numAttrs)
		}
		n = n.children[a]
		n.subtree.Set(r)
	})
	if n.rhs.Test(r) {
		return false
	}
	n.rhs.Set(r)
	t.size++
	return true
}

// Remove deletes lhs → rhs, fixes the subtree unions on the path and prunes
// nodes left without any FD. It reports whether the FD was stored.
func (t *Tree) Remove(lhs attrset.Set, rhs int) bool {
	removed := t.remove(t.root, lhs.Attrs(), uint(rhs))
	if removed {
		t.size--
	}
	return removed
}

func (t *Tree) remove(n *node, attrs []int, r uint) bool {
	if len(attrs) == 0 {
		if !n.rhs.Test(r) {
			return false
		}
		n.rhs.Clear(r)
		n.refresh(r)
		return true
	}
	if n.children == nil {
		return false
	}
	child := n.children[attrs[0]]
	if child == nil || !t.remove(child, attrs[1:], r) {
		return false
	}
	if child.subtree.None() {
		n.children[attrs[0]] = nil
	}
	n.refresh(r)
	return true
}

// refresh recomputes bit r of the subtree union from the node and its
// children.
func (n *node) refresh(r uint) {
	if n.rhs.Test(r) {
		n.subtree.Set(r)
		return
	}
	for _, c := range n.children {
		if c != nil && c.subtree.Test(r) {
			n.subtree.Set(r)
			return
		}
	}
	n.subtree.Clear(r)
}

// Contains reports whether lhs → rhs itself is stored.
func (t *Tree) Contains(lhs attrset.Set, rhs int) bool {
	n := t.root
	for _, a := range lhs.Attrs() {
		if n.children == nil || n.children[a] == nil {
			return false
		}
		n = n.children[a]
	}
	return n.rhs.Test(uint(rhs))
}

// FindOrGeneralization reports whether g → rhs is stored for some g ⊆ lhs.
func (t *Tree) FindOrGeneralization(lhs attrset.Set, rhs int) bool {
	return findSubset(t.root, lhs.Attrs(), uint(rhs))
}

func findSubset(n *node, attrs []int, r uint) bool {
	if !n.subtree.Test(r) {
		return false
	}
	if n.rhs.Test(r) {
		return true
	}
	if n.children == nil {
		return false
	}
	for i, a := range attrs {
		if c := n.children[a]; c != nil && findSubset(c, attrs[i+1:], r) {
			return true
		}
	}
	return false
}

// GetAndGeneralizations returns every g ⊆ lhs with g → rhs stored.
func (t *Tree) GetAndGeneralizations(lhs attrset.Set, rhs int) []attrset.Set {
	var out []attrset.Set
	collectSubsets(t.root, lhs.Attrs(), nil, uint(rhs), &out)
	return out
}

func collectSubsets(n *node, attrs, path []int, r uint, out *[]attrset.Set) {
	if !n.subtree.Test(r) {
		return
	}
	if n.rhs.Test(r) {
		*out = append(*out, attrset.Of(path...))
	}
	if n.children == nil {
		return
	}
	for i, a := range attrs {
		if c := n.children[a]; c != nil {
			collectSubsets(c, attrs[i+1:], append(path, a), r, out)
		}
	}
}

// FindSpecializations returns every s ⊇ lhs with s → rhs stored.
func (t *Tree) FindSpecializations(lhs attrset.Set, rhs int) []attrset.Set {
	var out []attrset.Set
	collectSupersets(t.root, lhs.Attrs(), nil, uint(rhs), &out)
	return out
}

func collectSupersets(n *node, required, path []int, r uint, out *[]attrset.Set) {
	if !n.subtree.Test(r) {
		return
	}
	if len(required) == 0 && n.rhs.Test(r) {
		*out = append(*out, attrset.Of(path...))
	}
	if n.children == nil {
		return
	}
	limit := len(n.children) - 1
	if len(required) > 0 {
		limit = required[0]
	}
	for a := 0; a <= limit; a++ {
		c := n.children[a]
		if c == nil {
			continue
		}
		rest := required
		if len(required) > 0 && a == required[0] {
			rest = required[1:]
		}
		collectSupersets(c, rest, append(path, a), r, out)
	}
}

// Candidate groups the right-hand sides stored under one LHS.
type Candidate struct {
	LHS attrset.Set
	RHS attrset.Set
}

// Level returns the nodes at depth that hold at least one FD, in canonical
// LHS order.
func (t *Tree) Level(depth int) []Candidate {
	var out []Candidate
	collectLevel(t.root, depth, nil, &out)
	return out
}

func collectLevel(n *node, depth int, path []int, out *[]Candidate) {
	if len(path) == depth {
		if n.rhs.Any() {
			*out = append(*out, Candidate{LHS: attrset.Of(path...), RHS: attrset.FromBitSet(n.rhs.Clone())})
		}
		return
	}
	for a, c := range n.children {
		if c != nil {
			collectLevel(c, depth, append(path, a), out)
		}
	}
}

// All returns every stored FD in canonical order.
func (t *Tree) All() []FD {
	out := make([]FD, 0, t.size)
	collectAll(t.root, nil, &out)
	sort.SliceStable(out, func(i, j int) bool { return Compare(out[i], out[j]) < 0 })
	return out
}

func collectAll(n *node, path []int, out *[]FD) {
	if n.rhs.Any() {
		lhs := attrset.Of(path...)
		for r, ok := n.rhs.NextSet(0); ok; r, ok = n.rhs.NextSet(r + 1) {
			*out = append(*out, FD{LHS: lhs, RHS: int(r)})
		}
	}
	for a, c := range n.children {
		if c != nil {
			collectAll(c, append(path, a), out)
		}
	}
}

// Depth returns the size of the largest stored LHS, or -1 when the tree is
// empty.
func (t *Tree) Depth() int {
	if t.size == 0 {
		return -1
	}
	return depth(t.root)
}

func depth(n *node) int {
	d := 0
	for _, c := range n.children {
		if c != nil {
			if cd := depth(c) + 1; cd > d {
				d = cd
			}
		}
	}
	return d
}
