package ucc

import (
	"sort"

	"github.com/teranos/depminer/attrset"
)

// Tree is a prefix tree of attribute sets believed to be minimal UCCs. A
// stored set is the path of ascending attribute indexes from the root to a
// node with isUCC set. The root stands for the empty set.
//
// The stored sets form an antichain: Add never checks this itself, callers
// look for generalizations first.
type Tree struct {
	numAttrs int
	root     *node
	size     int
}

type node struct {
	children []*node // indexed by attribute, allocated on first child
	isUCC    bool
}

// NewTree returns a tree over numAttrs columns holding only the empty set.
func NewTree(numAttrs int) *Tree {
	return &Tree{numAttrs: numAttrs, root: &node{isUCC: true}, size: 1}
}

// NumAttributes returns the number of columns of the tree.
func (t *Tree) NumAttributes() int {
	return t.numAttrs
}

// Len returns the number of stored sets.
func (t *Tree) Len() int {
	return t.size
}

// Add stores s and reports whether it was not stored before.
func (t *Tree) Add(s attrset.Set) bool {
	n := t.root
	s.Each(func(a int) {
		if n.children == nil {
			n.children = make([]*node, t.numAttrs)
		}
		if n.children[a] == nil {
			n.children[a] = &node{}
		}
		n = n.children[a]
	})
	if n.isUCC {
		return false
	}
	n.isUCC = true
	t.size++
	return true
}

// Remove deletes s and prunes branches left without stored sets. It reports
// whether s was stored.
func (t *Tree) Remove(s attrset.Set) bool {
	removed := remove(t.root, s.Attrs())
	if removed {
		t.size--
	}
	return removed
}

func remove(n *node, attrs []int) bool {
	if len(attrs) == 0 {
		if !n.isUCC {
			return false
		}
		n.isUCC = false
		return true
	}
	if n.children == nil {
		return false
	}
	child := n.children[attrs[0]]
	if child == nil || !remove(child, attrs[1:]) {
		return false
	}
	if !child.isUCC && child.isLeaf() {
		n.children[attrs[0]] = nil
		if n.isLeaf() {
			n.children = nil
		}
	}
	return true
}

func (n *node) isLeaf() bool {
	for _, c := range n.children {
		if c != nil {
			return false
		}
	}
	return true
}

// Contains reports whether s itself is stored.
func (t *Tree) Contains(s attrset.Set) bool {
	n := t.root
	for _, a := range s.Attrs() {
		if n.children == nil || n.children[a] == nil {
			return false
		}
		n = n.children[a]
	}
	return n.isUCC
}

// FindOrGeneralization reports whether s or a subset of s is stored.
func (t *Tree) FindOrGeneralization(s attrset.Set) bool {
	return findSubset(t.root, s.Attrs())
}

func findSubset(n *node, attrs []int) bool {
	if n.isUCC {
		return true
	}
	if n.children == nil {
		return false
	}
	for i, a := range attrs {
		if c := n.children[a]; c != nil && findSubset(c, attrs[i+1:]) {
			return true
		}
	}
	return false
}

// GetAndGeneralizations returns every stored subset of s, s included, in
// depth-first order.
func (t *Tree) GetAndGeneralizations(s attrset.Set) []attrset.Set {
	var out []attrset.Set
	collectSubsets(t.root, s.Attrs(), nil, &out)
	return out
}

func collectSubsets(n *node, attrs, path []int, out *[]attrset.Set) {
	if n.isUCC {
		*out = append(*out, attrset.Of(path...))
	}
	if n.children == nil {
		return
	}
	for i, a := range attrs {
		if c := n.children[a]; c != nil {
			collectSubsets(c, attrs[i+1:], append(path, a), out)
		}
	}
}

// FindSpecializations returns every stored superset of s, s included.
func (t *Tree) FindSpecializations(s attrset.Set) []attrset.Set {
	var out []attrset.Set
	collectSupersets(t.root, s.Attrs(), nil, &out)
	return out
}

func collectSupersets(n *node, required, path []int, out *[]attrset.Set) {
	if len(required) == 0 && n.isUCC {
		*out = append(*out, attrset.Of(path...))
	}
	if n.children == nil {
		return
	}
	// paths ascend, so a child beyond the next required attribute can never
	// cover it
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
		collectSupersets(c, rest, append(path, a), out)
	}
}

// Level returns the stored sets of cardinality depth in canonical order.
func (t *Tree) Level(depth int) []attrset.Set {
	var out []attrset.Set
	collectLevel(t.root, depth, nil, &out)
	return out
}

func collectLevel(n *node, depth int, path []int, out *[]attrset.Set) {
	if len(path) == depth {
		if n.isUCC {
			*out = append(*out, attrset.Of(path...))
		}
		return
	}
	for a, c := range n.children {
		if c != nil {
			collectLevel(c, depth, append(path, a), out)
		}
	}
}

// All returns every stored set in canonical order.
func (t *Tree) All() []attrset.Set {
	out := make([]attrset.Set, 0, t.size)
	collectAll(t.root, nil, &out)
	sort.SliceStable(out, func(i, j int) bool { return attrset.Compare(out[i], out[j]) < 0 })
	return out
}

func collectAll(n *node, path []int, out *[]attrset.Set) {
	if n.isUCC {
		*out = append(*out, attrset.Of(path...))
	}
	for a, c := range n.children {
		if c != nil {
			collectAll(c, append(path, a), out)
		}
	}
}

// Depth returns the cardinality of the largest stored set, or -1 when the
// tree is empty.
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
