package fd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/depminer/attrset"
)

func renderSets(sets []attrset.Set) []string {
	out := make([]string, len(sets))
	for i, s := range sets {
		out[i] = s.String()
	}
	return out
}

func renderFDs(fds []FD) []string {
	out := make([]string, len(fds))
	for i, f := range fds {
		out[i] = f.String()
	}
	return out
}

func TestTreeStartsWithEmptyLHS(t *testing.T) {
	tree := NewTree(3)
	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, 0, tree.Depth())
	assert.Equal(t, []string{"[] -> 0", "[] -> 1", "[] -> 2"}, renderFDs(tree.All()))

	level := tree.Level(0)
	require.Len(t, level, 1)
	assert.Equal(t, []int{0, 1, 2}, level[0].RHS.Attrs())
}

func TestTreeAddRemoveFixesSubtreeUnion(t *testing.T) {
	tree := NewTree(4)
	for a := 0; a < 4; a++ {
		tree.Remove(attrset.Of(), a)
	}
	assert.Equal(t, -1, tree.Depth())

	assert.True(t, tree.Add(attrset.Of(0, 1), 3))
	assert.False(t, tree.Add(attrset.Of(0, 1), 3))
	assert.True(t, tree.Add(attrset.Of(0, 2), 3))
	assert.True(t, tree.Add(attrset.Of(0, 1), 2))

	assert.True(t, tree.FindOrGeneralization(attrset.Of(0, 1, 2), 3))
	assert.False(t, tree.FindOrGeneralization(attrset.Of(0, 1, 2), 0))

	require.True(t, tree.Remove(attrset.Of(0, 1), 3))
	assert.False(t, tree.Contains(attrset.Of(0, 1), 3))
	assert.True(t, tree.Contains(attrset.Of(0, 1), 2))
	assert.True(t, tree.FindOrGeneralization(attrset.Of(0, 2), 3))
	assert.False(t, tree.FindOrGeneralization(attrset.Of(0, 1), 3), "the subtree union must drop rhs 3 on the [0 1] branch")

	require.True(t, tree.Remove(attrset.Of(0, 2), 3))
	require.True(t, tree.Remove(attrset.Of(0, 1), 2))
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, -1, tree.Depth())
	assert.False(t, tree.Remove(attrset.Of(0, 1), 2))
}

func TestTreeGeneralizationsAndSpecializations(t *testing.T) {
	tree := NewTree(5)
	for a := 0; a < 5; a++ {
		tree.Remove(attrset.Of(), a)
	}
	tree.Add(attrset.Of(1), 4)
	tree.Add(attrset.Of(0, 2), 4)
	tree.Add(attrset.Of(0, 2, 3), 1)
	tree.Add(attrset.Of(2, 3), 4)

	assert.ElementsMatch(t, []string{"[1]", "[0 2]", "[2 3]"}, renderSets(tree.GetAndGeneralizations(attrset.Of(0, 1, 2, 3), 4)))
	assert.Empty(t, tree.GetAndGeneralizations(attrset.Of(0, 1, 2, 3), 0))
	assert.Equal(t, []string{"[0 2 3]"}, renderSets(tree.GetAndGeneralizations(attrset.Of(0, 2, 3), 1)))

	assert.ElementsMatch(t, []string{"[0 2]", "[2 3]"}, renderSets(tree.FindSpecializations(attrset.Of(2), 4)))
	assert.Equal(t, []string{"[0 2 3]"}, renderSets(tree.FindSpecializations(attrset.Of(3), 1)))
	assert.Empty(t, tree.FindSpecializations(attrset.Of(4), 1))
}

func TestTreeLevelGroupsRHS(t *testing.T) {
	tree := NewTree(4)
	for a := 0; a < 4; a++ {
		tree.Remove(attrset.Of(), a)
	}
	tree.Add(attrset.Of(1, 2), 0)
	tree.Add(attrset.Of(1, 2), 3)
	tree.Add(attrset.Of(0, 3), 1)

	level := tree.Level(2)
	require.Len(t, level, 2)
	assert.Equal(t, "[0 3]", level[0].LHS.String())
	assert.Equal(t, []int{1}, level[0].RHS.Attrs())
	assert.Equal(t, "[1 2]", level[1].LHS.String())
	assert.Equal(t, []int{0, 3}, level[1].RHS.Attrs())

	assert.Equal(t, []string{"[0 3] -> 1", "[1 2] -> 0", "[1 2] -> 3"}, renderFDs(tree.All()))
}
