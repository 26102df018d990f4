package attrset

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfAndAttrs(t *testing.T) {
	s := Of(5, 0, 2, 2)
	assert.Equal(t, []int{0, 2, 5}, s.Attrs())
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, 0, s.First())
	assert.Equal(t, "[0 2 5]", s.String())

	var empty Set
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, -1, empty.First())
	assert.Nil(t, empty.Attrs())
	assert.Equal(t, "[]", empty.String())
}

func TestImmutability(t *testing.T) {
	s := Of(1, 2)
	with := s.With(3)
	without := s.Without(1)

	assert.Equal(t, []int{1, 2}, s.Attrs())
	assert.Equal(t, []int{1, 2, 3}, with.Attrs())
	assert.Equal(t, []int{2}, without.Attrs())
	assert.Equal(t, s, s.Without(9), "removing an absent attribute returns the same set")
}

func TestSetAlgebra(t *testing.T) {
	a := Of(0, 1, 2)
	b := Of(2, 3)

	assert.Equal(t, []int{0, 1, 2, 3}, a.Union(b).Attrs())
	assert.Equal(t, []int{2}, a.Intersect(b).Attrs())
	assert.Equal(t, []int{0, 1}, a.Difference(b).Attrs())
	assert.Equal(t, []int{3, 4}, a.Complement(5).Attrs())
	assert.Equal(t, []int{0, 1, 2, 3}, Full(4).Attrs())
	assert.True(t, Full(0).IsEmpty())

	var empty Set
	assert.True(t, empty.Union(b).Equal(b))
	assert.True(t, b.Union(empty).Equal(b))
	assert.True(t, a.Intersect(empty).IsEmpty())
	assert.True(t, a.Difference(empty).Equal(a))
}

func TestSubset(t *testing.T) {
	var empty Set
	assert.True(t, empty.IsSubsetOf(Of(1)))
	assert.True(t, empty.IsSubsetOf(empty))
	assert.True(t, Of(1, 3).IsSubsetOf(Of(0, 1, 3)))
	assert.False(t, Of(1, 4).IsSubsetOf(Of(0, 1, 3)))
	assert.False(t, Of(1).IsSubsetOf(empty))
	assert.True(t, Of(1).IsProperSubsetOf(Of(1, 2)))
	assert.False(t, Of(1, 2).IsProperSubsetOf(Of(1, 2)))

	// capacity of the backing vector must not matter
	wide := Of(100).Without(100).With(1)
	assert.True(t, wide.IsSubsetOf(Of(1, 2)))
	assert.True(t, wide.Equal(Of(1)))
}

func TestKeyIgnoresCapacity(t *testing.T) {
	a := Of(1, 2)
	b := Of(1, 2, 300).Without(300)

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, Of(1).Key(), Of(2).Key())
	assert.NotEqual(t, Of(1, 2).Key(), Of(258).Key())
	assert.Equal(t, "", Set{}.Key())
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(8)
	b.Add(3)
	b.Add(1)
	first := b.Build()
	b.Add(7)
	second := b.Build()

	assert.Equal(t, []int{1, 3}, first.Attrs())
	assert.Equal(t, []int{7}, second.Attrs())
}

func TestEach(t *testing.T) {
	var got []int
	Of(4, 2, 9).Each(func(a int) { got = append(got, a) })
	assert.Equal(t, []int{2, 4, 9}, got)
}

func TestCompare(t *testing.T) {
	sets := []Set{Of(1, 2), Of(3), Of(0, 4), Of(), Of(0, 2), Of(1)}
	sort.Slice(sets, func(i, j int) bool { return Compare(sets[i], sets[j]) < 0 })

	var rendered []string
	for _, s := range sets {
		rendered = append(rendered, s.String())
	}
	require.Equal(t, []string{"[]", "[1]", "[3]", "[0 2]", "[0 4]", "[1 2]"}, rendered)
	assert.Equal(t, 0, Compare(Of(1, 2), Of(2, 1)))
}
