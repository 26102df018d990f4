package fd

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/depminer/attrset"
	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/hy"
	"github.com/teranos/depminer/relation"
)

func buildRelation(t *testing.T, opts relation.Options, rows [][]string) *relation.Relation {
	t.Helper()
	require.NotEmpty(t, rows)
	cols := make([]relation.Column, len(rows[0]))
	for c := range cols {
		cols[c].Name = string(rune('A' + c))
		for _, row := range rows {
			cols[c].Values = append(cols[c].Values, row[c])
		}
	}
	rel, err := relation.Build(cols, opts)
	require.NoError(t, err)
	return rel
}

func randomRows(rng *rand.Rand, width, n, domain int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = make([]string, width)
		for c := range rows[i] {
			rows[i][c] = string(rune('a' + rng.Intn(domain)))
		}
	}
	return rows
}

func discover(t *testing.T, rel *relation.Relation, opts Options) []FD {
	t.Helper()
	h, err := New(rel, opts)
	require.NoError(t, err)
	got, err := h.Discover(context.Background())
	require.NoError(t, err)
	return got
}

// holds groups rows by their classes over lhs; every group must agree on rhs.
func holds(rel *relation.Relation, lhs attrset.Set, rhs int) bool {
	rec := rel.Records()
	attrs := lhs.Attrs()
	reps := make(map[string]int)
	for row := 0; row < rel.NumRows(); row++ {
		key, ok := hy.RowKey(nil, rec.Row(row), attrs)
		if !ok {
			continue
		}
		rep, seen := reps[string(key)]
		if !seen {
			reps[string(key)] = row
			continue
		}
		if !rec.Agree(rep, row, rhs) {
			return false
		}
	}
	return true
}

func bruteForce(rel *relation.Relation) []string {
	n := rel.NumColumns()
	var out []FD
	for r := 0; r < n; r++ {
		for mask := 0; mask < 1<<n; mask++ {
			if mask&(1<<r) != 0 {
				continue
			}
			var attrs []int
			for a := 0; a < n; a++ {
				if mask&(1<<a) != 0 {
					attrs = append(attrs, a)
				}
			}
			lhs := attrset.Of(attrs...)
			if !holds(rel, lhs, r) {
				continue
			}
			minimal := true
			for _, a := range attrs {
				if holds(rel, lhs.Without(a), r) {
					minimal = false
					break
				}
			}
			if minimal {
				out = append(out, FD{LHS: lhs, RHS: r})
			}
		}
	}
	tree := NewTree(n)
	for a := 0; a < n; a++ {
		tree.Remove(attrset.Of(), a)
	}
	for _, f := range out {
		tree.Add(f.LHS, f.RHS)
	}
	return renderFDs(tree.All())
}

func TestNewRejectsBadOptions(t *testing.T) {
	rel := buildRelation(t, relation.DefaultOptions(), [][]string{{"x"}})

	_, err := New(rel, Options{Threads: 0})
	assert.True(t, errors.IsConfigurationError(err))

	_, err = New(rel, Options{Threads: 1, MaxLHS: -2})
	assert.True(t, errors.IsConfigurationError(err))

	_, err = New(nil, Options{Threads: 1})
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestIdenticalColumnsDetermineEachOther(t *testing.T) {
	rel := buildRelation(t, relation.DefaultOptions(), [][]string{
		{"1", "x", "x"},
		{"2", "y", "y"},
		{"1", "z", "z"},
		{"3", "x", "x"},
	})
	got := discover(t, rel, Options{Threads: 1, Logger: zaptest.NewLogger(t).Sugar()})
	assert.Equal(t, []string{"[1] -> 2", "[2] -> 1"}, renderFDs(got))
}

func TestConstantColumn(t *testing.T) {
	rel := buildRelation(t, relation.DefaultOptions(), [][]string{
		{"k", "1"},
		{"k", "2"},
		{"k", "3"},
	})
	// the constant column is determined by nothing at all
	assert.Equal(t, []string{"[] -> 0"}, renderFDs(discover(t, rel, Options{Threads: 1})))
}

func TestSingleRow(t *testing.T) {
	rel := buildRelation(t, relation.DefaultOptions(), [][]string{{"a", "b"}})
	assert.Equal(t, []string{"[] -> 0", "[] -> 1"}, renderFDs(discover(t, rel, Options{Threads: 1})))
}

func TestNullPolicyChangesFDs(t *testing.T) {
	cols := []relation.Column{
		{Name: "A", Values: []string{"", "", "1"}, Nulls: []bool{true, true, false}},
		{Name: "B", Values: []string{"x", "x", "y"}},
	}
	equal, err := relation.Build(cols, relation.Options{NullEqualNull: true})
	require.NoError(t, err)
	distinct, err := relation.Build(cols, relation.Options{NullEqualNull: false})
	require.NoError(t, err)

	assert.Equal(t, []string{"[0] -> 1", "[1] -> 0"}, renderFDs(discover(t, equal, Options{Threads: 1})))
	assert.Equal(t, []string{"[0] -> 1"}, renderFDs(discover(t, distinct, Options{Threads: 1})))
}

func TestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 40; trial++ {
		width := 1 + rng.Intn(8)
		rows := randomRows(rng, width, 1+rng.Intn(200), 2+rng.Intn(4))
		rel := buildRelation(t, relation.DefaultOptions(), rows)

		want := bruteForce(rel)
		got := renderFDs(discover(t, rel, Options{Threads: 1 + rng.Intn(4)}))
		require.Equal(t, want, got, "trial %d: %d columns, %d rows", trial, width, len(rows))
	}
}

func TestResultIsSoundAndMinimal(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	rows := randomRows(rng, 7, 180, 3)
	for _, row := range rows {
		row[6] = row[0] + row[1]
	}
	rel := buildRelation(t, relation.DefaultOptions(), rows)

	got := discover(t, rel, Options{Threads: 4})
	require.NotEmpty(t, got)
	for _, f := range got {
		assert.False(t, f.LHS.Has(f.RHS), "%s is trivial", f)
		assert.True(t, holds(rel, f.LHS, f.RHS), "%s does not hold", f)
		for _, a := range f.LHS.Attrs() {
			assert.False(t, holds(rel, f.LHS.Without(a), f.RHS), "%s is not minimal", f)
		}
	}
}

func TestIndependentOfThreads(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	rel := buildRelation(t, relation.DefaultOptions(), randomRows(rng, 8, 200, 4))

	reference := renderFDs(discover(t, rel, Options{Threads: 1}))
	for _, threads := range []int{2, 8} {
		assert.Equal(t, reference, renderFDs(discover(t, rel, Options{Threads: threads})), "threads=%d", threads)
	}
}

func TestMaxLHS(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	rel := buildRelation(t, relation.DefaultOptions(), randomRows(rng, 6, 60, 3))

	all := discover(t, rel, Options{Threads: 1})
	limited := discover(t, rel, Options{Threads: 1, MaxLHS: 2})

	want := []string{}
	for _, f := range all {
		if f.LHS.Count() <= 2 {
			want = append(want, f.String())
		}
	}
	assert.Equal(t, want, renderFDs(limited))
}

func TestDiscoverCancelled(t *testing.T) {
	rel := buildRelation(t, relation.DefaultOptions(), [][]string{{"a", "b"}, {"c", "d"}})
	h, err := New(rel, Options{Threads: 2})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Discover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
