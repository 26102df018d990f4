package relation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/depminer/errors"
)

func col(name string, values ...string) Column {
	return Column{Name: name, Values: values}
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	_, err := Build(nil, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInputError(err))

	_, err = Build([]Column{col("a", "1", "2"), col("b", "1")}, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInputError(err))

	bad := col("a", "1", "2")
	bad.Nulls = []bool{true}
	_, err = Build([]Column{bad}, DefaultOptions())
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestBuildPartitions(t *testing.T) {
	rel, err := Build([]Column{
		col("a", "x", "y", "x", "z", "y", "x"),
		col("b", "1", "2", "3", "4", "5", "6"),
		col("c", "k", "k", "k", "k", "k", "k"),
	}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, rel.NumColumns())
	assert.Equal(t, 6, rel.NumRows())
	assert.Equal(t, []string{"a", "b", "c"}, rel.ColumnNames())

	a := rel.PLI(0)
	assert.Equal(t, [][]int{{0, 2, 5}, {1, 4}}, a.Clusters())
	assert.Equal(t, 5, a.Size())
	assert.Equal(t, 3, a.MaxClusterSize())
	assert.False(t, a.IsUnique())
	assert.False(t, a.IsConstant())

	assert.True(t, rel.PLI(1).IsUnique())
	assert.True(t, rel.PLI(2).IsConstant())

	rec := rel.Records()
	assert.Equal(t, []ClusterID{0, Unique, 0}, rec.Row(0))
	assert.Equal(t, []ClusterID{1, Unique, 0}, rec.Row(1))
	assert.Equal(t, []ClusterID{Unique, Unique, 0}, rec.Row(3))
	assert.True(t, rec.Agree(0, 2, 0))
	assert.False(t, rec.Agree(0, 1, 0))
	assert.False(t, rec.Agree(0, 2, 1), "unique cells never agree")
}

func TestNullPolicy(t *testing.T) {
	c := col("a", "1", "", "3", "")
	c.Nulls = []bool{false, true, false, true}

	equal, err := Build([]Column{c}, Options{NullEqualNull: true})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 3}}, equal.PLI(0).Clusters())

	distinct, err := Build([]Column{c}, Options{NullEqualNull: false})
	require.NoError(t, err)
	assert.True(t, distinct.PLI(0).IsUnique())
	assert.Equal(t, Unique, distinct.Records().At(1, 0))
}

func TestNormalization(t *testing.T) {
	c := col("a", "caf\u00e9", "cafe\u0301", " caf\u00e9 ")

	plain, err := Build([]Column{c}, Options{})
	require.NoError(t, err)
	assert.True(t, plain.PLI(0).IsUnique())

	nfc, err := Build([]Column{c}, Options{NormalizeUnicode: true})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}}, nfc.PLI(0).Clusters())

	both, err := Build([]Column{c}, Options{NormalizeUnicode: true, TrimSpace: true})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2}}, both.PLI(0).Clusters())
}

func TestDeterministicBuild(t *testing.T) {
	cols := randomColumns(rand.New(rand.NewSource(7)), 5, 120, 4)

	first, err := Build(cols, DefaultOptions())
	require.NoError(t, err)
	second, err := Build(cols, DefaultOptions())
	require.NoError(t, err)

	for attr := range cols {
		assert.Equal(t, first.PLI(attr).Clusters(), second.PLI(attr).Clusters())
	}
	assert.Equal(t, first.Records().cells, second.Records().cells)
}

func TestPartitionCoversEveryRowOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 20; trial++ {
		cols := randomColumns(rng, 4, 1+rng.Intn(150), 1+rng.Intn(6))
		for i := range cols {
			cols[i].Nulls = make([]bool, cols[i].Len())
			for r := range cols[i].Nulls {
				cols[i].Nulls[r] = rng.Intn(10) == 0
			}
		}

		for _, nullEq := range []bool{true, false} {
			rel, err := Build(cols, Options{NullEqualNull: nullEq})
			require.NoError(t, err)

			for attr := range cols {
				p := rel.PLI(attr)
				require.NoError(t, p.Verify())

				// clusters plus implicit singletons cover the row domain exactly once
				count := make([]int, rel.NumRows())
				for _, c := range p.Clusters() {
					for _, row := range c {
						count[row]++
					}
				}
				for row, n := range count {
					assert.LessOrEqual(t, n, 1)
					if n == 0 {
						assert.Equal(t, Unique, rel.Records().At(row, attr))
					}
				}
			}
		}
	}
}

func TestVerifyDetectsBrokenPartitions(t *testing.T) {
	overlapping := &PLI{attr: 0, numRows: 4, clusters: [][]int{{0, 1}, {1, 2}}}
	assert.True(t, errors.IsInvariantError(overlapping.Verify()))

	outOfRange := &PLI{attr: 0, numRows: 2, clusters: [][]int{{0, 5}}}
	assert.True(t, errors.IsInvariantError(outOfRange.Verify()))

	singleton := &PLI{attr: 0, numRows: 2, clusters: [][]int{{0}}}
	assert.True(t, errors.IsInvariantError(singleton.Verify()))

	_, err := FromPLIs([]string{"a"}, []*PLI{overlapping})
	assert.True(t, errors.IsInvariantError(err))
}

func TestFromPLIs(t *testing.T) {
	rel, err := FromPLIs([]string{"a", "b"}, []*PLI{
		NewPLI(0, 3, [][]int{{0, 2}, {1}}),
		NewPLI(1, 3, nil),
	})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 2}}, rel.PLI(0).Clusters())
	assert.Equal(t, ClusterID(0), rel.Records().At(2, 0))
	assert.Equal(t, Unique, rel.Records().At(1, 0))

	_, err = FromPLIs([]string{"a", "b"}, []*PLI{NewPLI(0, 3, nil), NewPLI(1, 4, nil)})
	assert.True(t, errors.IsInvalidInputError(err))
}

func randomColumns(rng *rand.Rand, width, rows, domain int) []Column {
	cols := make([]Column, width)
	for c := range cols {
		cols[c].Name = string(rune('a' + c))
		cols[c].Values = make([]string, rows)
		for r := range cols[c].Values {
			cols[c].Values[r] = string(rune('A' + rng.Intn(domain)))
		}
	}
	return cols
}
