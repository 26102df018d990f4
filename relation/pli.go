package relation

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/teranos/depminer/errors"
)

// PLI is the position list index of one column: its equivalence classes of
// row indexes. Only classes with at least two rows are stored; a row missing
// from every cluster is implicitly a singleton.
//
// Clusters are ordered by the first row they contain and rows inside a cluster
// are ascending. A PLI is read-only once built.
type PLI struct {
	attr     int
	numRows  int
	clusters [][]int
}

// NewPLI builds a PLI from explicit clusters. Singleton clusters are dropped.
func NewPLI(attr, numRows int, clusters [][]int) *PLI {
	kept := make([][]int, 0, len(clusters))
	for _, c := range clusters {
		if len(c) > 1 {
			kept = append(kept, c)
		}
	}
	return &PLI{attr: attr, numRows: numRows, clusters: kept}
}

// buildPLI partitions column values. Cluster order is first-occurrence order,
// which makes the output deterministic for identical input.
func buildPLI(attr int, col Column, opts Options) *PLI {
	n := col.Len()
	index := make(map[string]int, n)
	var groups [][]int
	nullGroup := -1

	for row := 0; row < n; row++ {
		if col.IsNull(row) {
			if !opts.NullEqualNull {
				continue
			}
			if nullGroup < 0 {
				nullGroup = len(groups)
				groups = append(groups, nil)
			}
			groups[nullGroup] = append(groups[nullGroup], row)
			continue
		}

		v := opts.canonical(col.Values[row])
		g, ok := index[v]
		if !ok {
			g = len(groups)
			index[v] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], row)
	}

	return NewPLI(attr, n, groups)
}

// Attr returns the column index the PLI was built on.
func (p *PLI) Attr() int {
	return p.attr
}

// NumRows returns the number of rows of the relation.
func (p *PLI) NumRows() int {
	return p.numRows
}

// Clusters returns the stored (non-singleton) clusters. Callers must not
// modify them.
func (p *PLI) Clusters() [][]int {
	return p.clusters
}

// NumClusters returns the number of stored clusters.
func (p *PLI) NumClusters() int {
	return len(p.clusters)
}

// Size returns the number of rows that sit in stored clusters.
func (p *PLI) Size() int {
	size := 0
	for _, c := range p.clusters {
		size += len(c)
	}
	return size
}

// MaxClusterSize returns the size of the largest cluster, 0 if there is none.
func (p *PLI) MaxClusterSize() int {
	max := 0
	for _, c := range p.clusters {
		if len(c) > max {
			max = len(c)
		}
	}
	return max
}

// IsUnique reports whether every value of the column is distinct.
func (p *PLI) IsUnique() bool {
	return len(p.clusters) == 0
}

// IsConstant reports whether all rows hold the same value.
func (p *PLI) IsConstant() bool {
	if p.numRows <= 1 {
		return true
	}
	return len(p.clusters) == 1 && len(p.clusters[0]) == p.numRows
}

// Verify checks the partition invariant: every stored cluster has at least two
// rows, all rows are in range and no row appears in two clusters.
func (p *PLI) Verify() error {
	seen := roaring.New()
	for i, c := range p.clusters {
		if len(c) < 2 {
			return errors.NewInvariantError("column %d: cluster %d has %d rows", p.attr, i, len(c))
		}
		for _, row := range c {
			if row < 0 || row >= p.numRows {
				return errors.NewInvariantError("column %d: row %d out of range [0, %d)", p.attr, row, p.numRows)
			}
			if !seen.CheckedAdd(uint32(row)) {
				return errors.NewInvariantError("column %d: row %d appears in more than one cluster", p.attr, row)
			}
		}
	}
	return nil
}
