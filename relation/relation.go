// Package relation builds the compressed representation of a table that the
// discovery algorithms work on: one position list index (PLI) per column and
// a compressed record per row.
//
// Both structures are built once and are read-only afterwards, so sampler and
// validator workers share them without locking.
package relation

import (
	"github.com/teranos/depminer/errors"
)

// Relation is the compressed relation.
type Relation struct {
	names   []string
	plis    []*PLI
	records *Records
	opts    Options
}

// Build partitions every column and stamps the cluster ids into the
// compressed records. It fails with errors.ErrInvalidInput when there are no
// columns or the columns disagree on their length.
func Build(columns []Column, opts Options) (*Relation, error) {
	if len(columns) == 0 {
		return nil, errors.NewInvalidInputError("relation has no columns")
	}
	numRows := columns[0].Len()
	for i, c := range columns {
		if c.Len() != numRows {
			return nil, errors.NewInvalidInputError("column %d (%q) has %d rows, want %d", i, c.Name, c.Len(), numRows)
		}
		if c.Nulls != nil && len(c.Nulls) != numRows {
			return nil, errors.NewInvalidInputError("column %d (%q) null mask has %d entries, want %d", i, c.Name, len(c.Nulls), numRows)
		}
	}

	rel := &Relation{
		names:   make([]string, len(columns)),
		plis:    make([]*PLI, len(columns)),
		records: newRecords(numRows, len(columns)),
		opts:    opts,
	}
	for attr, c := range columns {
		rel.names[attr] = c.Name
		rel.plis[attr] = buildPLI(attr, c, opts)
	}
	if err := rel.stamp(); err != nil {
		return nil, err
	}
	return rel, nil
}

// FromPLIs assembles a relation from prebuilt partitions.
func FromPLIs(names []string, plis []*PLI) (*Relation, error) {
	if len(plis) == 0 {
		return nil, errors.NewInvalidInputError("relation has no columns")
	}
	if len(names) != len(plis) {
		return nil, errors.NewInvalidInputError("%d column names for %d partitions", len(names), len(plis))
	}
	numRows := plis[0].NumRows()
	for _, p := range plis {
		if p.NumRows() != numRows {
			return nil, errors.NewInvalidInputError("column %d has %d rows, want %d", p.Attr(), p.NumRows(), numRows)
		}
	}
	rel := &Relation{
		names:   append([]string(nil), names...),
		plis:    plis,
		records: newRecords(numRows, len(plis)),
		opts:    DefaultOptions(),
	}
	if err := rel.stamp(); err != nil {
		return nil, err
	}
	return rel, nil
}

func (r *Relation) stamp() error {
	for attr, p := range r.plis {
		if err := p.Verify(); err != nil {
			return err
		}
		for id, cluster := range p.Clusters() {
			for _, row := range cluster {
				r.records.cells[row*r.records.width+attr] = ClusterID(id)
			}
		}
	}
	return nil
}

// NumColumns returns the number of columns.
func (r *Relation) NumColumns() int {
	return len(r.plis)
}

// NumRows returns the number of rows.
func (r *Relation) NumRows() int {
	return r.records.NumRows()
}

// PLI returns the partition of column attr.
func (r *Relation) PLI(attr int) *PLI {
	return r.plis[attr]
}

// PLIs returns all partitions, indexed by column.
func (r *Relation) PLIs() []*PLI {
	return r.plis
}

// Records returns the compressed records.
func (r *Relation) Records() *Records {
	return r.records
}

// ColumnNames returns the column names in column order.
func (r *Relation) ColumnNames() []string {
	return r.names
}

// ColumnName returns the name of column attr.
func (r *Relation) ColumnName(attr int) string {
	return r.names[attr]
}

// Options returns the comparison policy the relation was built with.
func (r *Relation) Options() Options {
	return r.opts
}
