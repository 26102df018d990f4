// Package source reads tables into the column form the discovery algorithms
// consume: CSV files, SQLite or any database/sql driver, and PostgreSQL.
//
// Every value is kept as its textual representation; discovery only needs
// equality. Missing values become null cells.
package source

import (
	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/relation"
)

// Table is a named set of equally long columns.
type Table struct {
	Name    string
	Columns []relation.Column
}

// NumRows returns the number of rows, 0 for a table without columns.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Select returns a table holding only the named columns, in the given order.
// An empty selection returns t unchanged.
func (t *Table) Select(names []string) (*Table, error) {
	if len(names) == 0 {
		return t, nil
	}
	index := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		index[c.Name] = i
	}
	out := &Table{Name: t.Name, Columns: make([]relation.Column, 0, len(names))}
	for _, n := range names {
		i, ok := index[n]
		if !ok {
			return nil, errors.WithHintf(
				errors.NewInvalidInputError("table %q has no column %q", t.Name, n),
				"available columns: %v", t.ColumnNames())
		}
		out.Columns = append(out.Columns, t.Columns[i])
	}
	return out, nil
}

// builder accumulates rows column by column.
type builder struct {
	cols []relation.Column
}

func newBuilder(names []string) *builder {
	cols := make([]relation.Column, len(names))
	for i, n := range names {
		cols[i] = relation.Column{Name: n, Nulls: []bool{}}
	}
	return &builder{cols: cols}
}

func (b *builder) add(col int, value string, null bool) {
	c := &b.cols[col]
	c.Values = append(c.Values, value)
	c.Nulls = append(c.Nulls, null)
}

func (b *builder) table(name string) *Table {
	for i := range b.cols {
		if b.cols[i].Values == nil {
			b.cols[i].Values = []string{}
		}
	}
	return &Table{Name: name, Columns: b.cols}
}
