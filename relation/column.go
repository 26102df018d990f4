package relation

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Column is one input column: a name, a value per row and a null mask.
// Typing happens upstream; the relation only needs value equality.
type Column struct {
	Name   string
	Values []string
	// Nulls marks null cells. A nil mask means the column has no nulls.
	Nulls []bool
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	return len(c.Values)
}

// IsNull reports whether row i holds a null.
func (c Column) IsNull(i int) bool {
	return c.Nulls != nil && c.Nulls[i]
}

// Options control how cells are compared while partitioning.
type Options struct {
	// NullEqualNull puts all nulls of a column in one class. When false every
	// null is a class of its own.
	NullEqualNull bool `json:"null_equal_null" yaml:"null_equal_null"`

	// TrimSpace ignores leading and trailing white space.
	TrimSpace bool `json:"trim_space" yaml:"trim_space"`

	// NormalizeUnicode compares values in Unicode NFC form, so composed and
	// decomposed spellings of the same text fall into one class.
	NormalizeUnicode bool `json:"normalize_unicode" yaml:"normalize_unicode"`
}

// DefaultOptions returns the policy used when nothing is configured.
func DefaultOptions() Options {
	return Options{NullEqualNull: true}
}

func (o Options) canonical(v string) string {
	if o.TrimSpace {
		v = strings.TrimSpace(v)
	}
	if o.NormalizeUnicode && !norm.NFC.IsNormalString(v) {
		v = norm.NFC.String(v)
	}
	return v
}
