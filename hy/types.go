package hy

import (
	"fmt"

	"github.com/teranos/depminer/relation"
)

// DefaultEfficiencyThreshold is the starting ratio of new witnesses per
// comparison below which the sampler stops widening a column's window. It
// also decides when the validator hands control back to the sampler.
const DefaultEfficiencyThreshold = 0.01

// IDPair is a pair of row indexes. As a comparison suggestion it names two
// rows that disproved a candidate and should be compared by the sampler.
type IDPair struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

func (p IDPair) String() string {
	return fmt.Sprintf("(%d,%d)", p.First, p.Second)
}

// RowKey appends the class ids of row over attrs to buf and returns it. ok is
// false when any of those cells is relation.Unique, in which case the row
// cannot collide with another row on attrs.
func RowKey(buf []byte, row []relation.ClusterID, attrs []int) (key []byte, ok bool) {
	for _, a := range attrs {
		v := row[a]
		if v == relation.Unique {
			return buf, false
		}
		buf = append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return buf, true
}

// ShouldResample reports whether a validation level produced enough invalid
// candidates, relative to the valid ones, that sampling is expected to be
// cheaper than validating the next level.
func ShouldResample(invalid, valid int, threshold float64) bool {
	return invalid > 0 && float64(invalid) > float64(valid)*threshold
}
