package hy

// Validations collects the outcome of validating one batch of candidates:
// how many checks ran, which candidates failed and the row pairs that
// disproved them. T is the candidate type of the algorithm.
type Validations[T any] struct {
	Count       int
	Invalid     []T
	Suggestions []IDPair
}

// Merge appends o to v. Merging per-candidate results in candidate order keeps
// the outcome independent of how the candidates were scheduled.
func (v *Validations[T]) Merge(o Validations[T]) {
	v.Count += o.Count
	v.Invalid = append(v.Invalid, o.Invalid...)
	v.Suggestions = append(v.Suggestions, o.Suggestions...)
}

// Valid returns the number of checks that passed.
func (v *Validations[T]) Valid() int {
	return v.Count - len(v.Invalid)
}
