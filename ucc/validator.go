package ucc

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/depminer/attrset"
	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/hy"
	"github.com/teranos/depminer/internal/workpool"
	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/relation"
)

// Validator checks the candidates of the tree level by level against the
// relation. It keeps the current level across calls: a level that was fully
// validated never changes again, because every candidate on it is a true UCC
// and no witness can contain it.
type Validator struct {
	rel       *relation.Relation
	tree      *Tree
	threads   int
	threshold float64
	maxSize   int
	level     int
	logger    *zap.SugaredLogger

	validations int
}

// NewValidator returns a validator starting at level 0, the empty set.
func NewValidator(rel *relation.Relation, tree *Tree, threads int, threshold float64, maxSize int, l *zap.SugaredLogger) *Validator {
	return &Validator{
		rel:       rel,
		tree:      tree,
		threads:   threads,
		threshold: threshold,
		maxSize:   maxSize,
		logger:    logger.OrNop(l),
	}
}

// Level returns the level the next call starts with.
func (v *Validator) Level() int {
	return v.level
}

// Validations returns the number of candidate checks run so far.
func (v *Validator) Validations() int {
	return v.validations
}

// Validate works through the levels of the tree until it passes the deepest
// stored candidate, then reports done. It returns early with comparison
// suggestions when a level turned out mostly invalid.
func (v *Validator) Validate(ctx context.Context) (suggestions []hy.IDPair, done bool, err error) {
	for {
		if v.level > v.tree.Depth() {
			return nil, true, nil
		}
		candidates := v.tree.Level(v.level)
		if len(candidates) == 0 {
			v.level++
			continue
		}

		start := time.Now()
		results, err := workpool.Map(ctx, v.threads, len(candidates), func(ctx context.Context, i int) (hy.Validations[attrset.Set], error) {
			return v.check(candidates[i]), nil
		})
		if err != nil {
			return nil, false, errors.Wrapf(err, "validate level %d", v.level)
		}

		var merged hy.Validations[attrset.Set]
		for _, r := range results {
			merged.Merge(r)
		}
		v.validations += merged.Count

		for _, c := range merged.Invalid {
			v.tree.Remove(c)
		}
		for _, c := range merged.Invalid {
			v.extend(c)
		}

		v.logger.Debugw("Validated level",
			logger.FieldLevel, v.level,
			logger.FieldCandidates, len(candidates),
			logger.FieldInvalid, len(merged.Invalid),
			logger.FieldSuggestions, len(merged.Suggestions),
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
		)

		v.level++
		if len(merged.Suggestions) > 0 && hy.ShouldResample(len(merged.Invalid), merged.Valid(), v.threshold) {
			return merged.Suggestions, false, nil
		}
	}
}

// extend inserts the one-attribute extensions of a disproved candidate that
// are not already covered by a stored generalization.
func (v *Validator) extend(c attrset.Set) {
	if v.maxSize > 0 && c.Count()+1 > v.maxSize {
		return
	}
	for _, a := range c.Complement(v.tree.NumAttributes()).Attrs() {
		ext := c.With(a)
		if !v.tree.FindOrGeneralization(ext) {
			v.tree.Add(ext)
		}
	}
}

// check tests whether c is unique. Rows of each cluster of the pivot column
// are hashed by their classes over the remaining attributes; two rows with
// the same key agree on all of c.
func (v *Validator) check(c attrset.Set) hy.Validations[attrset.Set] {
	out := hy.Validations[attrset.Set]{Count: 1}
	if c.IsEmpty() {
		if v.rel.NumRows() > 1 {
			out.Invalid = []attrset.Set{c}
			out.Suggestions = []hy.IDPair{{First: 0, Second: 1}}
		}
		return out
	}

	attrs := c.Attrs()
	pivot := v.rel.PLI(attrs[0])
	rest := attrs[1:]
	records := v.rel.Records()

	var buf []byte
	for _, cluster := range pivot.Clusters() {
		if len(rest) == 0 {
			out.Invalid = []attrset.Set{c}
			out.Suggestions = []hy.IDPair{{First: cluster[0], Second: cluster[1]}}
			return out
		}
		seen := make(map[string]int, len(cluster))
		for _, row := range cluster {
			key, ok := hy.RowKey(buf[:0], records.Row(row), rest)
			buf = key
			if !ok {
				continue
			}
			if other, dup := seen[string(key)]; dup {
				out.Invalid = []attrset.Set{c}
				out.Suggestions = []hy.IDPair{{First: other, Second: row}}
				return out
			}
			seen[string(key)] = row
		}
	}
	return out
}
