package fd

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/hy"
	"github.com/teranos/depminer/internal/workpool"
	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/relation"
)

// Validator checks the FD tree level by level. All right-hand sides of one
// LHS node are checked in a single pass over the pivot clusters.
type Validator struct {
	rel       *relation.Relation
	tree      *Tree
	threads   int
	threshold float64
	maxLHS    int
	level     int
	logger    *zap.SugaredLogger

	validations int
}

// NewValidator returns a validator starting at level 0, the empty LHS.
func NewValidator(rel *relation.Relation, tree *Tree, threads int, threshold float64, maxLHS int, l *zap.SugaredLogger) *Validator {
	return &Validator{
		rel:       rel,
		tree:      tree,
		threads:   threads,
		threshold: threshold,
		maxLHS:    maxLHS,
		logger:    logger.OrNop(l),
	}
}

// Level returns the level the next call starts with.
func (v *Validator) Level() int {
	return v.level
}

// Validations returns the number of FD checks run so far.
func (v *Validator) Validations() int {
	return v.validations
}

// Validate works through the levels of the tree until it passes the deepest
// stored LHS, then reports done. It returns early with comparison suggestions
// when a level turned out mostly invalid.
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
		results, err := workpool.Map(ctx, v.threads, len(candidates), func(ctx context.Context, i int) (hy.Validations[FD], error) {
			return v.check(candidates[i]), nil
		})
		if err != nil {
			return nil, false, errors.Wrapf(err, "validate level %d", v.level)
		}

		var merged hy.Validations[FD]
		for _, r := range results {
			merged.Merge(r)
		}
		v.validations += merged.Count

		for _, f := range merged.Invalid {
			v.tree.Remove(f.LHS, f.RHS)
		}
		for _, f := range merged.Invalid {
			v.extend(f)
		}

		v.logger.Debugw("Validated level",
			logger.FieldLevel, v.level,
			logger.FieldCandidates, merged.Count,
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

func (v *Validator) extend(f FD) {
	if v.maxLHS > 0 && f.LHS.Count()+1 > v.maxLHS {
		return
	}
	for _, a := range f.LHS.Complement(v.tree.NumAttributes()).Attrs() {
		if a == f.RHS {
			continue
		}
		lhs := f.LHS.With(a)
		if !v.tree.FindOrGeneralization(lhs, f.RHS) {
			v.tree.Add(lhs, f.RHS)
		}
	}
}

// check validates every RHS of c. The first violating row pair of each RHS
// becomes a suggestion.
func (v *Validator) check(c Candidate) hy.Validations[FD] {
	rhs := c.RHS.Attrs()
	out := hy.Validations[FD]{Count: len(rhs)}
	records := v.rel.Records()

	if c.LHS.IsEmpty() {
		for _, r := range rhs {
			if v.rel.PLI(r).IsConstant() {
				continue
			}
			out.Invalid = append(out.Invalid, FD{LHS: c.LHS, RHS: r})
			out.Suggestions = append(out.Suggestions, hy.IDPair{First: 0, Second: firstDisagreement(records, r)})
		}
		return out
	}

	attrs := c.LHS.Attrs()
	pivot := v.rel.PLI(attrs[0])
	rest := attrs[1:]

	valid := make([]bool, len(rhs))
	for i := range valid {
		valid[i] = true
	}
	remaining := len(rhs)
	violation := make([]hy.IDPair, len(rhs))

	var buf []byte
	for _, cluster := range pivot.Clusters() {
		reps := make(map[string]int, len(cluster))
		for _, row := range cluster {
			key, ok := hy.RowKey(buf[:0], records.Row(row), rest)
			buf = key
			if !ok {
				continue
			}
			rep, seen := reps[string(key)]
			if !seen {
				reps[string(key)] = row
				continue
			}
			for i, r := range rhs {
				if valid[i] && !records.Agree(rep, row, r) {
					valid[i] = false
					violation[i] = hy.IDPair{First: rep, Second: row}
					remaining--
				}
			}
			if remaining == 0 {
				break
			}
		}
		if remaining == 0 {
			break
		}
	}

	for i, r := range rhs {
		if !valid[i] {
			out.Invalid = append(out.Invalid, FD{LHS: c.LHS, RHS: r})
			out.Suggestions = append(out.Suggestions, violation[i])
		}
	}
	return out
}

// firstDisagreement returns a row that does not share row 0's class in col.
// The column must not be constant.
func firstDisagreement(records *relation.Records, col int) int {
	first := records.At(0, col)
	if first == relation.Unique {
		return 1
	}
	for row := 1; row < records.NumRows(); row++ {
		if records.At(row, col) != first {
			return row
		}
	}
	return 1
}
