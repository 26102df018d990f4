package ucc

import (
	"go.uber.org/zap"

	"github.com/teranos/depminer/attrset"
	"github.com/teranos/depminer/hy"
	"github.com/teranos/depminer/logger"
)

// Inductor refines the candidate tree with sampled witnesses. A witness W is
// an agree set, so no subset of W can be unique: every stored candidate
// inside W is replaced by its smallest extensions that leave W.
type Inductor struct {
	tree    *Tree
	maxSize int
	logger  *zap.SugaredLogger
}

// NewInductor returns an inductor mutating tree. maxSize > 0 drops candidates
// with more than maxSize attributes.
func NewInductor(tree *Tree, maxSize int, l *zap.SugaredLogger) *Inductor {
	return &Inductor{tree: tree, maxSize: maxSize, logger: logger.OrNop(l)}
}

// Update applies witnesses, deepest level first. Deep witnesses invalidate the
// most candidates at once, which keeps the tree small while the shallower
// ones are applied.
func (in *Inductor) Update(witnesses *hy.WitnessList) {
	before := in.tree.Len()
	for k := witnesses.Depth(); k >= 0; k-- {
		for _, w := range witnesses.Level(k) {
			in.specialize(w)
		}
	}
	in.logger.Debugw("Induced candidates",
		logger.FieldWitnesses, witnesses.Len(),
		logger.FieldCandidates, in.tree.Len(),
		"before", before,
	)
}

func (in *Inductor) specialize(w attrset.Set) {
	invalid := in.tree.GetAndGeneralizations(w)
	if len(invalid) == 0 {
		return
	}
	for _, g := range invalid {
		in.tree.Remove(g)
	}

	n := in.tree.NumAttributes()
	outside := w.Complement(n).Attrs()
	for _, g := range invalid {
		if in.maxSize > 0 && g.Count()+1 > in.maxSize {
			continue
		}
		for _, a := range outside {
			cand := g.With(a)
			if !in.tree.FindOrGeneralization(cand) {
				in.tree.Add(cand)
			}
		}
	}
}
