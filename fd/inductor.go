package fd

import (
	"go.uber.org/zap"

	"github.com/teranos/depminer/attrset"
	"github.com/teranos/depminer/hy"
	"github.com/teranos/depminer/logger"
)

// Inductor refines the FD tree with sampled agree sets. Two rows agreeing on
// W but not on r prove that no g ⊆ W determines r.
type Inductor struct {
	tree   *Tree
	maxLHS int
	logger *zap.SugaredLogger
}

// NewInductor returns an inductor mutating tree. maxLHS > 0 drops candidates
// whose LHS would exceed maxLHS attributes.
func NewInductor(tree *Tree, maxLHS int, l *zap.SugaredLogger) *Inductor {
	return &Inductor{tree: tree, maxLHS: maxLHS, logger: logger.OrNop(l)}
}

// Update applies witnesses, deepest level first.
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
	outside := w.Complement(in.tree.NumAttributes()).Attrs()
	for _, r := range outside {
		invalid := in.tree.GetAndGeneralizations(w, r)
		if len(invalid) == 0 {
			continue
		}
		for _, g := range invalid {
			in.tree.Remove(g, r)
		}
		for _, g := range invalid {
			if in.maxLHS > 0 && g.Count()+1 > in.maxLHS {
				continue
			}
			for _, a := range outside {
				if a == r {
					continue
				}
				lhs := g.With(a)
				if !in.tree.FindOrGeneralization(lhs, r) {
					in.tree.Add(lhs, r)
				}
			}
		}
	}
}
