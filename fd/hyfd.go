// Package fd discovers the minimal, non-trivial functional dependencies of a
// relation with a single attribute on the right-hand side.
//
// HyFD alternates between sampling row pairs, inducing candidate FDs from the
// agree sets found, and validating the candidates level by level. Validation
// failures feed the row pairs that disproved a candidate back to the sampler.
package fd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/hy"
	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/pulse"
	"github.com/teranos/depminer/relation"
)

// Options configures a HyFD run.
type Options struct {
	Threads             int
	EfficiencyThreshold float64
	// MaxLHS > 0 limits the left-hand side to at most MaxLHS attributes.
	MaxLHS   int
	Logger   *zap.SugaredLogger
	Progress pulse.ProgressEmitter
}

// Stats summarizes a finished run.
type Stats struct {
	Rounds      int           `json:"rounds" yaml:"rounds"`
	Witnesses   int           `json:"witnesses" yaml:"witnesses"`
	Validations int           `json:"validations" yaml:"validations"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// HyFD runs one discovery over a relation. It is single use.
type HyFD struct {
	rel      *relation.Relation
	opts     Options
	logger   *zap.SugaredLogger
	progress pulse.ProgressEmitter
	stats    Stats
	ran      bool
}

// New validates opts and returns an orchestrator for rel.
func New(rel *relation.Relation, opts Options) (*HyFD, error) {
	if rel == nil {
		return nil, errors.NewInvalidInputError("relation is nil")
	}
	if rel.NumColumns() == 0 {
		return nil, errors.NewInvalidInputError("relation has no columns")
	}
	if opts.Threads < 1 {
		return nil, errors.WithHint(
			errors.NewConfigurationError("threads must be >= 1, got %d", opts.Threads),
			"use at least one worker thread")
	}
	if opts.MaxLHS < 0 {
		return nil, errors.NewConfigurationError("max lhs must be >= 0, got %d", opts.MaxLHS)
	}
	if opts.EfficiencyThreshold < 0 {
		return nil, errors.NewConfigurationError("efficiency threshold must be >= 0, got %v", opts.EfficiencyThreshold)
	}
	if opts.EfficiencyThreshold == 0 {
		opts.EfficiencyThreshold = hy.DefaultEfficiencyThreshold
	}
	return &HyFD{
		rel:      rel,
		opts:     opts,
		logger:   logger.OrNop(opts.Logger).With(logger.FieldAlgorithm, "hyfd"),
		progress: pulse.OrNop(opts.Progress),
	}, nil
}

// Stats returns the statistics of the finished run.
func (h *HyFD) Stats() Stats {
	return h.stats
}

// Discover returns all minimal FDs ordered by LHS, then RHS.
func (h *HyFD) Discover(ctx context.Context) ([]FD, error) {
	if h.ran {
		return nil, errors.New("discovery already ran")
	}
	h.ran = true
	start := time.Now()

	n := h.rel.NumColumns()
	tree := NewTree(n)
	sampler, err := hy.NewSampler(h.rel, hy.SamplerOptions{
		Threads:             h.opts.Threads,
		EfficiencyThreshold: h.opts.EfficiencyThreshold,
		Logger:              h.logger,
	})
	if err != nil {
		return nil, err
	}
	inductor := NewInductor(tree, h.opts.MaxLHS, h.logger)
	validator := NewValidator(h.rel, tree, h.opts.Threads, h.opts.EfficiencyThreshold, h.opts.MaxLHS, h.logger)

	h.logger.Infow("Starting discovery",
		logger.FieldColumns, n,
		logger.FieldRows, h.rel.NumRows(),
		logger.FieldThreads, h.opts.Threads,
	)

	var suggestions []hy.IDPair
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h.stats.Rounds++
		round := h.stats.Rounds

		h.progress.EmitStage(pulse.StageSample, fmt.Sprintf("round %d: %d suggestions", round, len(suggestions)))
		witnesses, err := sampler.Sample(ctx, suggestions)
		if err != nil {
			h.progress.EmitError(pulse.StageSample, err)
			return nil, errors.Wrapf(err, "sample round %d", round)
		}
		h.stats.Witnesses += witnesses.Len()

		h.progress.EmitStage(pulse.StageInduce, fmt.Sprintf("round %d: %d witnesses", round, witnesses.Len()))
		inductor.Update(witnesses)

		h.progress.EmitStage(pulse.StageValidate, fmt.Sprintf("round %d: level %d, %d candidates", round, validator.Level(), tree.Len()))
		var done bool
		suggestions, done, err = validator.Validate(ctx)
		if err != nil {
			h.progress.EmitError(pulse.StageValidate, err)
			return nil, errors.Wrapf(err, "validate round %d", round)
		}
		if done {
			break
		}
	}

	h.stats.Validations = validator.Validations()
	h.stats.Duration = time.Since(start)
	result := tree.All()

	h.progress.EmitComplete(map[string]interface{}{
		"fds":         len(result),
		"rounds":      h.stats.Rounds,
		"witnesses":   h.stats.Witnesses,
		"validations": h.stats.Validations,
	})
	h.logger.Infow("Discovery complete",
		logger.FieldCount, len(result),
		logger.FieldRound, h.stats.Rounds,
		logger.FieldDurationMS, h.stats.Duration.Milliseconds(),
	)
	return result, nil
}
