// Package ucc discovers the minimal unique column combinations of a relation
// with the hybrid sample, induce, validate strategy.
//
//	h, err := ucc.New(rel, ucc.Options{Threads: 4})
//	if err != nil {
//	    return err
//	}
//	uccs, err := h.Discover(ctx)
//
// The result does not depend on Threads.
package ucc

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/depminer/attrset"
	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/hy"
	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/pulse"
	"github.com/teranos/depminer/relation"
)

// Options configures a HyUCC run.
type Options struct {
	// Threads bounds the worker pool of the sampler and the validator.
	Threads int
	// EfficiencyThreshold; zero selects hy.DefaultEfficiencyThreshold.
	EfficiencyThreshold float64
	// MaxSize > 0 limits the reported UCCs to at most MaxSize columns.
	MaxSize  int
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

// HyUCC runs one discovery over a relation. It is single use.
type HyUCC struct {
	rel      *relation.Relation
	opts     Options
	logger   *zap.SugaredLogger
	progress pulse.ProgressEmitter
	stats    Stats
	ran      bool
}

// New validates opts and returns an orchestrator for rel.
func New(rel *relation.Relation, opts Options) (*HyUCC, error) {
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
	if opts.MaxSize < 0 {
		return nil, errors.NewConfigurationError("max size must be >= 0, got %d", opts.MaxSize)
	}
	if opts.EfficiencyThreshold < 0 {
		return nil, errors.NewConfigurationError("efficiency threshold must be >= 0, got %v", opts.EfficiencyThreshold)
	}
	if opts.EfficiencyThreshold == 0 {
		opts.EfficiencyThreshold = hy.DefaultEfficiencyThreshold
	}
	return &HyUCC{
		rel:      rel,
		opts:     opts,
		logger:   logger.OrNop(opts.Logger).With(logger.FieldAlgorithm, "hyucc"),
		progress: pulse.OrNop(opts.Progress),
	}, nil
}

// Stats returns the statistics of the finished run.
func (h *HyUCC) Stats() Stats {
	return h.stats
}

// Discover returns all minimal UCCs in canonical order.
func (h *HyUCC) Discover(ctx context.Context) ([]attrset.Set, error) {
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
	inductor := NewInductor(tree, h.opts.MaxSize, h.logger)
	validator := NewValidator(h.rel, tree, h.opts.Threads, h.opts.EfficiencyThreshold, h.opts.MaxSize, h.logger)

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
		"uccs":        len(result),
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
