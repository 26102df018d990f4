package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/fd"
	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/pulse"
	"github.com/teranos/depminer/relation"
	"github.com/teranos/depminer/source"
	"github.com/teranos/depminer/ucc"
	"github.com/teranos/depminer/version"
)

type runConfig struct {
	logger   *zap.SugaredLogger
	progress pulse.ProgressEmitter
}

// RunOption customizes logging and progress reporting of a run.
type RunOption func(*runConfig)

// WithLogger sets the logger of the run and its algorithms.
func WithLogger(l *zap.SugaredLogger) RunOption {
	return func(c *runConfig) { c.logger = l }
}

// WithProgress sets the progress emitter.
func WithProgress(p pulse.ProgressEmitter) RunOption {
	return func(c *runConfig) { c.progress = p }
}

// DiscoverUCCs finds the minimal unique column combinations of t.
func DiscoverUCCs(ctx context.Context, t *source.Table, opts Options, ro ...RunOption) (*Result, error) {
	r, rel, rc, err := prepare(ctx, KindUCC, t, opts, ro)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	h, err := ucc.New(rel, ucc.Options{
		Threads:             opts.Threads,
		EfficiencyThreshold: opts.EfficiencyThreshold,
		MaxSize:             opts.MaxLHS,
		Logger:              rc.logger,
		Progress:            rc.progress,
	})
	if err != nil {
		return nil, err
	}
	uccs, err := h.Discover(ctx)
	if err != nil {
		return nil, err
	}

	names := rel.ColumnNames()
	r.UCCs = make([][]string, len(uccs))
	for i, u := range uccs {
		r.UCCs[i] = columnNames(names, u.Attrs())
	}
	s := h.Stats()
	r.Stats.Rounds, r.Stats.Witnesses, r.Stats.Validations = s.Rounds, s.Witnesses, s.Validations
	r.Stats.DiscoverDuration = time.Since(start)

	finish(r, rc)
	return r, nil
}

// DiscoverFDs finds the minimal non-trivial functional dependencies of t.
func DiscoverFDs(ctx context.Context, t *source.Table, opts Options, ro ...RunOption) (*Result, error) {
	r, rel, rc, err := prepare(ctx, KindFD, t, opts, ro)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	h, err := fd.New(rel, fd.Options{
		Threads:             opts.Threads,
		EfficiencyThreshold: opts.EfficiencyThreshold,
		MaxLHS:              opts.MaxLHS,
		Logger:              rc.logger,
		Progress:            rc.progress,
	})
	if err != nil {
		return nil, err
	}
	fds, err := h.Discover(ctx)
	if err != nil {
		return nil, err
	}

	names := rel.ColumnNames()
	r.FDs = make([]FD, len(fds))
	for i, f := range fds {
		r.FDs[i] = FD{LHS: columnNames(names, f.LHS.Attrs()), RHS: names[f.RHS]}
	}
	s := h.Stats()
	r.Stats.Rounds, r.Stats.Witnesses, r.Stats.Validations = s.Rounds, s.Witnesses, s.Validations
	r.Stats.DiscoverDuration = time.Since(start)

	finish(r, rc)
	return r, nil
}

func prepare(ctx context.Context, kind Kind, t *source.Table, opts Options, ro []RunOption) (*Result, *relation.Relation, *runConfig, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if t == nil {
		return nil, nil, nil, errors.NewInvalidInputError("table is nil")
	}

	rc := &runConfig{}
	for _, o := range ro {
		o(rc)
	}
	runID := uuid.New().String()
	rc.logger = logger.OrNop(rc.logger).With(
		logger.FieldRunID, runID,
		logger.FieldDataset, t.Name,
	)
	rc.progress = pulse.OrNop(rc.progress)

	r := &Result{
		RunID:     runID,
		Kind:      kind,
		Dataset:   t.Name,
		Columns:   t.ColumnNames(),
		Rows:      t.NumRows(),
		Options:   opts,
		StartedAt: time.Now().UTC(),
		Version:   version.Get().Version,
	}

	rc.progress.EmitStage(pulse.StageLoad, fmt.Sprintf("%s: %d rows, %d columns", t.Name, r.Rows, len(r.Columns)))
	checkHeadroom(r.Rows, len(r.Columns), rc.logger)

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}
	start := time.Now()
	rel, err := relation.Build(t.Columns, opts.relationOptions())
	if err != nil {
		rc.progress.EmitError(pulse.StageLoad, err)
		return nil, nil, nil, errors.Wrapf(err, "partition %s", t.Name)
	}
	r.Stats.LoadDuration = time.Since(start)
	rc.logger.Debugw("Relation partitioned",
		logger.FieldRows, rel.NumRows(),
		logger.FieldColumns, rel.NumColumns(),
		logger.FieldDurationMS, r.Stats.LoadDuration.Milliseconds(),
	)
	return r, rel, rc, nil
}

func finish(r *Result, rc *runConfig) {
	rc.progress.EmitStage(pulse.StageDone, fmt.Sprintf("%d %s found", r.Count(), r.Kind))
	rc.logger.Infow("Run complete",
		logger.FieldAlgorithm, string(r.Kind),
		logger.FieldCount, r.Count(),
		logger.FieldDurationMS, (r.Stats.LoadDuration + r.Stats.DiscoverDuration).Milliseconds(),
	)
}

func columnNames(names []string, attrs []int) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = names[a]
	}
	return out
}
