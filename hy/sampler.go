package hy

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/depminer/attrset"
	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/internal/workpool"
	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/relation"
)

// SamplerOptions configures a Sampler.
type SamplerOptions struct {
	// Threads bounds the number of concurrent window runs. Must be >= 1.
	Threads int
	// EfficiencyThreshold is the initial score a column needs to keep being
	// sampled. Zero selects DefaultEfficiencyThreshold.
	EfficiencyThreshold float64
	Logger              *zap.SugaredLogger
}

// Sampler mines witnesses by comparing rows that are neighbours inside the
// clusters of each column. It keeps state across rounds: the window reached
// per column, the efficiency queue and every witness emitted so far.
//
// A Sampler is not safe for concurrent use; it parallelizes internally.
type Sampler struct {
	rel      *relation.Relation
	records  *relation.Records
	numAttrs int
	threads  int

	// clusters[attr] is a private copy of the PLI clusters of attr, sorted so
	// rows that are similar in the neighbouring columns sit close together.
	clusters [][][]int

	reps      []Efficiency
	queue     efficiencyQueue
	initial   float64
	threshold float64
	started   bool

	seen  *WitnessList
	round int

	logger   *zap.SugaredLogger
	progress rate.Sometimes
}

// NewSampler returns a sampler over rel.
func NewSampler(rel *relation.Relation, opts SamplerOptions) (*Sampler, error) {
	if opts.Threads < 1 {
		return nil, errors.NewConfigurationError("sampler threads must be >= 1, got %d", opts.Threads)
	}
	threshold := opts.EfficiencyThreshold
	if threshold == 0 {
		threshold = DefaultEfficiencyThreshold
	}
	if threshold < 0 || math.IsNaN(threshold) {
		return nil, errors.NewConfigurationError("efficiency threshold must be positive, got %v", threshold)
	}

	return &Sampler{
		rel:       rel,
		records:   rel.Records(),
		numAttrs:  rel.NumColumns(),
		threads:   opts.Threads,
		initial:   threshold,
		threshold: threshold,
		seen:      NewWitnessList(rel.NumColumns()),
		logger:    logger.OrNop(opts.Logger).With(logger.FieldComponent, "sampler"),
		progress:  rate.Sometimes{Interval: time.Second},
	}, nil
}

// Threshold returns the efficiency threshold of the current round.
func (s *Sampler) Threshold() float64 {
	return s.threshold
}

// Seen returns every witness emitted so far.
func (s *Sampler) Seen() *WitnessList {
	return s.seen
}

// Sample runs one sampling round and returns the witnesses not emitted by any
// earlier round. Suggested pairs are compared first; a pair naming a row
// outside the relation is an invariant violation.
func (s *Sampler) Sample(ctx context.Context, suggestions []IDPair) (*WitnessList, error) {
	s.round++
	start := time.Now()
	out := NewWitnessList(s.numAttrs)
	numRows := s.records.NumRows()

	b := attrset.NewBuilder(s.numAttrs)
	for _, p := range suggestions {
		if p.First < 0 || p.First >= numRows || p.Second < 0 || p.Second >= numRows {
			return nil, errors.NewInvariantError("comparison suggestion %s outside [0, %d)", p, numRows)
		}
		s.emit(out, s.match(b, p.First, p.Second))
	}

	if !s.started {
		if err := s.start(ctx, out); err != nil {
			return nil, err
		}
		s.started = true
	} else {
		s.threshold = math.Min(s.initial, s.threshold/2)
		for _, e := range s.reps {
			if !e.Exhausted() {
				s.queue.push(e)
			}
		}
	}

	if err := s.drain(ctx, out); err != nil {
		return nil, err
	}

	s.logger.Debugw("Sampling round complete",
		logger.FieldRound, s.round,
		logger.FieldSuggestions, len(suggestions),
		logger.FieldWitnesses, out.Len(),
		logger.FieldThreshold, s.threshold,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// start sorts the clusters and runs window 1 on every column.
func (s *Sampler) start(ctx context.Context, out *WitnessList) error {
	sorted, err := workpool.Map(ctx, s.threads, s.numAttrs, func(ctx context.Context, attr int) ([][]int, error) {
		return s.sortClusters(attr), nil
	})
	if err != nil {
		return errors.Wrap(err, "sort clusters")
	}
	s.clusters = sorted

	s.reps = make([]Efficiency, s.numAttrs)
	for attr := range s.reps {
		s.reps[attr] = Efficiency{Attr: attr, MaxCluster: s.rel.PLI(attr).MaxClusterSize()}
	}

	all := make([]int, s.numAttrs)
	for i := range all {
		all[i] = i
	}
	if err := s.runBatch(ctx, all, out); err != nil {
		return err
	}
	for _, e := range s.reps {
		if e.Score() > 0 && !e.Exhausted() {
			s.queue.push(e)
		}
	}
	return nil
}

// drain widens the windows of the queued columns until no column reaches the
// threshold. Each pass takes the whole queue in priority order, so the
// schedule and therefore the witnesses do not depend on the thread count.
func (s *Sampler) drain(ctx context.Context, out *WitnessList) error {
	for s.queue.Len() > 0 {
		batch := make([]int, 0, s.queue.Len())
		for s.queue.Len() > 0 {
			batch = append(batch, s.queue.pop().Attr)
		}
		if err := s.runBatch(ctx, batch, out); err != nil {
			return err
		}
		for _, attr := range batch {
			e := s.reps[attr]
			if !e.Exhausted() && e.Score() >= s.threshold {
				s.queue.push(e)
			}
		}

		s.progress.Do(func() {
			s.logger.Debugw("Sampling",
				logger.FieldRound, s.round,
				logger.FieldWitnesses, s.seen.Len(),
				logger.FieldCandidates, s.queue.Len(),
			)
		})
	}
	return nil
}

type windowRun struct {
	comparisons int
	agreeSets   []attrset.Set
}

// runBatch widens the window of every attr in attrs by one. The runs are
// independent; their agree sets are merged in batch order and new witnesses
// are counted at merge time.
func (s *Sampler) runBatch(ctx context.Context, attrs []int, out *WitnessList) error {
	runs, err := workpool.Map(ctx, s.threads, len(attrs), func(ctx context.Context, i int) (windowRun, error) {
		return s.runWindow(attrs[i], s.reps[attrs[i]].Window+1), nil
	})
	if err != nil {
		return errors.Wrap(err, "sample window")
	}
	for i, attr := range attrs {
		results := 0
		for _, w := range runs[i].agreeSets {
			if s.emit(out, w) {
				results++
			}
		}
		s.reps[attr] = s.reps[attr].Next(runs[i].comparisons, results)
	}
	return nil
}

// runWindow compares every pair of rows window positions apart inside each
// sorted cluster of attr. Agree sets are deduplicated locally.
func (s *Sampler) runWindow(attr, window int) windowRun {
	var run windowRun
	local := make(map[string]struct{})
	b := attrset.NewBuilder(s.numAttrs)
	for _, c := range s.clusters[attr] {
		for i := 0; i+window < len(c); i++ {
			run.comparisons++
			w := s.match(b, c[i], c[i+window])
			key := w.Key()
			if _, ok := local[key]; ok {
				continue
			}
			local[key] = struct{}{}
			run.agreeSets = append(run.agreeSets, w)
		}
	}
	return run
}

// match returns the agree set of rows a and b.
func (s *Sampler) match(b *attrset.Builder, a, c int) attrset.Set {
	ra, rc := s.records.Row(a), s.records.Row(c)
	for col, v := range ra {
		if v != relation.Unique && v == rc[col] {
			b.Add(col)
		}
	}
	return b.Build()
}

// emit records w and reports whether no earlier round or comparison produced
// it.
func (s *Sampler) emit(out *WitnessList, w attrset.Set) bool {
	if !s.seen.Add(w) {
		return false
	}
	out.Add(w)
	return true
}

// sortClusters copies the clusters of attr and orders the rows of each by
// their class in the previous column, then the next column, then row index.
// Singleton cells sort last.
func (s *Sampler) sortClusters(attr int) [][]int {
	src := s.rel.PLI(attr).Clusters()
	out := make([][]int, len(src))
	if s.numAttrs < 2 {
		for i, c := range src {
			out[i] = append([]int(nil), c...)
		}
		return out
	}

	key1 := (attr + s.numAttrs - 1) % s.numAttrs
	key2 := (attr + 1) % s.numAttrs
	rank := func(row, col int) int64 {
		v := s.records.At(row, col)
		if v == relation.Unique {
			return math.MaxInt64
		}
		return int64(v)
	}

	for i, c := range src {
		rows := append([]int(nil), c...)
		sort.Slice(rows, func(x, y int) bool {
			a, b := rows[x], rows[y]
			if ra, rb := rank(a, key1), rank(b, key1); ra != rb {
				return ra < rb
			}
			if ra, rb := rank(a, key2), rank(b, key2); ra != rb {
				return ra < rb
			}
			return a < b
		})
		out[i] = rows
	}
	return out
}
