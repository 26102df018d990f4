package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/profile"
	"github.com/teranos/depminer/version"
)

const writerVersionKey = "writer_version"

// Store reads and writes discovery runs.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID           string        `json:"id" yaml:"id"`
	Kind         profile.Kind  `json:"kind" yaml:"kind"`
	Dataset      string        `json:"dataset" yaml:"dataset"`
	Columns      int           `json:"columns" yaml:"columns"`
	Rows         int           `json:"rows" yaml:"rows"`
	Dependencies int           `json:"dependencies" yaml:"dependencies"`
	Version      string        `json:"version" yaml:"version"`
	StartedAt    time.Time     `json:"started_at" yaml:"started_at"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Open opens the database at path, applies pending migrations and records the
// running version. A database last written by a newer major version is
// opened with a warning.
func Open(ctx context.Context, path string, log *zap.SugaredLogger) (*Store, error) {
	db, err := OpenDB(path, log)
	if err != nil {
		return nil, err
	}
	s := New(db, log)
	if err := Migrate(ctx, db, s.logger); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "migrate %s", path)
	}
	if err := s.checkVersion(ctx, version.Semver()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already migrated database.
func New(db *sql.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, logger: logger.OrNop(log).With(logger.FieldComponent, "store")}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// checkVersion compares the recorded writer version with running and records
// running unless the database belongs to a newer major version.
func (s *Store) checkVersion(ctx context.Context, running *semver.Version) error {
	var recorded string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", writerVersionKey).Scan(&recorded)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(err, "read writer version")
	}

	if recorded != "" && version.Check(recorded, running) == version.Newer {
		s.logger.Warnw("Database was written by a newer depminer",
			"recorded_version", recorded,
			"running_version", running.String(),
		)
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		writerVersionKey, running.String())
	return errors.Wrap(err, "record writer version")
}

// WriterVersion returns the version recorded by the last writer.
func (s *Store) WriterVersion(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", writerVersionKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, errors.Wrap(err, "read writer version")
}

// SaveRun stores r. Saving the same run id twice fails.
func (s *Store) SaveRun(ctx context.Context, r *profile.Result) error {
	body, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "encode run")
	}
	duration := r.Stats.LoadDuration + r.Stats.DiscoverDuration
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, dataset, num_columns, num_rows, num_dependencies, version, started_at, duration_ms, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, string(r.Kind), r.Dataset, len(r.Columns), r.Rows, r.Count(),
		r.Version, r.StartedAt.UTC(), duration.Milliseconds(), string(body))
	if err != nil {
		if IsDatabaseClosed(err) {
			return errors.Wrap(ErrDatabaseClosed, "save run")
		}
		return errors.Wrapf(err, "save run %s", r.RunID)
	}
	s.logger.Infow("Run saved",
		logger.FieldRunID, r.RunID,
		logger.FieldAlgorithm, string(r.Kind),
		logger.FieldCount, r.Count(),
	)
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 lists all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, dataset, num_columns, num_rows, num_dependencies, version, started_at, duration_ms
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs   RunSummary
			kind string
			ms   int64
		)
		if err := rows.Scan(&rs.ID, &kind, &rs.Dataset, &rs.Columns, &rs.Rows,
			&rs.Dependencies, &rs.Version, &rs.StartedAt, &ms); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		rs.Kind = profile.Kind(kind)
		rs.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, rs)
	}
	return out, errors.Wrap(rows.Err(), "list runs")
}

// LoadRun returns the run whose id is or starts with id.
func (s *Store) LoadRun(ctx context.Context, id string) (*profile.Result, error) {
	if id == "" {
		return nil, errors.Wrap(ErrRunNotFound, "empty run id")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, result FROM runs WHERE substr(id, 1, length(?)) = ? LIMIT 2`, id, id)
	if err != nil {
		return nil, errors.Wrapf(err, "load run %s", id)
	}
	defer rows.Close()

	var ids, bodies []string
	for rows.Next() {
		var rid, body string
		if err := rows.Scan(&rid, &body); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		ids = append(ids, rid)
		bodies = append(bodies, body)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "load run %s", id)
	}

	switch len(ids) {
	case 0:
		return nil, errors.Wrapf(ErrRunNotFound, "run %s", id)
	case 1:
	default:
		return nil, errors.WithHint(errors.Wrapf(ErrAmbiguousRunID, "run %s", id),
			"use a longer prefix of the run id")
	}

	var r profile.Result
	if err := json.Unmarshal([]byte(bodies[0]), &r); err != nil {
		return nil, errors.Wrapf(err, "decode run %s", ids[0])
	}
	return &r, nil
}

// DeleteRun removes the run with exactly id.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "delete run %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "delete run %s", id)
	}
	if n == 0 {
		return errors.Wrapf(ErrRunNotFound, "run %s", id)
	}
	return nil
}
