// Package store persists discovery runs in SQLite.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/sym"
)

// SQLiteBusyTimeoutMS is how long a writer waits for a lock before failing.
const SQLiteBusyTimeoutMS = 5000

// OpenDB opens a SQLite database at path with WAL journaling, foreign keys and
// a busy timeout. The pragmas go through the DSN so every pooled connection
// gets them.
func OpenDB(path string, log *zap.SugaredLogger) (*sql.DB, error) {
	log = logger.OrNop(log)
	log.Debugw("Opening database", logger.FieldPath, path, "symbol", sym.Runs)

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d", path, SQLiteBusyTimeoutMS)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "connect %s", path)
	}

	log.Infow("Database opened",
		logger.FieldPath, path,
		"symbol", sym.Runs,
		"wal_mode", true,
		"foreign_keys", true,
	)
	return db, nil
}
