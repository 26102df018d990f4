package source

import (
	"context"
	"database/sql"

	// registered drivers: sqlite3 and pgx
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/teranos/depminer/errors"
)

// ReadSQL runs query on db and reads the result set into a table. SQL NULL
// becomes a null cell; every other value is read through its string form.
func ReadSQL(ctx context.Context, db *sql.DB, name, query string, args ...interface{}) (*Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: query", name)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: columns", name)
	}
	if len(names) == 0 {
		return nil, errors.NewInvalidInputError("%s: query returned no columns", name)
	}

	b := newBuilder(names)
	cells := make([]sql.NullString, len(names))
	dest := make([]interface{}, len(names))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrapf(err, "%s: scan", name)
		}
		for i, c := range cells {
			b.add(i, c.String, !c.Valid)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s: rows", name)
	}
	return b.table(name), nil
}

// OpenDB opens a database/sql handle for driver ("sqlite3" or "pgx") and
// checks it is reachable.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "sqlite3", "pgx":
	default:
		return nil, errors.NewConfigurationError("unsupported sql driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driver)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "connect %s", driver)
	}
	return db, nil
}
