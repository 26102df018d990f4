package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/teranos/depminer/errors"
)

// ReadPostgres connects to dsn with pgx and reads the result of query. Values
// are decoded by pgx and rendered with their default text form.
func ReadPostgres(ctx context.Context, dsn, name, query string, args ...interface{}) (*Table, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: connect", name)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: query", name)
	}
	defer rows.Close()

	return collectPgxRows(name, rows)
}

func collectPgxRows(name string, rows pgx.Rows) (*Table, error) {
	fields := rows.FieldDescriptions()
	if len(fields) == 0 {
		return nil, errors.NewInvalidInputError("%s: query returned no columns", name)
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	b := newBuilder(names)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, errors.Wrapf(err, "%s: decode row", name)
		}
		for i, v := range values {
			if v == nil {
				b.add(i, "", true)
				continue
			}
			b.add(i, fmt.Sprint(v), false)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s: rows", name)
	}
	return b.table(name), nil
}
