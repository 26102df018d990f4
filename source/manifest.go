package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/teranos/depminer/errors"
)

// Kinds of dataset a manifest can describe.
const (
	KindCSV      = "csv"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Manifest describes one dataset:
//
//	name = "orders"
//	kind = "csv"
//	path = "orders.csv"
//	delimiter = ";"
//	has_header = true
//	null_tokens = ["", "NULL", "\\N"]
//	columns = ["id", "customer", "placed_at"]
//
// SQL datasets set kind to "sqlite" or "postgres" plus dsn and query.
type Manifest struct {
	Name       string   `toml:"name"`
	Kind       string   `toml:"kind"`
	Path       string   `toml:"path"`
	Delimiter  string   `toml:"delimiter"`
	HasHeader  *bool    `toml:"has_header"`
	NullTokens []string `toml:"null_tokens"`
	LazyQuotes bool     `toml:"lazy_quotes"`
	DSN        string   `toml:"dsn"`
	Query      string   `toml:"query"`
	Columns    []string `toml:"columns"`
}

// LoadManifest decodes the manifest at path. Relative CSV paths resolve
// against the manifest's directory. Unknown keys are rejected.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	md, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, errors.Wrapf(err, "decode manifest %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.WithHint(
			errors.NewConfigurationError("manifest %s: unknown keys %s", path, strings.Join(keys, ", ")),
			"supported keys: name, kind, path, delimiter, has_header, null_tokens, lazy_quotes, dsn, query, columns")
	}

	if m.Kind == "" {
		m.Kind = KindCSV
	}
	if m.Kind == KindCSV && m.Path != "" && !filepath.IsAbs(m.Path) {
		m.Path = filepath.Join(filepath.Dir(path), m.Path)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return &m, nil
}

// Validate checks that the manifest names everything its kind needs.
func (m *Manifest) Validate() error {
	switch m.Kind {
	case KindCSV:
		if m.Path == "" {
			return errors.NewConfigurationError("csv dataset %q needs a path", m.Name)
		}
		if m.Delimiter != "" && utf8.RuneCountInString(m.Delimiter) != 1 {
			return errors.NewConfigurationError("delimiter must be a single character, got %q", m.Delimiter)
		}
	case KindSQLite, KindPostgres:
		if m.DSN == "" || m.Query == "" {
			return errors.NewConfigurationError("%s dataset %q needs dsn and query", m.Kind, m.Name)
		}
	default:
		return errors.WithHint(
			errors.NewConfigurationError("unknown dataset kind %q", m.Kind),
			"use csv, sqlite or postgres")
	}
	return nil
}

// CSVOptions returns the CSV parsing options the manifest describes, filling
// gaps from base.
func (m *Manifest) CSVOptions(base CSVOptions) CSVOptions {
	opts := base
	if m.Delimiter != "" {
		opts.Delimiter, _ = utf8.DecodeRuneInString(m.Delimiter)
	}
	if m.HasHeader != nil {
		opts.HasHeader = *m.HasHeader
	}
	if m.NullTokens != nil {
		opts.NullTokens = m.NullTokens
	}
	if m.LazyQuotes {
		opts.LazyQuotes = true
	}
	return opts
}

// Open reads the dataset m describes and applies its column selection.
func Open(ctx context.Context, m *Manifest, base CSVOptions) (*Table, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var (
		t   *Table
		err error
	)
	switch m.Kind {
	case KindCSV:
		t, err = OpenCSV(ctx, m.Path, m.CSVOptions(base))
		if t != nil {
			t.Name = m.Name
		}
	case KindSQLite:
		db, oerr := OpenDB(ctx, "sqlite3", m.DSN)
		if oerr != nil {
			return nil, oerr
		}
		defer db.Close()
		t, err = ReadSQL(ctx, db, m.Name, m.Query)
	case KindPostgres:
		t, err = ReadPostgres(ctx, m.DSN, m.Name, m.Query)
	}
	if err != nil {
		return nil, err
	}
	return t.Select(m.Columns)
}

// OpenCSV reads the CSV file at path. The table is named after the file.
func OpenCSV(ctx context.Context, path string, opts CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadCSV(ctx, f, name, opts)
}
