package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/depminer/errors"
)

func TestReadCSVWithHeader(t *testing.T) {
	in := "\ufeffid, name ,city\n1,ann,oslo\n2,bob,\n3,cy,NULL\n"
	opts := DefaultCSVOptions()
	opts.NullTokens = []string{"", "NULL"}

	tbl, err := ReadCSV(context.Background(), strings.NewReader(in), "people", opts)
	require.NoError(t, err)

	assert.Equal(t, "people", tbl.Name)
	assert.Equal(t, []string{"id", "name", "city"}, tbl.ColumnNames())
	assert.Equal(t, 3, tbl.NumRows())

	city := tbl.Columns[2]
	assert.Equal(t, []string{"oslo", "", "NULL"}, city.Values)
	assert.Equal(t, []bool{false, true, true}, city.Nulls)
}

func TestReadCSVWithoutHeader(t *testing.T) {
	opts := CSVOptions{Delimiter: ';'}
	tbl, err := ReadCSV(context.Background(), strings.NewReader("a;b\nc;d\n"), "x", opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, tbl.ColumnNames())
	assert.Equal(t, []string{"a", "c"}, tbl.Columns[0].Values)
	assert.Equal(t, []bool{false, false}, tbl.Columns[0].Nulls)
}

func TestReadCSVHeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(context.Background(), strings.NewReader("a,b\n"), "x", DefaultCSVOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, []string{}, tbl.Columns[1].Values)
}

func TestReadCSVRejectsBadInput(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""), "x", DefaultCSVOptions())
	assert.True(t, errors.IsInvalidInputError(err))

	_, err = ReadCSV(context.Background(), strings.NewReader("a,b\n1,2\n3\n"), "x", DefaultCSVOptions())
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInputError(err))
	assert.Contains(t, err.Error(), "line 3")
}

func TestSelect(t *testing.T) {
	tbl, err := ReadCSV(context.Background(), strings.NewReader("a,b,c\n1,2,3\n"), "x", DefaultCSVOptions())
	require.NoError(t, err)

	sel, err := tbl.Select([]string{"c", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sel.ColumnNames())

	same, err := tbl.Select(nil)
	require.NoError(t, err)
	assert.Same(t, tbl, same)

	_, err = tbl.Select([]string{"zz"})
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestReadSQL(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(ctx, "sqlite3", filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE t (id INTEGER, label TEXT, score REAL);
		INSERT INTO t VALUES (1, 'a', 1.5), (2, NULL, 2.0), (3, 'a', NULL);`)
	require.NoError(t, err)

	tbl, err := ReadSQL(ctx, db, "t", "SELECT id, label, score FROM t ORDER BY id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "label", "score"}, tbl.ColumnNames())
	assert.Equal(t, []string{"1", "2", "3"}, tbl.Columns[0].Values)
	assert.Equal(t, []bool{false, true, false}, tbl.Columns[1].Nulls)
	assert.Equal(t, []bool{false, false, true}, tbl.Columns[2].Nulls)
}

func TestReadSQLQueryError(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = ReadSQL(ctx, db, "t", "SELECT * FROM missing")
	assert.Error(t, err)
}

func TestOpenDBUnknownDriver(t *testing.T) {
	_, err := OpenDB(context.Background(), "oracle", "x")
	assert.True(t, errors.IsConfigurationError(err))
}

func TestReadPostgres(t *testing.T) {
	dsn := os.Getenv("DEPMINER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DEPMINER_TEST_POSTGRES_DSN not set")
	}
	tbl, err := ReadPostgres(context.Background(), dsn, "q",
		"SELECT * FROM (VALUES (1, 'a'), (2, NULL)) AS v(id, label)")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label"}, tbl.ColumnNames())
	assert.Equal(t, []bool{false, true}, tbl.Columns[1].Nulls)
}

func TestManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.csv"),
		[]byte("id|customer|note\n1|ann|-\n2|bob|x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.toml"), []byte(`
path = "orders.csv"
delimiter = "|"
null_tokens = ["-"]
columns = ["note", "id"]
`), 0o644))

	m, err := LoadManifest(filepath.Join(dir, "orders.toml"))
	require.NoError(t, err)
	assert.Equal(t, "orders", m.Name)
	assert.Equal(t, KindCSV, m.Kind)
	assert.Equal(t, filepath.Join(dir, "orders.csv"), m.Path)

	tbl, err := Open(context.Background(), m, DefaultCSVOptions())
	require.NoError(t, err)
	assert.Equal(t, "orders", tbl.Name)
	assert.Equal(t, []string{"note", "id"}, tbl.ColumnNames())
	assert.Equal(t, []bool{true, false}, tbl.Columns[0].Nulls)
}

func TestManifestSQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "d.db")
	db, err := OpenDB(context.Background(), "sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE t (a TEXT); INSERT INTO t VALUES ('x'), ('y');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	m := &Manifest{Name: "t", Kind: KindSQLite, DSN: dbPath, Query: "SELECT a FROM t"}
	tbl, err := Open(context.Background(), m, DefaultCSVOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tbl.Columns[0].Values)
}

func TestManifestRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.toml")
	require.NoError(t, os.WriteFile(path, []byte("path = \"a.csv\"\ndelimeter = \";\"\n"), 0o644))

	_, err := LoadManifest(path)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "delimeter")
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name string
		m    Manifest
	}{
		{"csv without path", Manifest{Kind: KindCSV}},
		{"long delimiter", Manifest{Kind: KindCSV, Path: "a", Delimiter: "||"}},
		{"sqlite without query", Manifest{Kind: KindSQLite, DSN: "x"}},
		{"unknown kind", Manifest{Kind: "parquet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.IsConfigurationError(tt.m.Validate()))
		})
	}
}
