package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/profile"
	"github.com/teranos/depminer/store"
)

func init() {
	pterm.DisableStyling()
}

func fdResult() *profile.Result {
	return &profile.Result{
		RunID:   "0123456789abcdef",
		Kind:    profile.KindFD,
		Dataset: "people",
		Columns: []string{"city", "zip", "country"},
		Rows:    10,
		FDs: []profile.FD{
			{LHS: []string{}, RHS: "country"},
			{LHS: []string{"city"}, RHS: "zip"},
		},
		Stats: profile.Stats{Rounds: 3, DiscoverDuration: 25 * time.Millisecond},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, fdResult(), "table"))

	out := buf.String()
	assert.Contains(t, out, "FD")
	assert.Contains(t, out, "people: 10 rows, 3 columns")
	assert.Contains(t, out, "01234567")
	assert.Contains(t, out, "∅")
	assert.Contains(t, out, "city")
	assert.Contains(t, out, "2 fd in 25ms (3 rounds")
}

func TestRenderUCCTable(t *testing.T) {
	r := &profile.Result{Kind: profile.KindUCC, Dataset: "d", UCCs: [][]string{{"id"}, {"first", "last"}}}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, "table"))
	assert.Contains(t, buf.String(), "first, last")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, fdResult(), "json"))

	var decoded profile.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, fdResult().FDs, decoded.FDs)
	assert.Contains(t, buf.String(), `"rhs": "zip"`)
	assert.NotContains(t, buf.String(), `"uccs"`)
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, fdResult(), "yaml"))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "fd", decoded["kind"])
	assert.Len(t, decoded["fds"], 2)
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, fdResult(), "xml")
	assert.True(t, errors.IsConfigurationError(err))
	assert.NoError(t, CheckFormat("yaml"))
}

func TestRenderRuns(t *testing.T) {
	runs := []store.RunSummary{{
		ID: "abcdef0123", Kind: profile.KindUCC, Dataset: "orders",
		Rows: 5, Columns: 2, Dependencies: 1, Duration: time.Second,
		StartedAt: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	}}

	var table bytes.Buffer
	require.NoError(t, RenderRuns(&table, runs, "table"))
	assert.Contains(t, table.String(), "abcdef01")
	assert.Contains(t, table.String(), "orders")

	var empty bytes.Buffer
	require.NoError(t, RenderRuns(&empty, nil, "table"))
	assert.Equal(t, "No runs stored\n", empty.String())

	var js bytes.Buffer
	require.NoError(t, RenderRuns(&js, nil, "json"))
	assert.Equal(t, "[]\n", js.String())
}
