// Package report renders discovery results and run listings as a terminal
// table, JSON or YAML.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/teranos/depminer/am"
	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/profile"
	"github.com/teranos/depminer/store"
	"github.com/teranos/depminer/sym"
)

// Formats lists the supported output formats.
var Formats = []string{am.FormatTable, am.FormatJSON, am.FormatYAML}

// CheckFormat rejects formats Render cannot produce.
func CheckFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return errors.WithHintf(
		errors.NewConfigurationError("unknown output format %q", format),
		"use one of: %s", strings.Join(Formats, ", "))
}

// Render writes r to w in format.
func Render(w io.Writer, r *profile.Result, format string) error {
	switch format {
	case am.FormatJSON:
		return encodeJSON(w, r)
	case am.FormatYAML:
		return encodeYAML(w, r)
	case am.FormatTable:
		return renderResultTable(w, r)
	}
	return CheckFormat(format)
}

// RenderRuns writes a run listing to w in format.
func RenderRuns(w io.Writer, runs []store.RunSummary, format string) error {
	if runs == nil {
		runs = []store.RunSummary{}
	}
	switch format {
	case am.FormatJSON:
		return encodeJSON(w, runs)
	case am.FormatYAML:
		return encodeYAML(w, runs)
	case am.FormatTable:
		return renderRunsTable(w, runs)
	}
	return CheckFormat(format)
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode json")
}

func encodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	return errors.Wrap(enc.Close(), "encode yaml")
}

func renderResultTable(w io.Writer, r *profile.Result) error {
	glyph := sym.UCC
	if r.Kind == profile.KindFD {
		glyph = sym.FD
	}
	fmt.Fprintf(w, "%s %s  %s: %d rows, %d columns  (run %s)\n",
		glyph, strings.ToUpper(string(r.Kind)), r.Dataset, r.Rows, len(r.Columns), shortID(r.RunID))

	var data pterm.TableData
	if r.Kind == profile.KindFD {
		data = pterm.TableData{{"#", "LHS", "RHS"}}
		for i, f := range r.FDs {
			lhs := strings.Join(f.LHS, ", ")
			if lhs == "" {
				lhs = "∅"
			}
			data = append(data, []string{strconv.Itoa(i + 1), lhs, f.RHS})
		}
	} else {
		data = pterm.TableData{{"#", "Columns", "Size"}}
		for i, u := range r.UCCs {
			cols := strings.Join(u, ", ")
			if cols == "" {
				cols = "∅"
			}
			data = append(data, []string{strconv.Itoa(i + 1), cols, strconv.Itoa(len(u))})
		}
	}

	if len(data) > 1 {
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return errors.Wrap(err, "render table")
		}
		fmt.Fprintln(w, table)
	}

	total := r.Stats.LoadDuration + r.Stats.DiscoverDuration
	_, err := fmt.Fprintf(w, "%s %d %s in %s (%d rounds, %d witnesses, %d validations)\n",
		sym.Done, r.Count(), r.Kind, total.Round(time.Millisecond),
		r.Stats.Rounds, r.Stats.Witnesses, r.Stats.Validations)
	return err
}

func renderRunsTable(w io.Writer, runs []store.RunSummary) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs stored")
		return err
	}
	data := pterm.TableData{{"ID", "Kind", "Dataset", "Rows", "Columns", "Found", "Started", "Duration"}}
	for _, r := range runs {
		data = append(data, []string{
			shortID(r.ID),
			string(r.Kind),
			r.Dataset,
			strconv.Itoa(r.Rows),
			strconv.Itoa(r.Columns),
			strconv.Itoa(r.Dependencies),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Duration.String(),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "render table")
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
