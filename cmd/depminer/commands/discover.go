// Package commands implements the depminer subcommands.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/depminer/am"
	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/profile"
	"github.com/teranos/depminer/pulse"
	"github.com/teranos/depminer/report"
	"github.com/teranos/depminer/source"
	"github.com/teranos/depminer/store"
	"github.com/teranos/depminer/sym"
)

type discoverFlags struct {
	threads       int
	nullEqualNull bool
	maxLHS        int
	threshold     float64
	trimSpace     bool
	normalize     bool
	format        string
	save          bool
	manifest      string
	delimiter     string
	noHeader      bool
	nullTokens    []string
	columns       []string
	progressJSON  bool
}

// NewDiscoverCmd returns the ucc or fd command.
func NewDiscoverCmd(kind profile.Kind) *cobra.Command {
	f := &discoverFlags{}
	name := string(kind)
	glyph := sym.CommandToSymbol[name]

	cmd := &cobra.Command{
		Use:   name + " [input.csv | -]",
		Short: glyph + " " + sym.CommandDescriptions[name],
		Long: glyph + " " + name + ` - ` + sym.CommandDescriptions[name] + `

Input is a CSV file, "-" for standard input, or a dataset manifest
(--manifest) naming a CSV file, a SQLite database or a PostgreSQL query.

Flags override the [discovery], [input] and [output] sections of am.toml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(cmd, kind, f, args)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.threads, "threads", "t", 1, "Worker threads for sampling and validation")
	fl.BoolVar(&f.nullEqualNull, "null-equal-null", true, "Treat all nulls of a column as one value")
	fl.IntVar(&f.maxLHS, "max-lhs", 0, "Largest FD left-hand side or UCC size to report (0 = unlimited)")
	fl.Float64Var(&f.threshold, "efficiency-threshold", 0.01, "Sampler efficiency below which validation resumes")
	fl.BoolVar(&f.trimSpace, "trim-space", false, "Ignore leading and trailing white space in values")
	fl.BoolVar(&f.normalize, "normalize-unicode", false, "Compare values in Unicode NFC form")
	fl.StringVarP(&f.format, "format", "f", am.FormatTable, "Output format: table, json, yaml")
	fl.BoolVar(&f.save, "save", false, "Persist the run in the run database")
	fl.StringVar(&f.manifest, "manifest", "", "Dataset manifest (TOML)")
	fl.StringVarP(&f.delimiter, "delimiter", "d", ",", "CSV field delimiter")
	fl.BoolVar(&f.noHeader, "no-header", false, "CSV input has no header row")
	fl.StringSliceVar(&f.nullTokens, "null", []string{""}, "Cell values read as null")
	fl.StringSliceVarP(&f.columns, "columns", "c", nil, "Only profile these columns")
	fl.BoolVar(&f.progressJSON, "progress-json", false, "Stream progress events as JSON lines to stderr")
	return cmd
}

// applyFlags overrides configuration values with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *am.Config, f *discoverFlags) {
	changed := cmd.Flags().Changed
	if changed("threads") {
		cfg.Discovery.Threads = f.threads
	}
	if changed("null-equal-null") {
		cfg.Discovery.NullEqualNull = f.nullEqualNull
	}
	if changed("max-lhs") {
		cfg.Discovery.MaxLHS = f.maxLHS
	}
	if changed("efficiency-threshold") {
		cfg.Discovery.EfficiencyThreshold = f.threshold
	}
	if changed("trim-space") {
		cfg.Discovery.TrimSpace = f.trimSpace
	}
	if changed("normalize-unicode") {
		cfg.Discovery.NormalizeUnicode = f.normalize
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("delimiter") {
		cfg.Input.Delimiter = f.delimiter
	}
	if changed("no-header") {
		cfg.Input.HasHeader = !f.noHeader
	}
	if changed("null") {
		cfg.Input.NullTokens = f.nullTokens
	}
}

func runDiscover(cmd *cobra.Command, kind profile.Kind, f *discoverFlags, args []string) error {
	ctx := commandContext(cmd)

	loaded, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	cfg := *loaded
	applyFlags(cmd, &cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	table, err := openInput(ctx, cmd, &cfg, f, args)
	if err != nil {
		return err
	}
	if len(f.columns) > 0 {
		if table, err = table.Select(f.columns); err != nil {
			return err
		}
	}

	log := logger.ComponentLogger(string(kind))
	verbosity, _ := cmd.Flags().GetCount("verbose")
	var progress pulse.ProgressEmitter
	switch {
	case f.progressJSON:
		progress = pulse.NewJSONEmitter(cmd.ErrOrStderr())
	case cfg.Output.Format == am.FormatTable:
		progress = pulse.NewCLIEmitter(verbosity)
	default:
		progress = pulse.NewLogEmitter(log)
	}

	opts := profile.OptionsFromConfig(cfg.Discovery)
	run := profile.DiscoverUCCs
	if kind == profile.KindFD {
		run = profile.DiscoverFDs
	}
	result, err := run(ctx, table, opts, profile.WithLogger(log), profile.WithProgress(progress))
	if err != nil {
		return err
	}

	if f.save {
		st, err := store.Open(ctx, cfg.GetDatabasePath(), log)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.SaveRun(ctx, result); err != nil {
			return err
		}
		if cfg.Output.Format == am.FormatTable {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s saved run %s to %s\n", sym.Runs, result.RunID, cfg.GetDatabasePath())
		}
	}

	return report.Render(cmd.OutOrStdout(), result, cfg.Output.Format)
}

func openInput(ctx context.Context, cmd *cobra.Command, cfg *am.Config, f *discoverFlags, args []string) (*source.Table, error) {
	base := csvOptions(cfg.Input)

	if f.manifest != "" {
		if len(args) > 0 {
			return nil, errors.NewConfigurationError("pass either an input file or --manifest, not both")
		}
		m, err := source.LoadManifest(f.manifest)
		if err != nil {
			return nil, err
		}
		return source.Open(ctx, m, base)
	}

	if len(args) == 0 {
		return nil, errors.WithHint(
			errors.NewConfigurationError("no input given"),
			"pass a CSV file, - for standard input, or --manifest")
	}
	if args[0] == "-" {
		return source.ReadCSV(ctx, cmd.InOrStdin(), "stdin", base)
	}
	if _, err := os.Stat(args[0]); err != nil {
		return nil, errors.Wrapf(err, "input %s", args[0])
	}
	return source.OpenCSV(ctx, args[0], base)
}

func csvOptions(in am.InputConfig) source.CSVOptions {
	opts := source.DefaultCSVOptions()
	if in.Delimiter != "" {
		opts.Delimiter = []rune(in.Delimiter)[0]
	}
	opts.HasHeader = in.HasHeader
	if in.NullTokens != nil {
		opts.NullTokens = in.NullTokens
	}
	return opts
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
