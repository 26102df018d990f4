package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/depminer/am"
	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " " + sym.CommandDescriptions["am"],
	Long: sym.AM + ` am - Show and manage depminer configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (DEPMINER_* prefix, e.g. DEPMINER_DISCOVERY_THREADS)
3. Project config (./am.toml, searched up from the working directory)
4. User config (~/.depminer/am.toml)
5. System config (/etc/depminer/am.toml)
6. Default values

Examples:
  depminer am show                  # Show current configuration
  depminer am show --format json    # Show configuration as JSON
  depminer am show --sources        # Show where each value comes from
  depminer am validate              # Validate current configuration
  depminer am init                  # Write ./am.toml with the defaults`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the defaults",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAmInit,
}

var (
	configFormat string
	showSources  bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amShowCmd.Flags().BoolVar(&showSources, "sources", false, "Show the source of every setting")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	out := cmd.OutOrStdout()
	if showSources {
		data := pterm.TableData{{"Key", "Value", "Source", "From"}}
		for _, s := range am.Introspect() {
			data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return errors.Wrap(err, "render table")
		}
		fmt.Fprintln(out, table)
		fmt.Fprintln(out, am.Summary())
		return nil
	}

	data, err := am.Encode(cfg, configFormat)
	if err != nil {
		return errors.WithHint(err, "supported formats: toml, json, yaml")
	}
	if configFormat != am.FormatJSON {
		fmt.Fprintln(out, "# depminer configuration")
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := "am.toml"
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", path)
	}
	if err := am.WriteDefault(abs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", abs)
	return nil
}
