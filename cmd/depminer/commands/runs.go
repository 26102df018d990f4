package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/depminer/am"
	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/report"
	"github.com/teranos/depminer/store"
	"github.com/teranos/depminer/sym"
)

// RunsCmd lists and inspects persisted discovery runs
var RunsCmd = &cobra.Command{
	Use:   "runs",
	Short: sym.Runs + " " + sym.CommandDescriptions["runs"],
	Long: sym.Runs + ` runs - List and inspect persisted runs

Runs are stored by "depminer ucc --save" and "depminer fd --save" in the
SQLite database named by database.path (default: depminer.db).

Examples:
  depminer runs ls                  # Most recent runs first
  depminer runs show 3f2a           # A run by id or unique id prefix
  depminer runs show 3f2a -f json   # The stored result as JSON
  depminer runs rm 3f2a9c10-...     # Delete a run`,
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsLs,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsRm,
}

var (
	runsFormat string
	runsLimit  int
	runsDB     string
)

func init() {
	RunsCmd.PersistentFlags().StringVar(&runsDB, "db", "", "Run database (default: database.path)")
	runsLsCmd.Flags().StringVarP(&runsFormat, "format", "f", am.FormatTable, "Output format: table, json, yaml")
	runsLsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum runs to list (0 = all)")
	runsShowCmd.Flags().StringVarP(&runsFormat, "format", "f", am.FormatTable, "Output format: table, json, yaml")

	RunsCmd.AddCommand(runsLsCmd)
	RunsCmd.AddCommand(runsShowCmd)
	RunsCmd.AddCommand(runsRmCmd)
}

func openRunStore(cmd *cobra.Command) (*store.Store, error) {
	path := runsDB
	if path == "" {
		cfg, err := am.Load()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
		path = cfg.GetDatabasePath()
	}
	return store.Open(commandContext(cmd), path, logger.ComponentLogger("runs"))
}

func runRunsLs(cmd *cobra.Command, args []string) error {
	if err := report.CheckFormat(runsFormat); err != nil {
		return err
	}
	st, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(commandContext(cmd), runsLimit)
	if err != nil {
		return err
	}
	return report.RenderRuns(cmd.OutOrStdout(), runs, runsFormat)
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if err := report.CheckFormat(runsFormat); err != nil {
		return err
	}
	st, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.LoadRun(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), r, runsFormat)
}

func runRunsRm(cmd *cobra.Command, args []string) error {
	st, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteRun(commandContext(cmd), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted run %s\n", args[0])
	return nil
}
