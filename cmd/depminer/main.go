package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/depminer/cmd/depminer/commands"
	"github.com/teranos/depminer/errors"
	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/profile"
)

var rootCmd = &cobra.Command{
	Use:   "depminer",
	Short: "depminer - discover unique column combinations and functional dependencies",
	Long: `depminer - profile tables for minimal unique column combinations (UCCs)
and minimal functional dependencies (FDs) with the hybrid HyUCC / HyFD
algorithms.

Available commands:
  ucc      - Discover minimal unique column combinations
  fd       - Discover minimal functional dependencies
  runs     - List and inspect persisted runs
  am       - Show and manage configuration ("I am")
  version  - Show build information

Examples:
  depminer ucc people.csv                  # UCCs of a CSV file
  depminer fd people.csv --format json     # FDs as JSON
  depminer fd --manifest orders.toml -v    # dataset described by a manifest
  depminer runs ls                         # runs saved with --save`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("json-log")
		if err := logger.Initialize(jsonLog, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON to stderr")

	rootCmd.AddCommand(commands.NewDiscoverCmd(profile.KindUCC))
	rootCmd.AddCommand(commands.NewDiscoverCmd(profile.KindFD))
	rootCmd.AddCommand(commands.RunsCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
