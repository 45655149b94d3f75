package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cpconfig/cpconfig/cmd/cpconfig/commands/genconfig"
	"github.com/cpconfig/cpconfig/internal/version"
	"github.com/cpconfig/cpconfig/pkg/logging"
)

var (
	verbosity     int
	dryRun        bool
	rootDir       string
	configPath    string
	gitignorePath string
	jsonOutput    bool
)

// NewRootCmd builds the cpconfig command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "cpconfig",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Preview changes without writing them")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Root directory to synchronize (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Explicit manifest path (default: discovered in the root directory)")
	rootCmd.PersistentFlags().StringVar(&gitignorePath, "gitignore-path", "", "Ignore file to maintain (default: <root>/.gitignore)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit the sync report as JSON")

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(genconfig.NewCommand())
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// newSyncCmd exposes the default behavior as an explicit subcommand too.
func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: MsgSyncShort,
		Long:  MsgSyncLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd)
		},
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: MsgVersionShort,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "cpconfig version %s\n", version.Version)
		fmt.Fprintf(out, "  commit: %s\n", version.Commit)
		fmt.Fprintf(out, "  built:  %s\n", version.Date)
	},
}
