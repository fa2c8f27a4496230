package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotlife/internal/version"
	"github.com/arthur-debert/dotlife/pkg/logging"
)

var (
	verbosity int

	rootCmd = &cobra.Command{
		Use:   "dotlife",
		Short: "Keep your dotfiles in sync through a git repository",
		Long: `dotlife synchronizes your personal configuration files between your
home directory, a local clone at ~/life and a remote repository, driven
by a .life manifest of tracked files and directories.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. Errors are reported once, here, on the
// way out; the non-nil return becomes the process exit status.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(pushCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dotlife %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
	},
}
