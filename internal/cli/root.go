// Package cli implements the ndncctl CLI commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ndnc-automation/ndncctl/internal/config"
)

var (
	flagServer   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "ndncctl",
	Short: "Control and monitor the NDNC automation workflow",
	Long: `ndncctl connects to an NDNC automation server, shows the workflow state,
its counters and event log, and starts, pauses, resumes or stops it.

Run without a subcommand in a terminal to open the dashboard.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return cmd.Help()
		}
		return runDashboard(cmd, args)
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "automation server URL (overrides settings and "+config.ServerURLEnv+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "diagnostics level: debug, info, warn or error")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
}
