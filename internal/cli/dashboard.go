package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndnc-automation/ndncctl/internal/config"
	"github.com/ndnc-automation/ndncctl/internal/dashboard"
	"github.com/ndnc-automation/ndncctl/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the interactive dashboard",
	Long: `Open the full-screen dashboard. Diagnostics are written to
~/.ndncctl/logs/ndncctl.log while it runs. Quitting leaves the workflow as it is.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	level, _ := config.ParseLevel(settings.Logging.Level)
	logger, logFile, err := config.OpenDiagnosticsLog(level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ref := &dashboard.ProgramRef{}
	cfg, err := newSessionConfig(settings, ref, logger)
	if err != nil {
		return err
	}
	session := dashboard.NewSession(cfg)
	logger.Info("dashboard started", "server", settings.Server.URL, "session", session.ID())

	if err := tui.Run(session, ref, tui.Options{
		Server:     settings.Server.URL,
		SaveOnExit: settings.Console.SaveOnExit,
		Logger:     logger,
	}); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
