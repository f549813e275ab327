package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndnc-automation/ndncctl/internal/api"
	"github.com/ndnc-automation/ndncctl/internal/dashboard"
	"github.com/ndnc-automation/ndncctl/internal/models"
)

var (
	flagStatusJSON   bool
	flagStopShutdown bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the workflow state and counters",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var startCmd = &cobra.Command{
	Use:       "start <review_pending|open|both>",
	Short:     "Start the workflow on the selected folders",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(models.SelectionReviewPending), string(models.SelectionOpen), string(models.SelectionBoth)},
	RunE:      runStart,
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running workflow",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(dashboard.CommandPause, "⏸️ Workflow paused", func(ctx context.Context, c *api.Client) (string, error) {
			return c.Pause(ctx)
		})
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused workflow",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(dashboard.CommandResume, "▶️ Workflow resumed", func(ctx context.Context, c *api.Client) (string, error) {
			return c.Resume(ctx)
		})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the workflow",
	Long:  `Stop the workflow. With --shutdown the server process exits as well.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(dashboard.CommandStop, "⏹️ Workflow stopped", func(ctx context.Context, c *api.Client) (string, error) {
			return c.Stop(ctx, flagStopShutdown)
		})
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the server is reachable",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

func init() {
	statusCmd.Flags().BoolVar(&flagStatusJSON, "json", false, "print the raw status snapshot as JSON")
	stopCmd.Flags().BoolVar(&flagStopShutdown, "shutdown", false, "also shut the server down")
}

// snapshotState merges one snapshot into a fresh state.
func snapshotState(snap *api.Snapshot) models.DashboardState {
	r := dashboard.NewReconciler()
	r.Merge(snap.Update())
	return r.State()
}

func runStatus(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	client, err := newAPIClient(settings)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), settings.Polling.Timeout)
	defer cancel()
	snap, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if flagStatusJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	state := snapshotState(snap)
	c := state.Counters
	fmt.Printf("%s  %s\n", styleBrand.Render("NDNC Automation"), styleHint.Render(client.BaseURL()))
	fmt.Printf("  %s %s\n", styleLabel.Render("Workflow:      "), workflowBadge(state))
	fmt.Printf("  %s %s\n", styleLabel.Render("Review Pending:"), styleValue.Render(c.ReviewPending.String()))
	fmt.Printf("  %s %s\n", styleLabel.Render("Open:          "), styleValue.Render(c.Open.String()))
	fmt.Printf("  %s %s\n", styleLabel.Render("Processed:     "), styleValue.Render(c.Processed.String()))
	fmt.Printf("  %s %s\n", styleLabel.Render("Failed:        "), styleValue.Render(c.Failed.String()))
	return nil
}

func runStart(cmd *cobra.Command, args []string) error {
	sel, ok := models.ParseSelection(args[0])
	if !ok {
		return fmt.Errorf("unknown workflow %q: want review_pending, open or both", args[0])
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	logger := stderrLogger(settings)
	client, err := newAPIClient(settings)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	// Same local guard as the dashboard; the server still has the last word.
	if snap, err := client.Status(ctx); err != nil {
		logger.Debug("status check before start failed", "error", err)
	} else if snapshotState(snap).Workflow.Active() {
		fmt.Println(styleWarning.Render(dashboard.AlreadyRunningMessage))
		return errors.New("workflow already running")
	}

	fmt.Println(styleHint.Render(fmt.Sprintf("🚀 Starting %s workflow...", sel)))
	msg, err := client.Start(ctx, sel)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	if msg == "" {
		msg = fmt.Sprintf("Started %s workflow", sel)
	}
	fmt.Println(styleSuccess.Render("✅ " + msg))
	return nil
}

func runControl(command dashboard.Command, done string, call func(context.Context, *api.Client) (string, error)) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	client, err := newAPIClient(settings)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	if _, err := call(ctx, client); err != nil {
		return fmt.Errorf("failed to %s: %w", command, err)
	}
	fmt.Println(styleSuccess.Render(done))
	return nil
}

func runPing(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	client, err := newAPIClient(settings)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), settings.Polling.Timeout)
	defer cancel()

	started := time.Now()
	health, err := client.Health(ctx)
	if err != nil {
		fmt.Println(styleError.Render("❌ " + client.BaseURL() + " is unreachable"))
		return err
	}
	elapsed := time.Since(started).Round(time.Millisecond)

	name := health.Service
	if name == "" {
		name = client.BaseURL()
	}
	line := fmt.Sprintf("✅ %s is %s", name, health.Status)
	if health.Version != "" {
		line += " (" + health.Version + ")"
	}
	fmt.Println(styleSuccess.Render(line), styleHint.Render(elapsed.String()))
	return nil
}
