package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnc-automation/ndncctl/internal/logbuf"
	"github.com/ndnc-automation/ndncctl/internal/models"
)

const AlreadyRunningMessage = "⚠️  Workflow already running"

// Dispatcher sends control commands and applies their optimistic effects.
// Start is not optimistic: the state only turns Running once
// the server reports it.
type Dispatcher struct {
	api     API
	state   *Reconciler
	logs    *logbuf.Buffer
	refresh func() tea.Cmd
	logger  *slog.Logger
}

// Start asks the server to run sel. It is rejected locally, without a
// network call, while a workflow is active or when sel is None.
func (d *Dispatcher) Start(sel models.Selection) tea.Cmd {
	if d.state.State().Workflow.Active() {
		d.logs.Append(models.SourceWarning, AlreadyRunningMessage, models.SeverityWarning)
		return nil
	}
	if sel == models.SelectionNone {
		d.logs.Append(models.SourceError, "❌ No workflow selected", models.SeverityError)
		return nil
	}

	d.logs.Append(models.SourceSystem, fmt.Sprintf("🚀 Starting %s workflow...", sel), models.SeverityInfo)
	client := d.api
	return func() tea.Msg {
		msg, err := client.Start(context.Background(), sel)
		return CommandResultMsg{Command: CommandStart, Selection: sel, Message: msg, Err: err}
	}
}

// Pause asks the server to pause the workflow.
func (d *Dispatcher) Pause() tea.Cmd {
	client := d.api
	return func() tea.Msg {
		msg, err := client.Pause(context.Background())
		return CommandResultMsg{Command: CommandPause, Message: msg, Err: err}
	}
}

// Resume asks the server to resume a paused workflow.
func (d *Dispatcher) Resume() tea.Cmd {
	client := d.api
	return func() tea.Msg {
		msg, err := client.Resume(context.Background())
		return CommandResultMsg{Command: CommandResume, Message: msg, Err: err}
	}
}

// Stop asks the server to stop the workflow, and with shutdown set, to
// exit as well.
func (d *Dispatcher) Stop(shutdown bool) tea.Cmd {
	client := d.api
	return func() tea.Msg {
		msg, err := client.Stop(context.Background(), shutdown)
		return CommandResultMsg{Command: CommandStop, Message: msg, Err: err}
	}
}

// HandleResult logs a command response, applies the optimistic update on
// success and returns the follow-up pull.
func (d *Dispatcher) HandleResult(res CommandResultMsg) tea.Cmd {
	if res.Err != nil {
		d.logger.Debug("command failed", "command", res.Command, "error", res.Err)
		d.logs.Append(models.SourceError, failureMessage(res), models.SeverityError)
		return d.refresh()
	}

	switch res.Command {
	case CommandStart:
		msg := res.Message
		if msg == "" {
			msg = fmt.Sprintf("Started %s workflow", res.Selection)
		}
		d.logs.Append(models.SourceSuccess, "✅ "+msg, models.SeveritySuccess)
	case CommandPause:
		d.state.MarkPaused()
		d.logs.Append(models.SourceSystem, "⏸️ Workflow paused", models.SeverityInfo)
	case CommandResume:
		d.state.MarkResumed()
		d.logs.Append(models.SourceSystem, "▶️ Workflow resumed", models.SeverityInfo)
	case CommandStop:
		d.state.MarkStopped()
		d.logs.Append(models.SourceSystem, "⏹️ Workflow stopped", models.SeverityInfo)
	}
	return d.refresh()
}

func failureMessage(res CommandResultMsg) string {
	if res.Command == CommandStart {
		return "❌ " + res.Err.Error()
	}
	return fmt.Sprintf("❌ Failed to %s: %v", res.Command, res.Err)
}
