package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

// confirmMode values.
const (
	confirmNone     = 0
	confirmStop     = 1
	confirmShutdown = 2
)

func renderStatusBar(m *Model, width int) string {
	switch m.confirmMode {
	case confirmStop:
		return renderConfirmBar("Stop the workflow? (y/n)", width)
	case confirmShutdown:
		return renderConfirmBar("Stop the workflow and shut the server down? (y/n)", width)
	}

	if m.err != nil {
		return renderErrorBar(m.err.Error(), width)
	}

	if m.savedExport != "" {
		return renderSavedBar("Console saved as "+m.savedExport, width)
	}

	left := " " + getKeyHints(m.session.State())

	right := ""
	if !m.console.Following() {
		right = hintStyle.Render("scrolled · G to follow") + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func getKeyHints(state models.DashboardState) string {
	base := keyHint("q", "quit") + "  " + keyHint("?", "help")

	switch state.Workflow {
	case models.WorkflowRunning:
		return base + "  " + keyHint("p", "pause") + "  " + keyHint("s", "stop") + "  " +
			keyHint("R", "refresh") + "  " + keyHint("c", "clear")
	case models.WorkflowPaused:
		return base + "  " + keyHint("r", "resume") + "  " + keyHint("s", "stop") + "  " +
			keyHint("R", "refresh") + "  " + keyHint("c", "clear")
	default:
		return base + "  " + keyHint("1/2/3", "start review/open/both") + "  " +
			keyHint("R", "refresh") + "  " + keyHint("c", "clear")
	}
}

func keyHint(k, desc string) string {
	if k == "" {
		return hintStyle.Render(desc)
	}
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderConfirmBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorYellow).
		Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "0"}).
		Width(width).
		Render(" " + msg)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}

func renderSavedBar(msg string, width int) string {
	return statusBarStyle.
		Width(width).
		Render(" " + lipgloss.NewStyle().Foreground(colorGreen).Render(msg))
}
