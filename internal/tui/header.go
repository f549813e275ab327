package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

func renderHeader(server string, state models.DashboardState, width int) string {
	dot := lipgloss.NewStyle().Foreground(colorOrange).Render("●")
	name := lipgloss.NewStyle().Bold(true).Render("NDNC Automation")
	host := lipgloss.NewStyle().Foreground(colorDim).Render(server)

	left := fmt.Sprintf(" %s %s  %s", dot, name, host)
	right := fmt.Sprintf("%s  %s ", renderConnectionBadge(state.Connected), renderWorkflowBadge(state))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderConnectionBadge(connected bool) string {
	if connected {
		return badgeOnlineStyle.Render("Connected")
	}
	return badgeOfflineStyle.Render("⚠ Disconnected")
}

func renderWorkflowBadge(state models.DashboardState) string {
	switch state.Workflow {
	case models.WorkflowRunning:
		return badgeRunningStyle.Render("● Running " + state.Selection.Label())
	case models.WorkflowPaused:
		return badgePausedStyle.Render("⏸ Paused " + state.Selection.Label())
	default:
		return badgeIdleStyle.Render("● Idle")
	}
}
