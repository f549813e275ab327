package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

// Adaptive colors matching the TUI palette.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Semantic styles for CLI output.
var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleVersion = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim)
)

// Workflow badge styles.
var (
	badgeIdle    = lipgloss.NewStyle().Foreground(colorDim)
	badgeRunning = lipgloss.NewStyle().Foreground(colorGreen)
	badgePaused  = lipgloss.NewStyle().Foreground(colorYellow)
)

func workflowBadge(state models.DashboardState) string {
	switch state.Workflow {
	case models.WorkflowRunning:
		return badgeRunning.Render("● Running (" + state.Selection.Label() + ")")
	case models.WorkflowPaused:
		return badgePaused.Render("⏸ Paused (" + state.Selection.Label() + ")")
	default:
		return badgeIdle.Render("● Idle")
	}
}

// severityStyle colours a console line in plain CLI output.
func severityStyle(s models.Severity) lipgloss.Style {
	switch s {
	case models.SeveritySuccess:
		return styleSuccess
	case models.SeverityWarning:
		return styleWarning
	case models.SeverityError:
		return styleError
	case models.SeverityInfo:
		return lipgloss.NewStyle().Foreground(colorCyan)
	}
	return styleValue
}
