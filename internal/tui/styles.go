package tui

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)
)

// Connection and workflow badge styles.
var (
	badgeIdleStyle    = lipgloss.NewStyle().Foreground(colorDim)
	badgeRunningStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	badgePausedStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	badgeOnlineStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	badgeOfflineStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

// Counter card styles.
var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Align(lipgloss.Center)

	cardLabelStyle = lipgloss.NewStyle().Foreground(colorDim)
	cardValueStyle = lipgloss.NewStyle().Bold(true)
)

// Console line styles, by severity.
var (
	consoleTimeStyle    = lipgloss.NewStyle().Foreground(colorDim)
	consoleInfoStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	consoleSuccessStyle = lipgloss.NewStyle().Foreground(colorGreen)
	consoleWarningStyle = lipgloss.NewStyle().Foreground(colorYellow)
	consoleErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	consolePlainStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)

// Overlay styles.
var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWhite).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)

	overlayDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)
