package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

// Rows taken by everything except the console panel: header, cards, status bar.
const (
	headerHeight    = 1
	cardsHeight     = 4
	statusBarHeight = 1
)

type counterCard struct {
	label string
	value models.Count
	style lipgloss.Style
}

func renderCounters(c models.Counters, width int) string {
	cards := []counterCard{
		{"Review Pending", c.ReviewPending, cardValueStyle.Foreground(colorCyan)},
		{"Open", c.Open, cardValueStyle.Foreground(colorYellow)},
		{"Processed", c.Processed, cardValueStyle.Foreground(colorGreen)},
		{"Failed", c.Failed, cardValueStyle.Foreground(colorRed)},
	}

	// Each card has a 2-column border.
	inner := width/len(cards) - 2
	if inner < 8 {
		inner = 8
	}

	rendered := make([]string, 0, len(cards))
	for _, card := range cards {
		body := card.style.Render(card.value.String()) + "\n" + cardLabelStyle.Render(card.label)
		rendered = append(rendered, cardStyle.Width(inner).Render(truncateContent(body, inner, 2)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderConsolePanel(title, content string, width, height int) string {
	innerWidth := width - 2
	innerHeight := height - 2
	if innerWidth < 1 {
		innerWidth = 1
	}
	if innerHeight < 2 {
		innerHeight = 2
	}

	body := panelTitleStyle.Render(title) + "\n" + truncateContent(content, innerWidth, innerHeight-1)
	return panelBorderStyle.
		Width(innerWidth).
		Height(innerHeight).
		Render(body)
}

// truncateContent ensures content fits within the given dimensions.
func truncateContent(content string, width, height int) string {
	lines := strings.Split(content, "\n")

	if len(lines) > height {
		lines = lines[:height]
	}

	// Truncate long lines (ANSI-aware)
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "…")
		}
	}

	return strings.Join(lines, "\n")
}
