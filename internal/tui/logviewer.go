package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

// ConsoleView shows the session console in a scrollable viewport. It
// follows new entries until the operator scrolls up.
type ConsoleView struct {
	viewport viewport.Model
	entries  []models.LogEntry
	lastSeq  uint64
	follow   bool
	width    int
	height   int
}

// NewConsoleView creates an empty console view.
func NewConsoleView() *ConsoleView {
	return &ConsoleView{
		viewport: viewport.New(80, 10),
		follow:   true,
	}
}

// SetSize updates dimensions.
func (c *ConsoleView) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.viewport.Width = width
	c.viewport.Height = height
	c.render()
}

// Sync replaces the entries when the console has changed since the last
// call. lastSeq is the sequence number of the newest entry.
func (c *ConsoleView) Sync(entries []models.LogEntry, lastSeq uint64) {
	if lastSeq == c.lastSeq {
		return
	}
	c.lastSeq = lastSeq
	c.entries = entries
	c.render()
}

// Len returns the number of entries shown.
func (c *ConsoleView) Len() int {
	return len(c.entries)
}

// Following reports whether the view sticks to the newest entry.
func (c *ConsoleView) Following() bool {
	return c.follow
}

func (c *ConsoleView) ScrollUp() {
	c.viewport.LineUp(1)
	c.follow = c.viewport.AtBottom()
}

func (c *ConsoleView) ScrollDown() {
	c.viewport.LineDown(1)
	c.follow = c.viewport.AtBottom()
}

func (c *ConsoleView) PageUp() {
	c.viewport.HalfViewUp()
	c.follow = c.viewport.AtBottom()
}

func (c *ConsoleView) PageDown() {
	c.viewport.HalfViewDown()
	c.follow = c.viewport.AtBottom()
}

// GotoBottom resumes following new entries.
func (c *ConsoleView) GotoBottom() {
	c.follow = true
	c.viewport.GotoBottom()
}

func (c *ConsoleView) render() {
	if len(c.entries) == 0 {
		c.viewport.SetContent(lipgloss.NewStyle().Foreground(colorDim).Render("Waiting for events..."))
		return
	}

	lines := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		lines = append(lines, formatConsoleLine(e))
	}
	c.viewport.SetContent(strings.Join(lines, "\n"))
	if c.follow {
		c.viewport.GotoBottom()
	}
}

// View renders the console.
func (c *ConsoleView) View() string {
	return c.viewport.View()
}

func formatConsoleLine(e models.LogEntry) string {
	style := consolePlainStyle
	switch e.Severity {
	case models.SeverityInfo:
		style = consoleInfoStyle
	case models.SeveritySuccess:
		style = consoleSuccessStyle
	case models.SeverityWarning:
		style = consoleWarningStyle
	case models.SeverityError:
		style = consoleErrorStyle
	}
	return consoleTimeStyle.Render("["+e.Time.Format(time.TimeOnly)+"]") + " " + style.Render(e.Message)
}
