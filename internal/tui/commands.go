package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnc-automation/ndncctl/internal/config"
	"github.com/ndnc-automation/ndncctl/internal/models"
)

func exportConsoleCmd(sessionID, server string, entries []models.LogEntry) tea.Cmd {
	return func() tea.Msg {
		export, err := config.WriteConsoleExport(sessionID, server, entries)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to export console: %w", err)}
		}
		return ConsoleExportedMsg{Export: export}
	}
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}

func clearSavedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearSavedMsg{}
	})
}
