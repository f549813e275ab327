// Package tui implements the interactive dashboard for ndncctl.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnc-automation/ndncctl/internal/dashboard"
)

// Run launches the dashboard for session. The session must have been
// created with ref as its Sender.
func Run(session *dashboard.Session, ref *dashboard.ProgramRef, opts Options) error {
	model := NewModel(session, ref, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	// Store program reference for goroutine sends
	ref.Set(p)

	_, err := p.Run()

	// The program may also end on a signal or error, bypassing doQuit.
	session.Close()
	ref.Clear()
	return err
}
