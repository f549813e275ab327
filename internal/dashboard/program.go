package dashboard

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages into the program loop from other goroutines.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramRef is a shared reference to the tea.Program for goroutine sends.
// It is set after tea.NewProgram but before p.Run().
type ProgramRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *ProgramRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *ProgramRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear drops the program reference, preventing post-exit sends.
func (r *ProgramRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}
