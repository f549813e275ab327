package dashboard

import (
	"github.com/ndnc-automation/ndncctl/internal/api"
	"github.com/ndnc-automation/ndncctl/internal/models"
	"github.com/ndnc-automation/ndncctl/internal/push"
)

// EventMsg carries one push channel event into the program loop.
type EventMsg struct {
	Event push.Event
}

// SnapshotMsg carries the result of a pull. Seq orders pulls by issue time.
type SnapshotMsg struct {
	Seq      uint64
	Snapshot *api.Snapshot
	Err      error
}

// Command names a control command.
type Command string

const (
	CommandStart  Command = "start"
	CommandPause  Command = "pause"
	CommandResume Command = "resume"
	CommandStop   Command = "stop"
)

// CommandResultMsg carries the response to a control command.
type CommandResultMsg struct {
	Command   Command
	Selection models.Selection // start only
	Message   string
	Err       error
}

// pollTickMsg fires the periodic pull. Ticks from an older generation are
// ignored so a closed session stops polling.
type pollTickMsg struct {
	gen int
}
