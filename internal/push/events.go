// Package push implements the server-to-client event channel: a WebSocket
// transport speaking Socket.IO (or a plain JSON envelope) that decodes
// frames into a closed set of Event variants.
package push

import (
	"encoding/json"
	"fmt"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

// Event names as they appear on the wire.
const (
	EventConnect    = "connect"
	EventDisconnect = "disconnect"
	EventConnected  = "connected"
	EventLog        = "log"
	EventStatus     = "status"
	EventFileCounts = "file_counts"
	EventStats      = "stats"
	EventError      = "error"
)

// Event is one of the variants declared in this package. Consumers switch
// over the concrete types; Unknown carries anything else.
type Event interface {
	Name() string
	isEvent()
}

// Connect is emitted by the transport when the channel comes up.
type Connect struct{}

// Disconnect is emitted by the transport when an established channel drops.
type Disconnect struct {
	Err error
}

// Connected is the server's greeting after a connect.
type Connected struct {
	Message string `json:"message"`
}

// Log is a free-text line from the workflow.
type Log struct {
	Message string `json:"message"`
}

// Status is an incremental workflow status change.
type Status struct {
	Running  *bool   `json:"running"`
	Paused   *bool   `json:"paused"`
	Workflow *string `json:"workflow"`
	Message  string  `json:"message"`
}

// FileCounts reports the number of files waiting per folder.
type FileCounts struct {
	ReviewPending *int `json:"review_pending"`
	Open          *int `json:"open"`
}

// Stats reports cumulative processing results.
type Stats struct {
	Processed *int `json:"processed"`
	Failed    *int `json:"failed"`
}

// Error is a workflow error message.
type Error struct {
	Message string `json:"message"`
}

// Unknown is any event name this client does not understand.
type Unknown struct {
	Event string
	Data  json.RawMessage
}

func (Connect) Name() string    { return EventConnect }
func (Disconnect) Name() string { return EventDisconnect }
func (Connected) Name() string  { return EventConnected }
func (Log) Name() string        { return EventLog }
func (Status) Name() string     { return EventStatus }
func (FileCounts) Name() string { return EventFileCounts }
func (Stats) Name() string      { return EventStats }
func (Error) Name() string      { return EventError }
func (u Unknown) Name() string  { return u.Event }

func (Connect) isEvent()    {}
func (Disconnect) isEvent() {}
func (Connected) isEvent()  {}
func (Log) isEvent()        {}
func (Status) isEvent()     {}
func (FileCounts) isEvent() {}
func (Stats) isEvent()      {}
func (Error) isEvent()      {}
func (Unknown) isEvent()    {}

// Update converts a status event into a merge unit. A status without a
// running flag carries no workflow fields.
func (s Status) Update() models.StatusUpdate {
	if s.Running == nil {
		return models.StatusUpdate{}
	}
	return models.WorkflowUpdate(*s.Running, s.Paused, s.Workflow)
}

// Update converts the counts into a merge unit.
func (f FileCounts) Update() models.StatusUpdate {
	return models.StatusUpdate{ReviewPending: f.ReviewPending, Open: f.Open}
}

// Update converts the stats into a merge unit.
func (s Stats) Update() models.StatusUpdate {
	return models.StatusUpdate{Processed: s.Processed, Failed: s.Failed}
}

// Decode builds the variant for a named server event. The transport-level
// connect and disconnect names are never accepted from the server.
func Decode(name string, data json.RawMessage) (Event, error) {
	var (
		ev  Event
		err error
	)
	switch name {
	case EventConnected:
		var v Connected
		err = unmarshalData(data, &v)
		ev = v
	case EventLog:
		var v Log
		err = unmarshalData(data, &v)
		ev = v
	case EventStatus:
		var v Status
		err = unmarshalData(data, &v)
		ev = v
	case EventFileCounts:
		var v FileCounts
		err = unmarshalData(data, &v)
		ev = v
	case EventStats:
		var v Stats
		err = unmarshalData(data, &v)
		ev = v
	case EventError:
		var v Error
		err = unmarshalData(data, &v)
		ev = v
	default:
		return Unknown{Event: name, Data: data}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q event: %w", name, err)
	}
	return ev, nil
}

func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, v)
}
