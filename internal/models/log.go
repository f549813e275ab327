package models

import (
	"fmt"
	"time"
)

// LogSource tags where a console entry came from.
type LogSource string

const (
	SourceSystem  LogSource = "System"
	SourceLog     LogSource = "Log"
	SourceStatus  LogSource = "Status"
	SourceWarning LogSource = "Warning"
	SourceSuccess LogSource = "Success"
	SourceError   LogSource = "Error"
)

// Severity is an optional display level for a console entry.
type Severity string

const (
	SeverityNone    Severity = ""
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// LogEntry is a single console line. Time is the client receipt time, never
// a server timestamp. Entries are immutable once created.
type LogEntry struct {
	Seq      uint64
	Time     time.Time
	Source   LogSource
	Message  string
	Severity Severity
}

// ConsoleExport represents metadata for a saved console export.
type ConsoleExport struct {
	ExportID  string `yaml:"export_id"`
	SessionID string `yaml:"session_id"`
	Server    string `yaml:"server"`
	Entries   int    `yaml:"entries"`
	SavedAt   string `yaml:"saved_at"`
}

// Line formats the entry as one line of plain text.
func (e LogEntry) Line() string {
	return fmt.Sprintf("%s [%s] %s", e.Time.Format(time.TimeOnly), e.Source, e.Message)
}
