// Package logbuf implements the bounded, append-only console log.
package logbuf

import (
	"time"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

// DefaultMaxEntries is used when New is given a non-positive limit.
const DefaultMaxEntries = 1000

// ClearedMessage is the synthetic entry left behind by Clear.
const ClearedMessage = "🧹 Console cleared"

// Buffer keeps console entries in arrival order, dropping the oldest once
// the limit is reached. It is not safe for concurrent use; the owning
// session serializes all access.
type Buffer struct {
	entries []models.LogEntry
	limit   int
	seq     uint64
	now     func() time.Time
}

// New creates a buffer retaining at most limit entries.
func New(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultMaxEntries
	}
	return &Buffer{
		entries: make([]models.LogEntry, 0, min(limit, 256)),
		limit:   limit,
		now:     time.Now,
	}
}

// SetClock overrides the receipt clock. Intended for tests.
func (b *Buffer) SetClock(now func() time.Time) {
	b.now = now
}

// Append stamps a new entry with the receipt time and adds it to the end.
func (b *Buffer) Append(source models.LogSource, message string, severity models.Severity) models.LogEntry {
	b.seq++
	entry := models.LogEntry{
		Seq:      b.seq,
		Time:     b.now(),
		Source:   source,
		Message:  message,
		Severity: severity,
	}
	b.entries = append(b.entries, entry)
	if len(b.entries) > b.limit {
		excess := len(b.entries) - b.limit
		n := copy(b.entries, b.entries[excess:])
		clear(b.entries[n:])
		b.entries = b.entries[:n]
	}
	return entry
}

// Clear replaces the buffer with a single synthetic entry.
func (b *Buffer) Clear() {
	clear(b.entries)
	b.entries = b.entries[:0]
	b.Append(models.SourceSystem, ClearedMessage, models.SeverityNone)
}

// Len returns the number of retained entries.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// Limit returns the retention limit.
func (b *Buffer) Limit() int {
	return b.limit
}

// LastSeq returns the sequence number of the most recent entry, or 0.
func (b *Buffer) LastSeq() uint64 {
	return b.seq
}

// Entries returns a copy of the retained entries, oldest first.
func (b *Buffer) Entries() []models.LogEntry {
	out := make([]models.LogEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Since returns retained entries with a sequence number greater than seq.
func (b *Buffer) Since(seq uint64) []models.LogEntry {
	i := len(b.entries)
	for i > 0 && b.entries[i-1].Seq > seq {
		i--
	}
	out := make([]models.LogEntry, len(b.entries)-i)
	copy(out, b.entries[i:])
	return out
}
