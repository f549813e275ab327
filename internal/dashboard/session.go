// Package dashboard reconciles the push channel and the status endpoint
// into one DashboardState and dispatches control commands. A Session runs
// inside a bubbletea program, which serializes every callback.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/ndnc-automation/ndncctl/internal/api"
	"github.com/ndnc-automation/ndncctl/internal/logbuf"
	"github.com/ndnc-automation/ndncctl/internal/models"
	"github.com/ndnc-automation/ndncctl/internal/push"
)

const DefaultPollInterval = 10 * time.Second

// API is the subset of the REST client a session uses.
type API interface {
	Status(ctx context.Context) (*api.Snapshot, error)
	Start(ctx context.Context, sel models.Selection) (string, error)
	Pause(ctx context.Context) (string, error)
	Resume(ctx context.Context) (string, error)
	Stop(ctx context.Context, shutdown bool) (string, error)
}

// Channel is a self-reconnecting push channel.
type Channel interface {
	Run(ctx context.Context, emit func(push.Event)) error
}

// Config wires a Session to its collaborators.
type Config struct {
	ID           string // defaults to a random UUID
	API          API
	Channel      Channel // nil runs pull-only
	Sender       Sender
	PollInterval time.Duration
	PullTimeout  time.Duration // defaults to PollInterval
	MaxEntries   int
	Logger       *slog.Logger
}

// Session owns the state, the console and the poll timer for one dashboard.
// Its methods must be called from the program loop.
type Session struct {
	id           string
	api          API
	channel      Channel
	sender       Sender
	pollInterval time.Duration
	pullTimeout  time.Duration
	logger       *slog.Logger

	logs       *logbuf.Buffer
	reconciler *Reconciler
	conn       *ConnectionManager
	dispatcher *Dispatcher

	pullsIssued  uint64
	pullsApplied uint64

	gen     int
	cancel  context.CancelFunc
	started bool
	closed  bool

	tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

// NewSession creates a session. Nothing runs until Start.
func NewSession(cfg Config) *Session {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PullTimeout <= 0 {
		cfg.PullTimeout = cfg.PollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session", cfg.ID)

	s := &Session{
		id:           cfg.ID,
		api:          cfg.API,
		channel:      cfg.Channel,
		sender:       cfg.Sender,
		pollInterval: cfg.PollInterval,
		pullTimeout:  cfg.PullTimeout,
		logger:       logger,
		logs:         logbuf.New(cfg.MaxEntries),
		reconciler:   NewReconciler(),
		tick:         tea.Tick,
	}
	s.conn = &ConnectionManager{state: s.reconciler, logs: s.logs, refresh: s.pull, logger: logger}
	s.dispatcher = &Dispatcher{api: cfg.API, state: s.reconciler, logs: s.logs, refresh: s.pull, logger: logger}
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Start opens the push channel, starts the poll timer and issues the first
// pull. Calling it again is a no-op.
func (s *Session) Start() tea.Cmd {
	if s.started || s.closed {
		return nil
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	if s.channel != nil && s.sender != nil {
		ch, sender, logger := s.channel, s.sender, s.logger
		go func() {
			err := ch.Run(ctx, func(ev push.Event) {
				sender.Send(EventMsg{Event: ev})
			})
			logger.Debug("push channel stopped", "error", err)
		}()
	}

	return tea.Batch(s.pull(), s.schedulePoll())
}

// Close stops the push channel and the poll timer. Requests already in
// flight are not aborted; their results are ignored. Close is idempotent.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.gen++
	if s.cancel != nil {
		s.cancel()
	}
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed
}

// Handle processes one message. Messages the session does not own, and
// every message after Close, yield nil.
func (s *Session) Handle(msg tea.Msg) tea.Cmd {
	if s.closed {
		return nil
	}

	switch msg := msg.(type) {
	case EventMsg:
		return s.handleEvent(msg.Event)
	case SnapshotMsg:
		s.applySnapshot(msg)
		return nil
	case CommandResultMsg:
		return s.dispatcher.HandleResult(msg)
	case pollTickMsg:
		if msg.gen != s.gen {
			return nil
		}
		return tea.Batch(s.pull(), s.schedulePoll())
	}
	return nil
}

func (s *Session) handleEvent(ev push.Event) tea.Cmd {
	switch ev := ev.(type) {
	case push.Connect:
		return s.conn.HandleConnect()
	case push.Disconnect:
		s.conn.HandleDisconnect(ev.Err)
	case push.Connected:
		if ev.Message != "" {
			s.logs.Append(models.SourceSystem, ev.Message, models.SeverityInfo)
		}
	case push.Log:
		s.logs.Append(models.SourceLog, ev.Message, models.SeverityNone)
	case push.Status:
		s.reconciler.Merge(ev.Update())
		if ev.Message != "" {
			s.logs.Append(models.SourceStatus, ev.Message, models.SeverityInfo)
		}
	case push.FileCounts:
		s.reconciler.Merge(ev.Update())
	case push.Stats:
		s.reconciler.Merge(ev.Update())
	case push.Error:
		s.logs.Append(models.SourceError, "❌ "+ev.Message, models.SeverityError)
	case push.Unknown:
		s.logger.Warn("ignoring unknown push event", "event", ev.Event, "data", string(ev.Data))
	default:
		s.logger.Warn("unhandled push event", "event", ev.Name())
	}
	return nil
}

func (s *Session) applySnapshot(msg SnapshotMsg) {
	if msg.Err != nil {
		s.logger.Debug("status pull failed", "seq", msg.Seq, "error", msg.Err)
		return
	}
	if msg.Snapshot == nil {
		return
	}
	if msg.Seq <= s.pullsApplied {
		s.logger.Debug("discarding stale status pull", "seq", msg.Seq, "applied", s.pullsApplied)
		return
	}
	s.pullsApplied = msg.Seq
	s.reconciler.Merge(msg.Snapshot.Update())
}

// pull issues one status request tagged with the next sequence number.
func (s *Session) pull() tea.Cmd {
	s.pullsIssued++
	seq := s.pullsIssued
	client, timeout := s.api, s.pullTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snap, err := client.Status(ctx)
		return SnapshotMsg{Seq: seq, Snapshot: snap, Err: err}
	}
}

func (s *Session) schedulePoll() tea.Cmd {
	gen := s.gen
	return s.tick(s.pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

// Refresh issues an immediate pull.
func (s *Session) Refresh() tea.Cmd {
	if s.closed {
		return nil
	}
	return s.pull()
}

// StartWorkflow dispatches the start command.
func (s *Session) StartWorkflow(sel models.Selection) tea.Cmd {
	if s.closed {
		return nil
	}
	return s.dispatcher.Start(sel)
}

// PauseWorkflow dispatches the pause command.
func (s *Session) PauseWorkflow() tea.Cmd {
	if s.closed {
		return nil
	}
	return s.dispatcher.Pause()
}

// ResumeWorkflow dispatches the resume command.
func (s *Session) ResumeWorkflow() tea.Cmd {
	if s.closed {
		return nil
	}
	return s.dispatcher.Resume()
}

// StopWorkflow dispatches the stop command.
func (s *Session) StopWorkflow(shutdown bool) tea.Cmd {
	if s.closed {
		return nil
	}
	return s.dispatcher.Stop(shutdown)
}

// ClearLog resets the console to a single marker entry.
func (s *Session) ClearLog() {
	s.logs.Clear()
}

// State returns a copy of the current dashboard state.
func (s *Session) State() models.DashboardState {
	return s.reconciler.State()
}

// Logs returns a copy of the console entries.
func (s *Session) Logs() []models.LogEntry {
	return s.logs.Entries()
}

// LogsSince returns the console entries appended after seq.
func (s *Session) LogsSince(seq uint64) []models.LogEntry {
	return s.logs.Since(seq)
}

// LastLogSeq returns the sequence number of the newest console entry.
func (s *Session) LastLogSeq() uint64 {
	return s.logs.LastSeq()
}
