package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnc-automation/ndncctl/internal/api"
	"github.com/ndnc-automation/ndncctl/internal/models"
	"github.com/ndnc-automation/ndncctl/internal/push"
)

type fakeAPI struct {
	mu        sync.Mutex
	calls     []string
	snapshot  *api.Snapshot
	statusErr error
	cmdErr    error
	message   string
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Status(ctx context.Context) (*api.Snapshot, error) {
	f.record("status")
	return f.snapshot, f.statusErr
}

func (f *fakeAPI) Start(ctx context.Context, sel models.Selection) (string, error) {
	f.record("start")
	return f.message, f.cmdErr
}

func (f *fakeAPI) Pause(ctx context.Context) (string, error) {
	f.record("pause")
	return f.message, f.cmdErr
}

func (f *fakeAPI) Resume(ctx context.Context) (string, error) {
	f.record("resume")
	return f.message, f.cmdErr
}

func (f *fakeAPI) Stop(ctx context.Context, shutdown bool) (string, error) {
	f.record("stop")
	return f.message, f.cmdErr
}

type fakeChannel struct {
	started chan func(push.Event)
	stopped chan struct{}
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{started: make(chan func(push.Event), 1), stopped: make(chan struct{})}
}

func (c *fakeChannel) Run(ctx context.Context, emit func(push.Event)) error {
	c.started <- emit
	<-ctx.Done()
	close(c.stopped)
	return ctx.Err()
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *fakeSender) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *fakeSender) sent() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tea.Msg(nil), s.msgs...)
}

func newTestSession(t *testing.T, client *fakeAPI) *Session {
	t.Helper()
	s := NewSession(Config{API: client, PollInterval: time.Hour})
	s.tick = func(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		return func() tea.Msg { return fn(time.Time{}) }
	}
	return s
}

// run executes cmd and any batched commands, collecting the messages they
// produce without feeding them back.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func snapshots(msgs []tea.Msg) []SnapshotMsg {
	var out []SnapshotMsg
	for _, m := range msgs {
		if sm, ok := m.(SnapshotMsg); ok {
			out = append(out, sm)
		}
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func scenarioSnapshot() *api.Snapshot {
	return &api.Snapshot{
		Running:    ptr(true),
		Paused:     ptr(false),
		Workflow:   ptr("open"),
		FileCounts: &api.FileCounts{ReviewPending: ptr(5), Open: ptr(12)},
		Stats:      &api.Stats{Processed: ptr(3), Failed: ptr(1)},
	}
}

func runningSession(t *testing.T, client *fakeAPI) *Session {
	t.Helper()
	s := newTestSession(t, client)
	s.reconciler.Merge(models.WorkflowUpdate(true, ptr(false), ptr("both")))
	return s
}

func lastLog(s *Session) models.LogEntry {
	logs := s.Logs()
	return logs[len(logs)-1]
}

func TestStartIssuesFirstPullAndSchedulesPoll(t *testing.T) {
	client := &fakeAPI{snapshot: scenarioSnapshot()}
	s := newTestSession(t, client)

	msgs := run(s.Start())
	if got := client.count("status"); got != 1 {
		t.Fatalf("status calls = %d, want 1", got)
	}
	var ticks int
	for _, m := range msgs {
		if _, ok := m.(pollTickMsg); ok {
			ticks++
		}
	}
	if ticks != 1 {
		t.Errorf("poll ticks = %d, want 1", ticks)
	}
	if run(s.Start()) != nil {
		t.Error("second Start should be a no-op")
	}
}

func TestScenarioSnapshotSetsState(t *testing.T) {
	client := &fakeAPI{snapshot: scenarioSnapshot()}
	s := newTestSession(t, client)

	for _, m := range run(s.Start()) {
		s.Handle(m)
	}

	st := s.State()
	if st.Workflow != models.WorkflowRunning {
		t.Errorf("Workflow = %v, want running", st.Workflow)
	}
	if st.Selection != models.SelectionOpen {
		t.Errorf("Selection = %q, want open", st.Selection)
	}
	want := models.Counters{
		ReviewPending: models.KnownCount(5),
		Open:          models.KnownCount(12),
		Processed:     models.KnownCount(3),
		Failed:        models.KnownCount(1),
	}
	if st.Counters != want {
		t.Errorf("Counters = %+v, want %+v", st.Counters, want)
	}
}

func TestConnectTriggersExactlyOnePull(t *testing.T) {
	client := &fakeAPI{snapshot: scenarioSnapshot()}
	s := newTestSession(t, client)

	msgs := run(s.Handle(EventMsg{Event: push.Connect{}}))
	if got := len(snapshots(msgs)); got != 1 {
		t.Fatalf("pulls after connect = %d, want 1", got)
	}
	if !s.State().Connected {
		t.Error("Connected = false after connect")
	}
	if got := lastLog(s); got.Source != models.SourceSystem || got.Message != ConnectedMessage {
		t.Errorf("last log = %+v", got)
	}
}

func TestDisconnectKeepsWorkflowState(t *testing.T) {
	client := &fakeAPI{}
	s := runningSession(t, client)
	s.Handle(EventMsg{Event: push.Connect{}})
	before := len(s.Logs())

	cmd := s.Handle(EventMsg{Event: push.Disconnect{Err: errors.New("EOF")}})
	if cmd != nil {
		t.Error("disconnect should not issue commands")
	}

	st := s.State()
	if st.Connected {
		t.Error("Connected = true after disconnect")
	}
	if st.Workflow != models.WorkflowRunning || st.Selection != models.SelectionBoth {
		t.Errorf("workflow = %v/%q, want running/both", st.Workflow, st.Selection)
	}
	if got := len(s.Logs()) - before; got != 1 {
		t.Errorf("log entries appended = %d, want 1", got)
	}
	if lastLog(s).Message != DisconnectedMessage {
		t.Errorf("last log = %q", lastLog(s).Message)
	}
}

func TestSnapshotIsIdempotent(t *testing.T) {
	s := newTestSession(t, &fakeAPI{})
	snap := scenarioSnapshot()

	s.Handle(SnapshotMsg{Seq: 1, Snapshot: snap})
	first := s.State()
	s.reconciler.Merge(snap.Update())
	if s.State() != first {
		t.Errorf("state changed on reapply: %+v vs %+v", s.State(), first)
	}
}

func TestStalePullDiscarded(t *testing.T) {
	client := &fakeAPI{}
	s := newTestSession(t, client)

	older := s.pull()
	newer := s.pull()

	client.snapshot = &api.Snapshot{Running: ptr(true), Workflow: ptr("review_pending")}
	newMsg := newer().(SnapshotMsg)
	client.snapshot = &api.Snapshot{Running: ptr(false)}
	oldMsg := older().(SnapshotMsg)

	s.Handle(newMsg)
	s.Handle(oldMsg)

	if st := s.State(); st.Workflow != models.WorkflowRunning || st.Selection != models.SelectionReviewPending {
		t.Errorf("stale pull applied: %+v", st)
	}
}

func TestFailedPullIsSilent(t *testing.T) {
	client := &fakeAPI{statusErr: errors.New("connection refused")}
	s := runningSession(t, client)
	before := s.State()

	for _, m := range run(s.Refresh()) {
		if cmd := s.Handle(m); cmd != nil {
			t.Error("failed pull should not issue commands")
		}
	}
	if s.State() != before {
		t.Error("failed pull mutated state")
	}
	if len(s.Logs()) != 0 {
		t.Errorf("failed pull logged %d entries", len(s.Logs()))
	}
}

func TestPollTickChain(t *testing.T) {
	client := &fakeAPI{snapshot: scenarioSnapshot()}
	s := newTestSession(t, client)

	msgs := run(s.Handle(pollTickMsg{gen: s.gen}))
	if client.count("status") != 1 {
		t.Fatalf("status calls = %d, want 1", client.count("status"))
	}
	var rescheduled bool
	for _, m := range msgs {
		if _, ok := m.(pollTickMsg); ok {
			rescheduled = true
		}
	}
	if !rescheduled {
		t.Error("poll tick was not rescheduled")
	}

	if cmd := s.Handle(pollTickMsg{gen: s.gen - 1}); cmd != nil {
		t.Error("tick from an old generation should be ignored")
	}
}

func TestStartRejectedWhileRunning(t *testing.T) {
	for _, state := range []models.WorkflowState{models.WorkflowRunning, models.WorkflowPaused} {
		t.Run(state.String(), func(t *testing.T) {
			client := &fakeAPI{}
			s := runningSession(t, client)
			if state == models.WorkflowPaused {
				s.reconciler.MarkPaused()
			}

			if cmd := s.StartWorkflow(models.SelectionOpen); cmd != nil {
				run(cmd)
				t.Error("start while active returned a command")
			}
			if client.count("start") != 0 {
				t.Error("start while active made a network call")
			}
			logs := s.Logs()
			if len(logs) != 1 {
				t.Fatalf("log entries = %d, want 1", len(logs))
			}
			if logs[0].Source != models.SourceWarning || !strings.Contains(logs[0].Message, "Workflow already running") {
				t.Errorf("log = %+v", logs[0])
			}
		})
	}
}

func TestStartNoneRejected(t *testing.T) {
	client := &fakeAPI{}
	s := newTestSession(t, client)
	if cmd := s.StartWorkflow(models.SelectionNone); cmd != nil {
		t.Error("start with no selection returned a command")
	}
	if lastLog(s).Severity != models.SeverityError {
		t.Errorf("last log = %+v", lastLog(s))
	}
}

func TestStartIsNotOptimistic(t *testing.T) {
	client := &fakeAPI{message: "Started open workflow", snapshot: &api.Snapshot{Running: ptr(false)}}
	s := newTestSession(t, client)

	msgs := run(s.StartWorkflow(models.SelectionOpen))
	if lastLog(s).Message != "🚀 Starting open workflow..." {
		t.Errorf("last log = %q", lastLog(s).Message)
	}
	if len(msgs) != 1 {
		t.Fatalf("msgs = %d, want 1", len(msgs))
	}

	follow := run(s.Handle(msgs[0]))
	if st := s.State(); st.Workflow != models.WorkflowIdle {
		t.Errorf("Workflow = %v after start ack, want idle until confirmed", st.Workflow)
	}
	if got := lastLog(s); got.Source != models.SourceSuccess || got.Message != "✅ Started open workflow" {
		t.Errorf("last log = %+v", got)
	}
	if len(snapshots(follow)) != 1 {
		t.Error("start response should trigger one pull")
	}

	s.Handle(EventMsg{Event: push.Status{Running: ptr(true), Workflow: ptr("open")}})
	if st := s.State(); st.Workflow != models.WorkflowRunning || st.Selection != models.SelectionOpen {
		t.Errorf("state after status event = %+v", st)
	}
}

func TestOptimisticCommands(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(*Session)
		command func(*Session) tea.Cmd
		want    models.WorkflowState
		wantSel models.Selection
		wantLog string
	}{
		{
			name:    "pause",
			command: func(s *Session) tea.Cmd { return s.PauseWorkflow() },
			want:    models.WorkflowPaused,
			wantSel: models.SelectionBoth,
			wantLog: "⏸️ Workflow paused",
		},
		{
			name:    "resume",
			prepare: func(s *Session) { s.reconciler.MarkPaused() },
			command: func(s *Session) tea.Cmd { return s.ResumeWorkflow() },
			want:    models.WorkflowRunning,
			wantSel: models.SelectionBoth,
			wantLog: "▶️ Workflow resumed",
		},
		{
			name:    "stop",
			command: func(s *Session) tea.Cmd { return s.StopWorkflow(false) },
			want:    models.WorkflowIdle,
			wantSel: models.SelectionNone,
			wantLog: "⏹️ Workflow stopped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeAPI{statusErr: errors.New("unreachable")}
			s := runningSession(t, client)
			if tt.prepare != nil {
				tt.prepare(s)
			}

			msgs := run(tt.command(s))
			if len(msgs) != 1 {
				t.Fatalf("msgs = %d, want 1", len(msgs))
			}
			// The follow-up pull is returned but not yet applied.
			follow := s.Handle(msgs[0])

			st := s.State()
			if st.Workflow != tt.want || st.Selection != tt.wantSel {
				t.Errorf("state = %v/%q, want %v/%q", st.Workflow, st.Selection, tt.want, tt.wantSel)
			}
			if lastLog(s).Message != tt.wantLog {
				t.Errorf("last log = %q, want %q", lastLog(s).Message, tt.wantLog)
			}
			if len(snapshots(run(follow))) != 1 {
				t.Error("command response should trigger one pull")
			}
		})
	}
}

func TestCommandFailure(t *testing.T) {
	client := &fakeAPI{cmdErr: &api.HTTPError{Op: "pause", StatusCode: 400, Message: "No workflow running"}}
	s := runningSession(t, client)

	msgs := run(s.PauseWorkflow())
	follow := run(s.Handle(msgs[0]))

	if st := s.State(); st.Workflow != models.WorkflowRunning {
		t.Errorf("Workflow = %v after failed pause, want running", st.Workflow)
	}
	got := lastLog(s)
	if got.Severity != models.SeverityError || got.Message != "❌ Failed to pause: No workflow running" {
		t.Errorf("last log = %+v", got)
	}
	if len(snapshots(follow)) != 1 {
		t.Error("failed command should still trigger one pull")
	}
}

func TestPushEvents(t *testing.T) {
	s := newTestSession(t, &fakeAPI{})

	s.Handle(EventMsg{Event: push.Log{Message: "Processing complaint 42"}})
	s.Handle(EventMsg{Event: push.Error{Message: "Selenium timeout"}})
	s.Handle(EventMsg{Event: push.Connected{Message: "Connected to automation server"}})
	s.Handle(EventMsg{Event: push.FileCounts{ReviewPending: ptr(4)}})
	s.Handle(EventMsg{Event: push.Stats{Processed: ptr(9), Failed: ptr(0)}})
	s.Handle(EventMsg{Event: push.Status{Running: ptr(true), Paused: ptr(true), Message: "Workflow paused"}})

	logs := s.Logs()
	wantLogs := []struct {
		source  models.LogSource
		message string
	}{
		{models.SourceLog, "Processing complaint 42"},
		{models.SourceError, "❌ Selenium timeout"},
		{models.SourceSystem, "Connected to automation server"},
		{models.SourceStatus, "Workflow paused"},
	}
	if len(logs) != len(wantLogs) {
		t.Fatalf("log entries = %d, want %d", len(logs), len(wantLogs))
	}
	for i, w := range wantLogs {
		if logs[i].Source != w.source || logs[i].Message != w.message {
			t.Errorf("log[%d] = %s %q, want %s %q", i, logs[i].Source, logs[i].Message, w.source, w.message)
		}
	}

	st := s.State()
	if st.Workflow != models.WorkflowPaused || st.Selection != models.SelectionBoth {
		t.Errorf("workflow = %v/%q, want paused/both", st.Workflow, st.Selection)
	}
	if st.Counters.ReviewPending != models.KnownCount(4) || st.Counters.Open.Known {
		t.Errorf("file counts = %+v", st.Counters)
	}
	if st.Counters.Processed != models.KnownCount(9) || st.Counters.Failed != models.KnownCount(0) {
		t.Errorf("stats = %+v", st.Counters)
	}
}

func TestUnknownEventIgnored(t *testing.T) {
	s := runningSession(t, &fakeAPI{})
	before := s.State()

	if cmd := s.Handle(EventMsg{Event: push.Unknown{Event: "progress"}}); cmd != nil {
		t.Error("unknown event returned a command")
	}
	if s.State() != before || len(s.Logs()) != 0 {
		t.Error("unknown event changed the session")
	}
}

func TestCloseMakesLateResultsNoOps(t *testing.T) {
	client := &fakeAPI{snapshot: scenarioSnapshot()}
	ch := newFakeChannel()
	sender := &fakeSender{}
	s := NewSession(Config{API: client, Channel: ch, Sender: sender, PollInterval: time.Hour})

	s.Start()
	emit := <-ch.started
	emit(push.Log{Message: "hello"})

	inflight := s.pull()
	s.Close()
	s.Close()

	select {
	case <-ch.stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("push channel not stopped by Close")
	}

	if got := sender.sent(); len(got) != 1 {
		t.Errorf("sent = %d messages, want 1", len(got))
	}

	before := s.State()
	for _, msg := range []tea.Msg{
		inflight(),
		CommandResultMsg{Command: CommandStop},
		EventMsg{Event: push.Connect{}},
		pollTickMsg{gen: s.gen},
	} {
		if cmd := s.Handle(msg); cmd != nil {
			t.Errorf("late %T returned a command", msg)
		}
	}
	if s.State() != before {
		t.Error("late results mutated state")
	}
	if s.Refresh() != nil || s.PauseWorkflow() != nil || s.Start() != nil {
		t.Error("closed session should not issue commands")
	}
}

func TestClearLog(t *testing.T) {
	s := newTestSession(t, &fakeAPI{})
	s.Handle(EventMsg{Event: push.Log{Message: "a"}})
	s.Handle(EventMsg{Event: push.Log{Message: "b"}})

	s.ClearLog()
	if n := len(s.Logs()); n != 1 {
		t.Fatalf("entries after clear = %d, want 1", n)
	}
	if got := s.LogsSince(0); len(got) != 1 || got[0].Seq != 3 {
		t.Errorf("LogsSince(0) = %+v", got)
	}
}
