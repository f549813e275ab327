package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ndnc-automation/ndncctl/internal/dashboard"
	"github.com/ndnc-automation/ndncctl/internal/models"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream the workflow console and state to stdout",
	Long: `Connect to the server and print every console entry and state change
until interrupted. Diagnostics go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

// watchModel drives a session without a renderer and prints what changed
// after every message.
type watchModel struct {
	session *dashboard.Session
	out     io.Writer

	lastSeq   uint64
	state     models.DashboardState
	haveState bool
}

func newWatchModel(session *dashboard.Session, out io.Writer) *watchModel {
	return &watchModel{session: session, out: out}
}

func (m *watchModel) Init() tea.Cmd {
	return m.session.Start()
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.session.Handle(msg)
	m.flush()
	return m, cmd
}

func (m *watchModel) View() string {
	return ""
}

func (m *watchModel) flush() {
	for _, e := range m.session.LogsSince(m.lastSeq) {
		fmt.Fprintln(m.out, severityStyle(e.Severity).Render(e.Line()))
		m.lastSeq = e.Seq
	}

	state := m.session.State()
	if m.haveState && state == m.state {
		return
	}
	m.state = state
	m.haveState = true
	fmt.Fprintln(m.out, formatState(state))
}

func formatState(s models.DashboardState) string {
	conn := "disconnected"
	if s.Connected {
		conn = "connected"
	}
	c := s.Counters
	return styleLabel.Render(fmt.Sprintf("state: %s · %s · review_pending=%s open=%s processed=%s failed=%s",
		workflowLabel(s), conn, c.ReviewPending, c.Open, c.Processed, c.Failed))
}

func workflowLabel(s models.DashboardState) string {
	if s.Workflow == models.WorkflowIdle {
		return s.Workflow.String()
	}
	return s.Workflow.String() + " (" + s.Selection.Label() + ")"
}

func runWatch(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	logger := stderrLogger(settings)

	ref := &dashboard.ProgramRef{}
	cfg, err := newSessionConfig(settings, ref, logger)
	if err != nil {
		return err
	}
	session := dashboard.NewSession(cfg)

	ctx, stop := interruptContext()
	defer stop()

	p := tea.NewProgram(
		newWatchModel(session, os.Stdout),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	ref.Set(p)

	_, err = p.Run()
	session.Close()
	ref.Clear()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
