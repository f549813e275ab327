package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ndnc-automation/ndncctl/internal/config"
	"github.com/ndnc-automation/ndncctl/internal/dashboard"
	"github.com/ndnc-automation/ndncctl/internal/models"
)

const (
	minWidth  = 60
	minHeight = 16
)

// Options configures the dashboard TUI.
type Options struct {
	Server     string
	SaveOnExit bool
	Logger     *slog.Logger
}

// Model is the root Bubbletea model for the dashboard. It renders a
// dashboard.Session and forwards everything it does not own to it.
type Model struct {
	session *dashboard.Session
	program *dashboard.ProgramRef
	server  string
	logger  *slog.Logger

	saveOnExit bool

	// UI state
	activeOverlay int
	confirmMode   int
	width         int
	height        int

	// Status display
	err         error
	savedExport string

	console *ConsoleView
}

// NewModel creates the dashboard model around session.
func NewModel(session *dashboard.Session, program *dashboard.ProgramRef, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		session:    session,
		program:    program,
		server:     opts.Server,
		logger:     logger,
		saveOnExit: opts.SaveOnExit,
		console:    NewConsoleView(),
	}
}

// Init starts the session.
func (m Model) Init() tea.Cmd {
	return m.session.Start()
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// ── Window resize ──────────────────────────────────────────────
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	// ── Key events ─────────────────────────────────────────────────
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.syncConsole()
		return m, cmd

	// ── Status display ─────────────────────────────────────────────
	case ConsoleExportedMsg:
		m.savedExport = msg.Export.ExportID
		return m, clearSavedAfter(3 * time.Second)

	case ErrorMsg:
		m.err = msg.Err
		return m, clearErrorAfter(5 * time.Second)

	case ClearErrorMsg:
		m.err = nil
		return m, nil

	case ClearSavedMsg:
		m.savedExport = ""
		return m, nil
	}

	// ── Session traffic ────────────────────────────────────────────
	cmd := m.session.Handle(msg)
	m.syncConsole()
	return m, cmd
}

func (m *Model) syncConsole() {
	m.console.Sync(m.session.Logs(), m.session.LastLogSeq())
}

// ── Key handling ─────────────────────────────────────────────────

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Confirm mode captures everything
	if m.confirmMode != confirmNone {
		return m.handleConfirmKey(msg)
	}

	if m.activeOverlay != overlayNone {
		if msg.Type == tea.KeyCtrlC {
			return m.doQuit()
		}
		if key.Matches(msg, overlayKeys.Close) {
			m.activeOverlay = overlayNone
		}
		return nil
	}

	switch {
	case key.Matches(msg, globalKeys.Quit):
		return m.doQuit()

	case key.Matches(msg, globalKeys.Help):
		m.activeOverlay = overlayHelp
		return nil

	case key.Matches(msg, workflowKeys.StartReview):
		return m.session.StartWorkflow(models.SelectionReviewPending)
	case key.Matches(msg, workflowKeys.StartOpen):
		return m.session.StartWorkflow(models.SelectionOpen)
	case key.Matches(msg, workflowKeys.StartBoth):
		return m.session.StartWorkflow(models.SelectionBoth)
	case key.Matches(msg, workflowKeys.Pause):
		return m.session.PauseWorkflow()
	case key.Matches(msg, workflowKeys.Resume):
		return m.session.ResumeWorkflow()
	case key.Matches(msg, workflowKeys.Stop):
		m.confirmMode = confirmStop
		return nil
	case key.Matches(msg, workflowKeys.Shutdown):
		m.confirmMode = confirmShutdown
		return nil
	case key.Matches(msg, workflowKeys.Refresh):
		return m.session.Refresh()

	case key.Matches(msg, consoleKeys.Clear):
		m.session.ClearLog()
		return nil
	case key.Matches(msg, consoleKeys.Export):
		return exportConsoleCmd(m.session.ID(), m.server, m.session.Logs())
	case key.Matches(msg, consoleKeys.Up):
		m.console.ScrollUp()
	case key.Matches(msg, consoleKeys.Down):
		m.console.ScrollDown()
	case key.Matches(msg, consoleKeys.PageUp):
		m.console.PageUp()
	case key.Matches(msg, consoleKeys.PageDown):
		m.console.PageDown()
	case key.Matches(msg, consoleKeys.Bottom):
		m.console.GotoBottom()
	}
	return nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	mode := m.confirmMode
	switch {
	case key.Matches(msg, confirmKeys.Yes):
		m.confirmMode = confirmNone
		return m.session.StopWorkflow(mode == confirmShutdown)
	case key.Matches(msg, confirmKeys.No), key.Matches(msg, confirmKeys.Cancel):
		m.confirmMode = confirmNone
	case msg.Type == tea.KeyCtrlC:
		return m.doQuit()
	}
	return nil
}

// doQuit tears the session down. The remote workflow is left as it is.
func (m *Model) doQuit() tea.Cmd {
	m.session.Close()
	m.program.Clear()
	if m.saveOnExit && len(m.session.Logs()) > 0 {
		export, err := config.WriteConsoleExport(m.session.ID(), m.server, m.session.Logs())
		if err != nil {
			m.logger.Warn("failed to save console on exit", "error", err)
		} else {
			m.logger.Info("console saved", "export", export.ExportID)
		}
	}
	return tea.Quit
}

// ── Layout ───────────────────────────────────────────────────────

func (m *Model) consoleHeight() int {
	h := m.height - headerHeight - cardsHeight - statusBarHeight
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) updateDimensions() {
	// Border on each side, plus the panel title row.
	m.console.SetSize(m.width-2, m.consoleHeight()-3)
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width < minWidth || m.height < minHeight {
		sizeStr := fmt.Sprintf("%dx%d", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorYellow).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				"Terminal too small",
				lipgloss.NewStyle().Foreground(colorDim).Render(
					fmt.Sprintf("Need %dx%d, have ", minWidth, minHeight)+lipgloss.NewStyle().Bold(true).Render(sizeStr),
				),
			))
	}

	state := m.session.State()
	view := lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.server, state, m.width),
		renderCounters(state.Counters, m.width),
		renderConsolePanel(fmt.Sprintf("Console (%d)", m.console.Len()), m.console.View(), m.width, m.consoleHeight()),
		renderStatusBar(&m, m.width),
	)

	if m.activeOverlay == overlayHelp {
		return renderOverlay(view, renderHelp(m.width), m.width, m.height)
	}
	return view
}
