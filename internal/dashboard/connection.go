package dashboard

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnc-automation/ndncctl/internal/logbuf"
	"github.com/ndnc-automation/ndncctl/internal/models"
)

const (
	ConnectedMessage    = "✅ Connected to NDNC Automation Server"
	DisconnectedMessage = "❌ Disconnected from server"
)

// ConnectionManager reacts to push channel edges. Retrying is left to the
// transport.
type ConnectionManager struct {
	state   *Reconciler
	logs    *logbuf.Buffer
	refresh func() tea.Cmd
	logger  *slog.Logger
}

// HandleConnect marks the channel up and returns exactly one pull, since
// anything pushed across the reconnect may have been lost.
func (m *ConnectionManager) HandleConnect() tea.Cmd {
	m.state.SetConnected(true)
	m.logs.Append(models.SourceSystem, ConnectedMessage, models.SeveritySuccess)
	m.logger.Debug("push channel connected")
	return m.refresh()
}

// HandleDisconnect marks the channel down. The last known workflow state
// and counters are kept.
func (m *ConnectionManager) HandleDisconnect(err error) {
	m.state.SetConnected(false)
	m.logs.Append(models.SourceSystem, DisconnectedMessage, models.SeverityWarning)
	m.logger.Debug("push channel disconnected", "error", err)
}
