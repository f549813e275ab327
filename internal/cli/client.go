package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/ndnc-automation/ndncctl/internal/api"
	"github.com/ndnc-automation/ndncctl/internal/config"
	"github.com/ndnc-automation/ndncctl/internal/dashboard"
	"github.com/ndnc-automation/ndncctl/internal/models"
	"github.com/ndnc-automation/ndncctl/internal/push"
)

// loadSettings loads the settings file and applies the persistent flags.
func loadSettings() (*models.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	if flagServer != "" {
		settings.Server.URL = flagServer
	}
	if flagLogLevel != "" {
		settings.Logging.Level = flagLogLevel
	}
	if err := config.ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// stderrLogger returns the diagnostics logger for plain CLI commands.
func stderrLogger(settings *models.Settings) *slog.Logger {
	level, _ := config.ParseLevel(settings.Logging.Level)
	return config.NewLogger(os.Stderr, level, term.IsTerminal(int(os.Stderr.Fd())))
}

func newAPIClient(settings *models.Settings) (*api.Client, error) {
	client, err := api.New(settings.Server.URL, api.WithStopContract(settings.Server.StopContract))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// newSessionConfig wires a dashboard session to the configured server.
func newSessionConfig(settings *models.Settings, sender dashboard.Sender, logger *slog.Logger) (dashboard.Config, error) {
	client, err := newAPIClient(settings)
	if err != nil {
		return dashboard.Config{}, err
	}

	id := uuid.NewString()
	ch, err := push.NewChannel(push.Config{
		ServerURL:       settings.Server.URL,
		Protocol:        settings.Server.PushProtocol,
		Path:            settings.Server.PushPath,
		ClientID:        id,
		InitialInterval: settings.Reconnect.InitialInterval,
		MaxInterval:     settings.Reconnect.MaxInterval,
		Logger:          logger,
	})
	if err != nil {
		return dashboard.Config{}, fmt.Errorf("failed to create push channel: %w", err)
	}

	return dashboard.Config{
		ID:           id,
		API:          client,
		Channel:      ch,
		Sender:       sender,
		PollInterval: settings.Polling.Interval,
		PullTimeout:  settings.Polling.Timeout,
		MaxEntries:   settings.Console.MaxEntries,
		Logger:       logger,
	}, nil
}

// interruptContext is cancelled on SIGINT or SIGTERM.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
