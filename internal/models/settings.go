package models

import "time"

// Push channel protocols.
const (
	PushProtocolSocketIO = "socketio"
	PushProtocolJSON     = "json"
)

// Stop command body contracts.
const (
	StopContractShutdownFlag = "shutdown_flag" // {"shutdown": false}
	StopContractEmptyBody    = "empty_body"    // legacy servers
)

// ServerConfig holds where and how to reach the automation server.
type ServerConfig struct {
	URL          string `yaml:"url"`
	PushProtocol string `yaml:"push_protocol"` // "socketio" | "json"
	PushPath     string `yaml:"push_path"`
	StopContract string `yaml:"stop_contract"` // "shutdown_flag" | "empty_body"
}

// PollingConfig holds settings for the snapshot poll timer.
type PollingConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ReconnectConfig holds push channel retry settings.
type ReconnectConfig struct {
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
}

// ConsoleConfig holds settings for the console log buffer.
type ConsoleConfig struct {
	MaxEntries int  `yaml:"max_entries"`
	SaveOnExit bool `yaml:"save_on_exit"`
}

// LoggingConfig holds diagnostics settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// Settings represents global client settings.
// This corresponds to ~/.ndncctl/settings.yaml.
type Settings struct {
	Version   int             `yaml:"version"`
	Server    ServerConfig    `yaml:"server"`
	Polling   PollingConfig   `yaml:"polling"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
	Console   ConsoleConfig   `yaml:"console"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Server: ServerConfig{
			URL:          "http://localhost:5000",
			PushProtocol: PushProtocolSocketIO,
			PushPath:     "/socket.io/",
			StopContract: StopContractShutdownFlag,
		},
		Polling: PollingConfig{
			Interval: 10 * time.Second,
			Timeout:  10 * time.Second,
		},
		Reconnect: ReconnectConfig{
			InitialInterval: time.Second,
			MaxInterval:     30 * time.Second,
		},
		Console: ConsoleConfig{
			MaxEntries: 1000,
			SaveOnExit: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills zero values left by a partial settings file.
func (s *Settings) ApplyDefaults() {
	def := NewSettings()
	if s.Version == 0 {
		s.Version = def.Version
	}
	if s.Server.URL == "" {
		s.Server.URL = def.Server.URL
	}
	if s.Server.PushProtocol == "" {
		s.Server.PushProtocol = def.Server.PushProtocol
	}
	if s.Server.PushPath == "" {
		s.Server.PushPath = def.Server.PushPath
	}
	if s.Server.StopContract == "" {
		s.Server.StopContract = def.Server.StopContract
	}
	if s.Polling.Interval <= 0 {
		s.Polling.Interval = def.Polling.Interval
	}
	if s.Polling.Timeout <= 0 {
		s.Polling.Timeout = s.Polling.Interval
	}
	if s.Reconnect.InitialInterval <= 0 {
		s.Reconnect.InitialInterval = def.Reconnect.InitialInterval
	}
	if s.Reconnect.MaxInterval <= 0 {
		s.Reconnect.MaxInterval = def.Reconnect.MaxInterval
	}
	if s.Console.MaxEntries <= 0 {
		s.Console.MaxEntries = def.Console.MaxEntries
	}
	if s.Logging.Level == "" {
		s.Logging.Level = def.Logging.Level
	}
}
