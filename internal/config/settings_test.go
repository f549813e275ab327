package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

func withHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	t.Setenv(ServerURLEnv, "")
	return dir
}

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	withHome(t)

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Server.URL != "http://localhost:5000" {
		t.Errorf("URL = %q", s.Server.URL)
	}
	if s.Polling.Interval != 10*time.Second || s.Polling.Timeout != 10*time.Second {
		t.Errorf("polling = %+v", s.Polling)
	}
	if s.Server.StopContract != models.StopContractShutdownFlag {
		t.Errorf("StopContract = %q", s.Server.StopContract)
	}
}

func TestLoadSettingsPartialFile(t *testing.T) {
	dir := withHome(t)
	writeSettings(t, dir, `
server:
  url: http://ndnc.internal:8080
  push_protocol: json
polling:
  interval: 3s
`)

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Server.URL != "http://ndnc.internal:8080" || s.Server.PushProtocol != models.PushProtocolJSON {
		t.Errorf("server = %+v", s.Server)
	}
	if s.Polling.Interval != 3*time.Second {
		t.Errorf("Interval = %v, want 3s", s.Polling.Interval)
	}
	if s.Polling.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want the default", s.Polling.Timeout)
	}
	if s.Console.MaxEntries != 1000 {
		t.Errorf("MaxEntries = %d, want default 1000", s.Console.MaxEntries)
	}
}

func TestLoadSettingsEnvOverride(t *testing.T) {
	dir := withHome(t)
	writeSettings(t, dir, "server:\n  url: http://from-file:5000\n")
	t.Setenv(ServerURLEnv, "https://from-env")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Server.URL != "https://from-env" {
		t.Errorf("URL = %q, want env override", s.Server.URL)
	}
}

func TestLoadSettingsRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "server:\n  uri: http://x\n"},
		{"bad protocol", "server:\n  push_protocol: grpc\n"},
		{"bad contract", "server:\n  stop_contract: always\n"},
		{"bad duration", "polling:\n  interval: soon\n"},
		{"bad level", "logging:\n  level: chatty\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := withHome(t)
			writeSettings(t, dir, tt.content)
			if _, err := LoadSettings(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	withHome(t)

	s := models.NewSettings()
	s.Server.URL = "http://10.0.0.5:5000"
	s.Reconnect.MaxInterval = time.Minute
	if err := SaveSettings(s); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	loaded, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if *loaded != *s {
		t.Errorf("loaded = %+v, want %+v", loaded, s)
	}
}

func TestSetSetting(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"server.url", "https://ndnc.example.com", false},
		{"server.url", "ndnc.example.com", true},
		{"server.stop_contract", models.StopContractEmptyBody, false},
		{"polling.interval", "5s", false},
		{"polling.interval", "-5s", true},
		{"console.max_entries", "200", false},
		{"console.max_entries", "zero", true},
		{"console.save_on_exit", "true", false},
		{"logging.level", "debug", false},
		{"no.such.key", "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := models.NewSettings()
			before := *s
			err := SetSetting(s, tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if *s != before {
					t.Error("failed SetSetting modified settings")
				}
				return
			}
			if err != nil {
				t.Fatalf("SetSetting: %v", err)
			}
			got, err := GetSetting(s, tt.key)
			if err != nil {
				t.Fatalf("GetSetting: %v", err)
			}
			if got != tt.value {
				t.Errorf("GetSetting = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestSettingKeysSorted(t *testing.T) {
	keys := SettingKeys()
	if len(keys) != len(settingFields) {
		t.Fatalf("keys = %d, want %d", len(keys), len(settingFields))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("keys not sorted: %q before %q", keys[i-1], keys[i])
		}
	}
}
