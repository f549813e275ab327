package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

// ServerURLEnv overrides server.url from the settings file.
const ServerURLEnv = "NDNC_SERVER_URL"

// LoadSettings loads ~/.ndncctl/settings.yaml over the defaults and applies
// the environment override. If the file doesn't exist, the defaults are
// returned.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	settings.ApplyDefaults()

	if v := strings.TrimSpace(os.Getenv(ServerURLEnv)); v != "" {
		settings.Server.URL = v
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings saves the settings to ~/.ndncctl/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// ValidateSettings checks values a settings file can get wrong.
func ValidateSettings(s *models.Settings) error {
	u, err := url.Parse(s.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.url must be an http(s) URL, got %q", s.Server.URL)
	}
	switch s.Server.PushProtocol {
	case models.PushProtocolSocketIO, models.PushProtocolJSON:
	default:
		return fmt.Errorf("server.push_protocol must be %q or %q, got %q",
			models.PushProtocolSocketIO, models.PushProtocolJSON, s.Server.PushProtocol)
	}
	switch s.Server.StopContract {
	case models.StopContractShutdownFlag, models.StopContractEmptyBody:
	default:
		return fmt.Errorf("server.stop_contract must be %q or %q, got %q",
			models.StopContractShutdownFlag, models.StopContractEmptyBody, s.Server.StopContract)
	}
	if _, err := ParseLevel(s.Logging.Level); err != nil {
		return err
	}
	return nil
}

type settingField struct {
	get func(*models.Settings) string
	set func(*models.Settings, string) error
}

func stringField(p func(*models.Settings) *string) settingField {
	return settingField{
		get: func(s *models.Settings) string { return *p(s) },
		set: func(s *models.Settings, v string) error {
			*p(s) = v
			return nil
		},
	}
}

func durationField(p func(*models.Settings) *time.Duration) settingField {
	return settingField{
		get: func(s *models.Settings) string { return p(s).String() },
		set: func(s *models.Settings, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return fmt.Errorf("expected a positive duration such as 10s, got %q", v)
			}
			*p(s) = d
			return nil
		},
	}
}

var settingFields = map[string]settingField{
	"server.url":           stringField(func(s *models.Settings) *string { return &s.Server.URL }),
	"server.push_protocol": stringField(func(s *models.Settings) *string { return &s.Server.PushProtocol }),
	"server.push_path":     stringField(func(s *models.Settings) *string { return &s.Server.PushPath }),
	"server.stop_contract": stringField(func(s *models.Settings) *string { return &s.Server.StopContract }),
	"polling.interval":     durationField(func(s *models.Settings) *time.Duration { return &s.Polling.Interval }),
	"polling.timeout":      durationField(func(s *models.Settings) *time.Duration { return &s.Polling.Timeout }),
	"reconnect.initial_interval": durationField(func(s *models.Settings) *time.Duration {
		return &s.Reconnect.InitialInterval
	}),
	"reconnect.max_interval": durationField(func(s *models.Settings) *time.Duration {
		return &s.Reconnect.MaxInterval
	}),
	"console.max_entries": {
		get: func(s *models.Settings) string { return strconv.Itoa(s.Console.MaxEntries) },
		set: func(s *models.Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("expected a positive integer, got %q", v)
			}
			s.Console.MaxEntries = n
			return nil
		},
	},
	"console.save_on_exit": {
		get: func(s *models.Settings) string { return strconv.FormatBool(s.Console.SaveOnExit) },
		set: func(s *models.Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			s.Console.SaveOnExit = b
			return nil
		},
	},
	"logging.level": stringField(func(s *models.Settings) *string { return &s.Logging.Level }),
}

// SettingKeys returns the dotted keys accepted by GetSetting and SetSetting.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingFields))
	for k := range settingFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetSetting returns the value of a dotted key such as "polling.interval".
func GetSetting(s *models.Settings, key string) (string, error) {
	f, ok := settingFields[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	return f.get(s), nil
}

// SetSetting parses value into the dotted key and validates the result.
func SetSetting(s *models.Settings, key, value string) error {
	f, ok := settingFields[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	updated := *s
	if err := f.set(&updated, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := ValidateSettings(&updated); err != nil {
		return err
	}
	*s = updated
	return nil
}
