// Package config handles settings loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the client directory under $HOME.
	GlobalDirName = ".ndncctl"

	// LogsDirName is the name of the logs directory.
	LogsDirName = "logs"

	// ConsoleDirName holds console exports, under the logs directory.
	ConsoleDirName = "console"

	// HomeEnv overrides the client directory.
	HomeEnv = "NDNCCTL_HOME"
)

// File names
const (
	SettingsFileName    = "settings.yaml"
	DiagnosticsFileName = "ndncctl.log"
)

// GlobalDir returns the path to the client directory (~/.ndncctl/).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// GlobalLogsDir returns the path to the logs directory.
func GlobalLogsDir() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogsDirName), nil
}

// DiagnosticsFile returns the path of the diagnostics log used while the
// dashboard owns the terminal.
func DiagnosticsFile() (string, error) {
	dir, err := GlobalLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DiagnosticsFileName), nil
}

// ConsoleDir returns the path to the console export directory.
func ConsoleDir() (string, error) {
	dir, err := GlobalLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConsoleDirName), nil
}

// EnsureGlobalLogsDir creates the logs directory if it doesn't exist.
func EnsureGlobalLogsDir() error {
	dir, err := GlobalLogsDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// EnsureConsoleDir creates the console export directory if it doesn't exist.
func EnsureConsoleDir() error {
	dir, err := ConsoleDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
