package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

const headerDelim = "---"

// WriteConsoleExport saves console entries to disk as a YAML header
// followed by one line per entry.
func WriteConsoleExport(sessionID, server string, entries []models.LogEntry) (*models.ConsoleExport, error) {
	if err := EnsureConsoleDir(); err != nil {
		return nil, fmt.Errorf("failed to ensure console dir: %w", err)
	}
	dir, err := ConsoleDir()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	export := &models.ConsoleExport{
		ExportID:  now.Format("2006-01-02T15-04-05") + "-" + uuid.NewString()[:8],
		SessionID: sessionID,
		Server:    server,
		Entries:   len(entries),
		SavedAt:   now.Format(time.RFC3339),
	}

	header, err := yaml.Marshal(export)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export header: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, export.ExportID+".log"))
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, headerDelim)
	w.Write(header)
	fmt.Fprintln(w, headerDelim)
	for _, e := range entries {
		fmt.Fprintln(w, e.Line())
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	return export, nil
}

// ListConsoleExports returns the metadata of all saved exports, newest first.
func ListConsoleExports() ([]*models.ConsoleExport, error) {
	dir, err := ConsoleDir()
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var exports []*models.ConsoleExport
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		export, _, err := parseConsoleExport(data)
		if err != nil {
			continue
		}
		if export.ExportID == "" {
			export.ExportID = strings.TrimSuffix(e.Name(), ".log")
		}
		exports = append(exports, export)
	}

	sort.Slice(exports, func(i, j int) bool {
		return exports[i].SavedAt > exports[j].SavedAt
	})
	return exports, nil
}

// ReadConsoleExport reads one export and returns its metadata and lines.
func ReadConsoleExport(exportID string) (*models.ConsoleExport, string, error) {
	if exportID == "" || strings.ContainsAny(exportID, `/\`) {
		return nil, "", fmt.Errorf("invalid export id %q", exportID)
	}
	dir, err := ConsoleDir()
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(filepath.Join(dir, exportID+".log"))
	if err != nil {
		return nil, "", fmt.Errorf("export not found: %w", err)
	}
	export, body, err := parseConsoleExport(data)
	if err != nil {
		return nil, "", err
	}
	return export, body, nil
}

func parseConsoleExport(data []byte) (*models.ConsoleExport, string, error) {
	delim := []byte(headerDelim + "\n")
	if !bytes.HasPrefix(data, delim) {
		return nil, "", fmt.Errorf("invalid export format")
	}
	rest := data[len(delim):]
	end := bytes.Index(rest, append([]byte("\n"), delim...))
	if end < 0 {
		return nil, "", fmt.Errorf("invalid export format")
	}

	var export models.ConsoleExport
	if err := yaml.Unmarshal(rest[:end+1], &export); err != nil {
		return nil, "", fmt.Errorf("invalid export header: %w", err)
	}
	return &export, string(rest[end+1+len(delim):]), nil
}
