package tui

import "github.com/ndnc-automation/ndncctl/internal/models"

// ConsoleExportedMsg signals the console was written to disk.
type ConsoleExportedMsg struct {
	Export *models.ConsoleExport
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the error display.
type ClearErrorMsg struct{}

// ClearSavedMsg clears the saved indicator.
type ClearSavedMsg struct{}
