// Package api is the JSON-over-HTTP client for the automation server's
// status and control endpoints.
package api

import "github.com/ndnc-automation/ndncctl/internal/models"

// Snapshot is the body of GET /api/status. Pointer fields distinguish "not
// reported" from zero so that a merge only overwrites what was carried.
type Snapshot struct {
	Running    *bool       `json:"running"`
	Paused     *bool       `json:"paused"`
	Workflow   *string     `json:"workflow"`
	FileCounts *FileCounts `json:"file_counts"`
	Stats      *Stats      `json:"stats"`
}

// FileCounts reports how many files wait in each input folder.
type FileCounts struct {
	ReviewPending *int `json:"review_pending"`
	Open          *int `json:"open"`
}

// Stats reports cumulative processing results.
type Stats struct {
	Processed *int `json:"processed"`
	Failed    *int `json:"failed"`
}

// Update converts the snapshot into a merge unit.
func (s *Snapshot) Update() models.StatusUpdate {
	var u models.StatusUpdate
	if s == nil {
		return u
	}
	if s.Running != nil {
		u = models.WorkflowUpdate(*s.Running, s.Paused, s.Workflow)
	}
	if s.FileCounts != nil {
		u.ReviewPending = s.FileCounts.ReviewPending
		u.Open = s.FileCounts.Open
	}
	if s.Stats != nil {
		u.Processed = s.Stats.Processed
		u.Failed = s.Stats.Failed
	}
	return u
}

// Health is the body of GET /health.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type startRequest struct {
	Workflow models.Selection `json:"workflow"`
}

type stopRequest struct {
	Shutdown bool `json:"shutdown"`
}

// commandResponse covers both the success and error bodies of the control
// endpoints.
type commandResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
