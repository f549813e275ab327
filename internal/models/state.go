package models

import "strconv"

// WorkflowState is the coarse operational state of the remote workflow.
type WorkflowState int

const (
	WorkflowIdle WorkflowState = iota
	WorkflowRunning
	WorkflowPaused
)

func (s WorkflowState) String() string {
	switch s {
	case WorkflowRunning:
		return "running"
	case WorkflowPaused:
		return "paused"
	default:
		return "idle"
	}
}

// Active reports whether the server considers the workflow running.
// A paused workflow is still running server-side.
func (s WorkflowState) Active() bool {
	return s == WorkflowRunning || s == WorkflowPaused
}

// Selection is the set of folders a workflow run drains.
type Selection string

const (
	SelectionNone          Selection = ""
	SelectionReviewPending Selection = "review_pending"
	SelectionOpen          Selection = "open"
	SelectionBoth          Selection = "both"
)

// ParseSelection maps a wire name to a Selection. Unrecognized names map to
// SelectionNone with ok=false.
func ParseSelection(s string) (Selection, bool) {
	switch Selection(s) {
	case SelectionReviewPending, SelectionOpen, SelectionBoth:
		return Selection(s), true
	case SelectionNone:
		return SelectionNone, true
	}
	return SelectionNone, false
}

// Label returns a human-readable name.
func (s Selection) Label() string {
	switch s {
	case SelectionReviewPending:
		return "Review Pending"
	case SelectionOpen:
		return "Open"
	case SelectionBoth:
		return "Both"
	default:
		return "None"
	}
}

// Count is a counter value that may not have been reported yet.
type Count struct {
	Value int
	Known bool
}

// KnownCount returns a Count holding v.
func KnownCount(v int) Count {
	return Count{Value: v, Known: true}
}

func (c Count) String() string {
	if !c.Known {
		return "-"
	}
	return strconv.Itoa(c.Value)
}

// Counters holds the file and processing counters shown on the dashboard.
type Counters struct {
	ReviewPending Count
	Open          Count
	Processed     Count
	Failed        Count
}

// DashboardState is the canonical client-side view of the workflow.
type DashboardState struct {
	Connected bool
	Workflow  WorkflowState
	Selection Selection
	Counters  Counters
}

// StatusUpdate carries the fields one update source reports. Nil fields are
// not carried and leave the corresponding state untouched.
type StatusUpdate struct {
	Running  *bool
	Paused   *bool
	Workflow *Selection

	ReviewPending *int
	Open          *int
	Processed     *int
	Failed        *int
}

// CarriesWorkflow reports whether the update touches the workflow fields.
func (u StatusUpdate) CarriesWorkflow() bool {
	return u.Running != nil || u.Paused != nil || u.Workflow != nil
}

// WorkflowUpdate builds the workflow part of an update from wire fields. A
// missing paused flag means not paused and a null workflow means no
// selection, as the server reports them.
func WorkflowUpdate(running bool, paused *bool, workflow *string) StatusUpdate {
	p := paused != nil && *paused
	sel := SelectionNone
	if workflow != nil {
		sel, _ = ParseSelection(*workflow)
	}
	return StatusUpdate{
		Running:  &running,
		Paused:   &p,
		Workflow: &sel,
	}
}
