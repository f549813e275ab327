package dashboard

import "github.com/ndnc-automation/ndncctl/internal/models"

// Reconciler owns the DashboardState. All mutations go through Merge or
// one of the optimistic Mark methods.
type Reconciler struct {
	state models.DashboardState
}

// NewReconciler returns a reconciler with all-unknown defaults.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// State returns a copy of the current state.
func (r *Reconciler) State() models.DashboardState {
	return r.state
}

// SetConnected records the push channel state.
func (r *Reconciler) SetConnected(connected bool) {
	r.state.Connected = connected
}

// Merge overwrites exactly the fields u carries. Applying the same update
// twice yields the same state.
func (r *Reconciler) Merge(u models.StatusUpdate) {
	switch {
	case u.Running != nil:
		r.mergeWorkflow(*u.Running, u.Paused != nil && *u.Paused, u.Workflow)
	case r.state.Workflow.Active():
		if u.Paused != nil {
			r.state.Workflow = models.WorkflowRunning
			if *u.Paused {
				r.state.Workflow = models.WorkflowPaused
			}
		}
		if u.Workflow != nil && *u.Workflow != models.SelectionNone {
			r.state.Selection = *u.Workflow
		}
	}

	c := &r.state.Counters
	setCount(&c.ReviewPending, u.ReviewPending)
	setCount(&c.Open, u.Open)
	setCount(&c.Processed, u.Processed)
	setCount(&c.Failed, u.Failed)
}

func (r *Reconciler) mergeWorkflow(running, paused bool, workflow *models.Selection) {
	if !running {
		r.state.Workflow = models.WorkflowIdle
		r.state.Selection = models.SelectionNone
		return
	}

	r.state.Workflow = models.WorkflowRunning
	if paused {
		r.state.Workflow = models.WorkflowPaused
	}

	switch {
	case workflow != nil && *workflow != models.SelectionNone:
		r.state.Selection = *workflow
	case r.state.Selection == models.SelectionNone:
		// Running with no reported selection: the server defaults to both.
		r.state.Selection = models.SelectionBoth
	}
}

func setCount(dst *models.Count, v *int) {
	if v != nil {
		*dst = models.KnownCount(*v)
	}
}

// MarkPaused optimistically moves Running to Paused. It reports whether
// the state changed.
func (r *Reconciler) MarkPaused() bool {
	if r.state.Workflow != models.WorkflowRunning {
		return false
	}
	r.state.Workflow = models.WorkflowPaused
	return true
}

// MarkResumed optimistically moves Paused back to Running.
func (r *Reconciler) MarkResumed() bool {
	if r.state.Workflow != models.WorkflowPaused {
		return false
	}
	r.state.Workflow = models.WorkflowRunning
	return true
}

// MarkStopped optimistically moves to Idle and clears the selection.
func (r *Reconciler) MarkStopped() {
	r.state.Workflow = models.WorkflowIdle
	r.state.Selection = models.SelectionNone
}
