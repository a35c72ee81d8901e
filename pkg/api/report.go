package api

import (
	"time"
)

// Outcome is the result of reconciling one resource.
type Outcome string

// Outcomes reported back for every resource in a pass.
const (
	// OutcomeApplied means at least one mutating command ran.
	OutcomeApplied Outcome = "applied"
	// OutcomeUnchanged means no command ran, either because the resource
	// was already converged or because a gate suppressed the change.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeFailed means the resource could not be converged.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means a resource this one depends on failed.
	OutcomeSkipped Outcome = "skipped"
)

// Result is what a reconciler hands back for a single resource.
type Result struct {
	Outcome Outcome `json:"outcome"`
	// Reason explains an unchanged outcome that wasn't a plain no-op.
	Reason string `json:"reason,omitempty"`
}

// ResourceReport is the per-resource entry of a Report.
type ResourceReport struct {
	Kind    string  `json:"kind"`
	Name    string  `json:"name"`
	Desired Ensure  `json:"desired"`
	Current Ensure  `json:"current"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Report summarises one reconciliation pass.
type Report struct {
	ID        string           `json:"id"`
	Started   time.Time        `json:"started"`
	Finished  time.Time        `json:"finished"`
	Resources []ResourceReport `json:"resources"`
}

// Failed returns true if any resource failed.
func (r *Report) Failed() bool {
	for _, rr := range r.Resources {
		if rr.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Count returns how many resources ended with the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, rr := range r.Resources {
		if rr.Outcome == o {
			n++
		}
	}
	return n
}
