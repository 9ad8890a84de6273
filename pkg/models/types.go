package models

import "time"

// RunStatus represents the lifecycle state of a simulation run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Run is the bookkeeping record for one scenario-set execution.
// The epidemic outputs themselves (trajectories, summaries, comparison)
// live in the store record; Run carries only lifecycle metadata.
type Run struct {
	ID        string        `json:"id"`
	Scenarios []string      `json:"scenarios"`
	Status    RunStatus     `json:"status"`
	Seed      int64         `json:"seed"`
	Days      int           `json:"days"`
	CreatedAt time.Time     `json:"created_at"`
	StartedAt time.Time     `json:"started_at,omitzero"`
	EndedAt   time.Time     `json:"ended_at,omitzero"`
	Duration  time.Duration `json:"duration,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// Terminal reports whether the run has reached a final status
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}
