package jobs

import (
	"errors"
	"time"

	"climate-data-platform/internal/climate"
)

var (
	// ErrNotFound is returned when a job id is unknown.
	ErrNotFound = errors.New("job not found")
	// ErrQueueFull is returned when the job queue cannot accept more work.
	ErrQueueFull = errors.New("job queue full")
)

// State is the lifecycle state of a job. A job moves Queued -> Running and
// then to exactly one of Completed or Failed; there are no other transitions.
type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Kind selects what a job does.
type Kind string

const (
	// KindExtract synthesizes a field for a (variable, date) and persists it.
	KindExtract Kind = "extract"
	// KindAggregate computes a regional min/mean/max summary.
	KindAggregate Kind = "aggregate"
)

// Request describes the work a job should perform.
type Request struct {
	Kind      Kind            `json:"type"`
	DatasetID string          `json:"dataset_id"`
	Variable  string          `json:"variable"`
	Date      string          `json:"date"` // YYYY-MM-DD
	Bounds    *climate.Bounds `json:"bounds,omitempty"`
}

// Result carries the output of a completed job.
type Result struct {
	OutputPath string                `json:"output_path,omitempty"`
	Summary    *climate.FieldSummary `json:"summary,omitempty"`
}

// Job is the externally visible record of a submitted job.
type Job struct {
	ID          string    `json:"job_id"`
	Kind        Kind      `json:"type"`
	State       State     `json:"status"`
	Request     Request   `json:"request"`
	Result      *Result   `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
}
