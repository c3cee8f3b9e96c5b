package tajreba

import "context"

// RunStatus is a point-in-time snapshot of a job's progress, including
// live state for jobs that are currently executing.
type RunStatus struct {
	Job      *Job    `json:"job"`
	Progress int     `json:"progress"`
	Running  bool    `json:"running"`
	Paused   bool    `json:"paused"`
	Elapsed  float64 `json:"elapsedSeconds"`
	ETA      float64 `json:"etaSeconds"`
	LiveFeed string  `json:"liveFeed"`
}

// JobRunner controls translation job execution. Runners execute one job
// at a time.
type JobRunner interface {
	// Start begins translating the job's document in the background.
	// Returns ECONFLICT while any job is running and EINVALID if this
	// one has already finished.
	Start(ctx context.Context, jobID string, tmpl PromptTemplate) error

	// Busy reports whether a job is currently running.
	Busy() bool

	// Pause suspends a running job between chunks.
	Pause(jobID string) error

	// Resume continues a paused job.
	Resume(jobID string) error

	// Stop cancels a running job, keeping completed chunks.
	Stop(jobID string) error

	// Status returns a snapshot of the job.
	// Returns ENOTFOUND if the job does not exist.
	Status(ctx context.Context, jobID string) (*RunStatus, error)
}
