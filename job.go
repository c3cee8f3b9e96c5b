package tajreba

import (
	"context"
	"time"
)

// JobStatus represents the lifecycle state of a translation job.
type JobStatus string

// Job lifecycle states. A job moves from pending to running, may bounce
// between running and paused, and ends in one of the terminal states
// (completed, stopped, failed).
const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobPaused    JobStatus = "paused"
	JobStopped   JobStatus = "stopped"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal returns true if the status is a terminal state.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStopped, JobCompleted, JobFailed:
		return true
	}
	return false
}

// Job represents a translation run over a document.
type Job struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Model      string    `json:"model"`
	SourceLang string    `json:"sourceLang"`
	TargetLang string    `json:"targetLang"`
	Status     JobStatus `json:"status"`

	ChunkSize    int `json:"chunkSize"`
	TotalChunks  int `json:"totalChunks"`
	DoneChunks   int `json:"doneChunks"`
	FailedChunks int `json:"failedChunks"`

	// Output is the accumulated translation in chunk order.
	Output     string `json:"output,omitempty"`
	OutputPath string `json:"outputPath,omitempty"`
	Error      string `json:"error,omitempty"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
}

// Validate returns an error if the job contains invalid fields.
func (j *Job) Validate() error {
	if j.DocumentID == "" {
		return Errorf(EINVALID, "job document ID required")
	}
	if j.Model == "" {
		return Errorf(EINVALID, "job model required")
	}
	if j.TargetLang == "" {
		return Errorf(EINVALID, "job target language required")
	}
	return nil
}

// Progress returns completion as a percentage in [0, 100].
func (j *Job) Progress() int {
	if j.TotalChunks == 0 {
		return 0
	}
	return 100 * j.DoneChunks / j.TotalChunks
}

// JobService represents a service for managing translation jobs.
type JobService interface {
	// CreateJob creates a new job.
	CreateJob(ctx context.Context, job *Job) error

	// FindJobByID retrieves a job by ID.
	// Returns ENOTFOUND if job does not exist.
	FindJobByID(ctx context.Context, id string) (*Job, error)

	// FindJobs retrieves jobs matching the filter, newest first.
	FindJobs(ctx context.Context, filter JobFilter) ([]*Job, error)

	// UpdateJob updates an existing job.
	// Returns ENOTFOUND if job does not exist.
	UpdateJob(ctx context.Context, id string, upd JobUpdate) (*Job, error)

	// DeleteJobsByDocument removes all jobs for a document.
	DeleteJobsByDocument(ctx context.Context, documentID string) error
}

// JobFilter represents a filter for FindJobs.
type JobFilter struct {
	ID         *string    `json:"id"`
	DocumentID *string    `json:"documentId"`
	Status     *JobStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// JobUpdate represents fields that can be updated on a job.
type JobUpdate struct {
	Status       *JobStatus `json:"status"`
	TotalChunks  *int       `json:"totalChunks"`
	DoneChunks   *int       `json:"doneChunks"`
	FailedChunks *int       `json:"failedChunks"`
	Output       *string    `json:"output"`
	OutputPath   *string    `json:"outputPath"`
	Error        *string    `json:"error"`
	FinishedAt   *time.Time `json:"finishedAt"`
}
