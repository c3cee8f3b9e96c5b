package mock

import (
	"context"

	"github.com/ayoubaydy/tajreba"
)

var _ tajreba.JobRunner = (*JobRunner)(nil)

// JobRunner is a mock implementation of tajreba.JobRunner.
type JobRunner struct {
	StartFn  func(ctx context.Context, jobID string, tmpl tajreba.PromptTemplate) error
	BusyFn   func() bool
	PauseFn  func(jobID string) error
	ResumeFn func(jobID string) error
	StopFn   func(jobID string) error
	StatusFn func(ctx context.Context, jobID string) (*tajreba.RunStatus, error)
}

func (r *JobRunner) Start(ctx context.Context, jobID string, tmpl tajreba.PromptTemplate) error {
	return r.StartFn(ctx, jobID, tmpl)
}

func (r *JobRunner) Busy() bool {
	return r.BusyFn()
}

func (r *JobRunner) Pause(jobID string) error {
	return r.PauseFn(jobID)
}

func (r *JobRunner) Resume(jobID string) error {
	return r.ResumeFn(jobID)
}

func (r *JobRunner) Stop(jobID string) error {
	return r.StopFn(jobID)
}

func (r *JobRunner) Status(ctx context.Context, jobID string) (*tajreba.RunStatus, error) {
	return r.StatusFn(ctx, jobID)
}
