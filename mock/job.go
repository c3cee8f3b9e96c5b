package mock

import (
	"context"
	"sync"

	"github.com/ayoubaydy/tajreba"
)

var _ tajreba.JobService = (*JobService)(nil)

// JobService is a mock implementation of tajreba.JobService.
type JobService struct {
	CreateJobFn            func(ctx context.Context, job *tajreba.Job) error
	FindJobByIDFn          func(ctx context.Context, id string) (*tajreba.Job, error)
	FindJobsFn             func(ctx context.Context, filter tajreba.JobFilter) ([]*tajreba.Job, error)
	UpdateJobFn            func(ctx context.Context, id string, upd tajreba.JobUpdate) (*tajreba.Job, error)
	DeleteJobsByDocumentFn func(ctx context.Context, documentID string) error
}

func (s *JobService) CreateJob(ctx context.Context, job *tajreba.Job) error {
	return s.CreateJobFn(ctx, job)
}

func (s *JobService) FindJobByID(ctx context.Context, id string) (*tajreba.Job, error) {
	return s.FindJobByIDFn(ctx, id)
}

func (s *JobService) FindJobs(ctx context.Context, filter tajreba.JobFilter) ([]*tajreba.Job, error) {
	return s.FindJobsFn(ctx, filter)
}

func (s *JobService) UpdateJob(ctx context.Context, id string, upd tajreba.JobUpdate) (*tajreba.Job, error) {
	return s.UpdateJobFn(ctx, id, upd)
}

func (s *JobService) DeleteJobsByDocument(ctx context.Context, documentID string) error {
	return s.DeleteJobsByDocumentFn(ctx, documentID)
}

// InMemoryJobService is a thread-safe in-memory JobService for tests that
// exercise the full job lifecycle.
type InMemoryJobService struct {
	mu   sync.Mutex
	jobs map[string]*tajreba.Job
}

var _ tajreba.JobService = (*InMemoryJobService)(nil)

// NewInMemoryJobService creates an empty in-memory job store.
func NewInMemoryJobService() *InMemoryJobService {
	return &InMemoryJobService{jobs: make(map[string]*tajreba.Job)}
}

func (s *InMemoryJobService) CreateJob(ctx context.Context, job *tajreba.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.Status == "" {
		job.Status = tajreba.JobPending
	}
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *InMemoryJobService) FindJobByID(ctx context.Context, id string) (*tajreba.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, tajreba.Errorf(tajreba.ENOTFOUND, "job %s not found", id)
	}
	cp := *job
	return &cp, nil
}

func (s *InMemoryJobService) FindJobs(ctx context.Context, filter tajreba.JobFilter) ([]*tajreba.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*tajreba.Job
	for _, job := range s.jobs {
		if filter.ID != nil && job.ID != *filter.ID {
			continue
		}
		if filter.DocumentID != nil && job.DocumentID != *filter.DocumentID {
			continue
		}
		if filter.Status != nil && job.Status != *filter.Status {
			continue
		}
		cp := *job
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemoryJobService) UpdateJob(ctx context.Context, id string, upd tajreba.JobUpdate) (*tajreba.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, tajreba.Errorf(tajreba.ENOTFOUND, "job %s not found", id)
	}
	if upd.Status != nil {
		job.Status = *upd.Status
	}
	if upd.TotalChunks != nil {
		job.TotalChunks = *upd.TotalChunks
	}
	if upd.DoneChunks != nil {
		job.DoneChunks = *upd.DoneChunks
	}
	if upd.FailedChunks != nil {
		job.FailedChunks = *upd.FailedChunks
	}
	if upd.Output != nil {
		job.Output = *upd.Output
	}
	if upd.OutputPath != nil {
		job.OutputPath = *upd.OutputPath
	}
	if upd.Error != nil {
		job.Error = *upd.Error
	}
	if upd.FinishedAt != nil {
		job.FinishedAt = *upd.FinishedAt
	}
	cp := *job
	return &cp, nil
}

func (s *InMemoryJobService) DeleteJobsByDocument(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		if job.DocumentID == documentID {
			delete(s.jobs, id)
		}
	}
	return nil
}
