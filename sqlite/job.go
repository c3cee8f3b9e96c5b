package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ayoubaydy/tajreba"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ tajreba.JobService = (*JobService)(nil)

// JobService implements tajreba.JobService using SQLite.
type JobService struct {
	db *DB
}

// NewJobService creates a new JobService.
func NewJobService(db *DB) *JobService {
	return &JobService{db: db}
}

// CreateJob creates a new job.
func (s *JobService) CreateJob(ctx context.Context, job *tajreba.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	job.ID = uuid.New().String()
	if job.Status == "" {
		job.Status = tajreba.JobPending
	}
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, document_id, model, source_lang, target_lang, status,
			chunk_size, total_chunks, done_chunks, failed_chunks,
			output, output_path, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, job.DocumentID, job.Model, job.SourceLang, job.TargetLang, string(job.Status),
		job.ChunkSize, job.TotalChunks, job.DoneChunks, job.FailedChunks,
		job.Output, job.OutputPath, job.Error,
		job.StartedAt.Format(time.RFC3339), formatTime(job.FinishedAt))

	return err
}

const jobColumns = `id, document_id, model, source_lang, target_lang, status,
	chunk_size, total_chunks, done_chunks, failed_chunks,
	output, output_path, error, started_at, finished_at`

// scanJob scans one job row.
func scanJob(scan func(dest ...any) error) (*tajreba.Job, error) {
	var job tajreba.Job
	var status, startedAt, finishedAt string

	if err := scan(&job.ID, &job.DocumentID, &job.Model, &job.SourceLang, &job.TargetLang, &status,
		&job.ChunkSize, &job.TotalChunks, &job.DoneChunks, &job.FailedChunks,
		&job.Output, &job.OutputPath, &job.Error, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	job.Status = tajreba.JobStatus(status)

	var err error
	job.StartedAt, err = parseRFC3339(startedAt, "started_at")
	if err != nil {
		return nil, err
	}
	if finishedAt != "" {
		job.FinishedAt, err = parseRFC3339(finishedAt, "finished_at")
		if err != nil {
			return nil, err
		}
	}

	return &job, nil
}

// FindJobByID retrieves a job by ID.
func (s *JobService) FindJobByID(ctx context.Context, id string) (*tajreba.Job, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", id)

	job, err := scanJob(row.Scan)
	if err == sql.ErrNoRows {
		return nil, tajreba.Errorf(tajreba.ENOTFOUND, "job not found")
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// FindJobs retrieves jobs matching the filter, newest first.
func (s *JobService) FindJobs(ctx context.Context, filter tajreba.JobFilter) ([]*tajreba.Job, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + jobColumns + " FROM jobs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.DocumentID != nil {
		query.WriteString(" AND document_id = ?")
		args = append(args, *filter.DocumentID)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY started_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*tajreba.Job
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// UpdateJob updates an existing job.
func (s *JobService) UpdateJob(ctx context.Context, id string, upd tajreba.JobUpdate) (*tajreba.Job, error) {
	job, err := s.FindJobByID(ctx, id)
	if err != nil {
		return nil, err
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

	if err := job.Validate(); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE jobs
		SET status = ?, total_chunks = ?, done_chunks = ?, failed_chunks = ?,
			output = ?, output_path = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, string(job.Status), job.TotalChunks, job.DoneChunks, job.FailedChunks,
		job.Output, job.OutputPath, job.Error, formatTime(job.FinishedAt), id)

	if err != nil {
		return nil, err
	}

	return job, nil
}

// DeleteJobsByDocument removes all jobs for a document.
func (s *JobService) DeleteJobsByDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE document_id = ?", documentID)
	return err
}
