// Package translate provides translation job orchestration.
// It coordinates chunking, model calls, caching, progress tracking and
// export of the finished translation.
package translate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ayoubaydy/tajreba"
)

// DefaultConcurrency is the number of chunks translated in parallel when
// the Engine is not configured otherwise. One at a time keeps the live
// feed in document order and matches how local inference backends serve
// requests.
const DefaultConcurrency = 1

// feedLimit caps the live feed buffer at roughly two screens of text.
const feedLimit = 4000

// Ensure Engine implements tajreba.JobRunner at compile time.
var _ tajreba.JobRunner = (*Engine)(nil)

// Engine orchestrates translation jobs.
type Engine struct {
	Translator tajreba.Translator
	Cache      tajreba.TranslationCache
	Documents  tajreba.DocumentService
	Jobs       tajreba.JobService
	Exporter   tajreba.Exporter
	Limiter    tajreba.RateLimiter

	// LimitKey identifies the inference backend for rate limiting,
	// typically the backend host.
	LimitKey string

	// OutputDir is where exported documents are written.
	OutputDir string

	Concurrency int
	RetryDelays []time.Duration
	Temperature float32

	// KeepThinking disables the removal of reasoning-model thought lines
	// from the output.
	KeepThinking bool

	mu   sync.Mutex
	runs map[string]*run
}

// chunkResult holds the outcome of translating a single chunk.
type chunkResult struct {
	position int
	text     string
	err      error
}

// run tracks the in-memory state of an active job.
type run struct {
	cancel  context.CancelFunc
	started time.Time

	mu      sync.Mutex
	paused  bool
	resume  chan struct{} // closed while not paused
	stopped bool
	feed    strings.Builder
	done    int
	total   int
}

// newRun creates a run in the unpaused state.
func newRun(cancel context.CancelFunc) *run {
	resume := make(chan struct{})
	close(resume)
	return &run{
		cancel:  cancel,
		started: time.Now(),
		resume:  resume,
	}
}

// gate returns a channel that is closed while the run is not paused.
func (r *run) gate() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resume
}

func (r *run) pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.paused {
		r.paused = true
		r.resume = make(chan struct{})
	}
}

func (r *run) unpause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paused {
		r.paused = false
		close(r.resume)
	}
}

func (r *run) stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	r.unpause()
	r.cancel()
}

// appendFeed adds text to the live feed, trimming from the front when the
// buffer outgrows feedLimit.
func (r *run) appendFeed(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feed.WriteString(text)
	if r.feed.Len() > feedLimit {
		trimmed := r.feed.String()
		trimmed = trimmed[len(trimmed)-feedLimit:]
		r.feed.Reset()
		r.feed.WriteString(trimmed)
	}
}

// Start begins translating the job's document in the background.
// Only one job runs at a time: ECONFLICT is returned while any run is
// active, and EINVALID if the job has already finished.
func (e *Engine) Start(ctx context.Context, jobID string, tmpl tajreba.PromptTemplate) error {
	job, err := e.Jobs.FindJobByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return tajreba.Errorf(tajreba.EINVALID, "job %s has already finished", jobID)
	}

	doc, err := e.Documents.FindDocumentByID(ctx, job.DocumentID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.runs == nil {
		e.runs = make(map[string]*run)
	}
	if _, ok := e.runs[jobID]; ok {
		e.mu.Unlock()
		return tajreba.Errorf(tajreba.ECONFLICT, "job %s is already running", jobID)
	}
	if len(e.runs) > 0 {
		e.mu.Unlock()
		return tajreba.Errorf(tajreba.ECONFLICT, "another translation is already running")
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r := newRun(cancel)
	e.runs[jobID] = r
	e.mu.Unlock()

	go e.translate(runCtx, r, job, doc, tmpl)
	return nil
}

// Busy reports whether a job is currently running.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.runs) > 0
}

// Pause suspends a running job between chunks.
func (e *Engine) Pause(jobID string) error {
	r, err := e.activeRun(jobID)
	if err != nil {
		return err
	}
	r.pause()
	return nil
}

// Resume continues a paused job.
func (e *Engine) Resume(jobID string) error {
	r, err := e.activeRun(jobID)
	if err != nil {
		return err
	}
	r.unpause()
	return nil
}

// Stop cancels a running job. Completed chunks are kept on the job record.
func (e *Engine) Stop(jobID string) error {
	r, err := e.activeRun(jobID)
	if err != nil {
		return err
	}
	r.stop()
	return nil
}

// Status returns a snapshot of the job, including live progress when the
// job is currently running.
func (e *Engine) Status(ctx context.Context, jobID string) (*tajreba.RunStatus, error) {
	job, err := e.Jobs.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	st := &tajreba.RunStatus{
		Job:      job,
		Progress: job.Progress(),
	}

	e.mu.Lock()
	r := e.runs[jobID]
	e.mu.Unlock()
	if r == nil {
		return st, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	st.Running = true
	st.Paused = r.paused
	st.LiveFeed = r.feed.String()
	st.Elapsed = time.Since(r.started).Seconds()
	if r.done > 0 && r.total > 0 {
		perChunk := st.Elapsed / float64(r.done)
		st.ETA = perChunk * float64(r.total-r.done)
	}
	return st, nil
}

func (e *Engine) activeRun(jobID string) (*run, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.runs[jobID]
	if !ok {
		return nil, tajreba.Errorf(tajreba.ENOTFOUND, "job %s is not running", jobID)
	}
	return r, nil
}

// translate runs the whole job: chunk, translate concurrently, reassemble
// in order, export. It owns the job record for the duration of the run.
func (e *Engine) translate(ctx context.Context, r *run, job *tajreba.Job, doc *tajreba.Document, tmpl tajreba.PromptTemplate) {
	defer func() {
		e.mu.Lock()
		delete(e.runs, job.ID)
		e.mu.Unlock()
	}()

	chunkSize := job.ChunkSize
	if chunkSize <= 0 {
		chunkSize = tajreba.OptimalChunkSize(doc.CharCount)
	}
	chunks := tajreba.SplitText(doc.Text, chunkSize)

	r.mu.Lock()
	r.total = len(chunks)
	r.mu.Unlock()

	running := tajreba.JobRunning
	total := len(chunks)
	if _, err := e.Jobs.UpdateJob(ctx, job.ID, tajreba.JobUpdate{
		Status:      &running,
		TotalChunks: &total,
	}); err != nil {
		e.finishWithError(job.ID, err)
		return
	}

	sanitize := tajreba.SanitizeOptions{
		FilterThoughts: !e.KeepThinking,
		TargetScript:   tajreba.ScriptForLang(job.TargetLang),
	}

	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan chunkResult, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	go func() {
		for i, chunk := range chunks {
			i, chunk := i, chunk
			g.Go(func() error {
				text, err := e.translateChunk(gctx, r, job, chunk, tmpl, sanitize)
				resultCh <- chunkResult{position: i, text: text, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]string, len(chunks))
	var done, failed int
	for res := range resultCh {
		switch {
		case res.err != nil && ctx.Err() != nil:
			// Canceled mid-flight, not a real failure.
		case res.err != nil:
			failed++
		default:
			done++
			results[res.position] = res.text
		}

		r.mu.Lock()
		r.done = done
		r.mu.Unlock()

		// Best effort progress persistence; the final update below is
		// what matters.
		d, f := done, failed
		_, _ = e.Jobs.UpdateJob(ctx, job.ID, tajreba.JobUpdate{
			DoneChunks:   &d,
			FailedChunks: &f,
		})
	}

	output := joinChunks(results)
	e.finish(r, job, doc, output, done, failed, total)
}

// translateChunk translates one chunk, consulting the cache first.
func (e *Engine) translateChunk(ctx context.Context, r *run, job *tajreba.Job, chunk string, tmpl tajreba.PromptTemplate, sanitize tajreba.SanitizeOptions) (string, error) {
	// Wait out a pause before doing any work.
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-r.gate():
	}

	key := tajreba.CacheKey(job.Model, job.SourceLang, job.TargetLang, chunk)
	if e.Cache != nil {
		if cached, err := e.Cache.Get(ctx, key); err == nil {
			r.appendFeed(cached + "\n\n")
			return cached, nil
		}
	}

	if e.Limiter != nil {
		if err := e.Limiter.Wait(ctx, e.LimitKey); err != nil {
			return "", err
		}
	}

	req := tajreba.TranslateRequest{
		Prompt:      tmpl.Build(chunk),
		Model:       job.Model,
		Temperature: e.Temperature,
	}

	delays := e.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	raw, err := TranslateWithRetryDelays(ctx, func(ctx context.Context) (string, error) {
		if st, ok := e.Translator.(tajreba.StreamingTranslator); ok {
			return st.TranslateStream(ctx, req, func(token string) error {
				r.appendFeed(token)
				return nil
			})
		}
		return e.Translator.Translate(ctx, req)
	}, nil, delays)
	if err != nil {
		return "", err
	}

	out := tajreba.SanitizeOutput(raw, sanitize)
	if _, ok := e.Translator.(tajreba.StreamingTranslator); !ok {
		r.appendFeed(out + "\n\n")
	}

	if e.Cache != nil && out != "" {
		_ = e.Cache.Put(ctx, key, out)
	}
	return out, nil
}

// finish records the terminal state of the job and exports the output when
// the run completed normally. The run is released before the terminal
// status is persisted so that a new job can start as soon as this one
// reads as finished.
func (e *Engine) finish(r *run, job *tajreba.Job, doc *tajreba.Document, output string, done, failed, total int) {
	e.mu.Lock()
	delete(e.runs, job.ID)
	e.mu.Unlock()

	// The run context is canceled on stop, so finalization uses its own.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	r.mu.Lock()
	stopped := r.stopped
	r.mu.Unlock()

	status := tajreba.JobCompleted
	var jobErr string
	switch {
	case stopped:
		status = tajreba.JobStopped
	case done == 0 && failed > 0:
		status = tajreba.JobFailed
		jobErr = "all chunks failed to translate"
	}

	var outputPath string
	if status == tajreba.JobCompleted && output != "" && e.Exporter != nil && e.OutputDir != "" {
		path, err := e.export(doc, job, output)
		if err != nil {
			jobErr = fmt.Sprintf("export failed: %v", err)
		} else {
			outputPath = path
		}
	}

	now := time.Now().UTC()
	_, _ = e.Jobs.UpdateJob(ctx, job.ID, tajreba.JobUpdate{
		Status:       &status,
		DoneChunks:   &done,
		FailedChunks: &failed,
		TotalChunks:  &total,
		Output:       &output,
		OutputPath:   &outputPath,
		Error:        &jobErr,
		FinishedAt:   &now,
	})
}

// finishWithError marks the job failed before any chunks ran.
func (e *Engine) finishWithError(jobID string, cause error) {
	e.mu.Lock()
	delete(e.runs, jobID)
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status := tajreba.JobFailed
	msg := tajreba.ErrorMessage(cause)
	now := time.Now().UTC()
	_, _ = e.Jobs.UpdateJob(ctx, jobID, tajreba.JobUpdate{
		Status:     &status,
		Error:      &msg,
		FinishedAt: &now,
	})
}

// export writes the translated document to OutputDir and returns its path.
func (e *Engine) export(doc *tajreba.Document, job *tajreba.Job, output string) (string, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("translated_%s.docx", time.Now().Format("20060102_150405"))
	path := filepath.Join(e.OutputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	opts := tajreba.DefaultExportOptions(tajreba.DirectionForLang(job.TargetLang))
	opts.Title = doc.Name
	if err := e.Exporter.Export(f, output, opts); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// joinChunks reassembles translated chunks in document order, skipping
// chunks that failed.
func joinChunks(results []string) string {
	var parts []string
	for _, res := range results {
		if res != "" {
			parts = append(parts, res)
		}
	}
	return strings.Join(parts, "\n\n")
}
