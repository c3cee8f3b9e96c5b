package translate_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoubaydy/tajreba"
	"github.com/ayoubaydy/tajreba/mock"
	"github.com/ayoubaydy/tajreba/translate"
)

// newEngine wires an Engine against in-memory services and the given
// translator.
func newEngine(t *testing.T, doc *tajreba.Document, jobs *mock.InMemoryJobService, tr tajreba.Translator) *translate.Engine {
	t.Helper()
	return &translate.Engine{
		Translator: tr,
		Cache:      mock.NewTranslationCache(),
		Documents: &mock.DocumentService{
			FindDocumentByIDFn: func(ctx context.Context, id string) (*tajreba.Document, error) {
				if id != doc.ID {
					return nil, tajreba.Errorf(tajreba.ENOTFOUND, "document %s not found", id)
				}
				return doc, nil
			},
		},
		Jobs: jobs,
		Exporter: &mock.Exporter{
			ExportFn: func(w io.Writer, text string, opts tajreba.ExportOptions) error {
				_, err := w.Write([]byte(text))
				return err
			},
		},
		Limiter:     &mock.RateLimiter{},
		OutputDir:   t.TempDir(),
		Concurrency: 2,
		RetryDelays: []time.Duration{time.Millisecond},
	}
}

func testDocument(text string) *tajreba.Document {
	return &tajreba.Document{
		ID:        "doc1",
		Name:      "Test Book",
		Format:    tajreba.FormatText,
		Text:      text,
		CharCount: len([]rune(text)),
	}
}

func testJob(doc *tajreba.Document, chunkSize int) *tajreba.Job {
	return &tajreba.Job{
		ID:         "job1",
		DocumentID: doc.ID,
		Model:      "gemma3:12b",
		SourceLang: "en",
		TargetLang: "ar",
		Status:     tajreba.JobPending,
		ChunkSize:  chunkSize,
		StartedAt:  time.Now(),
	}
}

// waitForTerminal polls until the job reaches a terminal state.
func waitForTerminal(t *testing.T, jobs *mock.InMemoryJobService, id string) *tajreba.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := jobs.FindJobByID(context.Background(), id)
		require.NoError(t, err)
		if job.Status.Terminal() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job did not reach a terminal state")
	return nil
}

func TestEngine_Start(t *testing.T) {
	t.Parallel()

	t.Run("translates all chunks in order", func(t *testing.T) {
		t.Parallel()

		doc := testDocument("First sentence here. " + strings.Repeat("Padding words go here. ", 20) + "\n\nLast sentence here.")
		jobs := mock.NewInMemoryJobService()
		job := testJob(doc, 100)
		require.NoError(t, jobs.CreateJob(context.Background(), job))

		var calls atomic.Int64
		tr := &mock.Translator{
			TranslateFn: func(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
				n := calls.Add(1)
				assert.Equal(t, "gemma3:12b", req.Model)
				assert.Contains(t, req.Prompt, "Arabic Translation:")
				return fmt.Sprintf("ترجمة %d", n), nil
			},
		}

		engine := newEngine(t, doc, jobs, tr)
		tmpl := tajreba.DefaultPromptTemplate("en", "ar")
		require.NoError(t, engine.Start(context.Background(), job.ID, tmpl))

		final := waitForTerminal(t, jobs, job.ID)
		assert.Equal(t, tajreba.JobCompleted, final.Status)
		assert.Equal(t, final.TotalChunks, final.DoneChunks)
		assert.Zero(t, final.FailedChunks)
		assert.NotEmpty(t, final.Output)
		assert.NotEmpty(t, final.OutputPath)
		assert.False(t, final.FinishedAt.IsZero())
	})

	t.Run("default is one model call at a time", func(t *testing.T) {
		t.Parallel()

		doc := testDocument(strings.Repeat("Sentence padding here. ", 40))
		jobs := mock.NewInMemoryJobService()
		job := testJob(doc, 100)
		require.NoError(t, jobs.CreateJob(context.Background(), job))

		var active, maxActive atomic.Int64
		tr := &mock.Translator{
			TranslateFn: func(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
				n := active.Add(1)
				for {
					m := maxActive.Load()
					if n <= m || maxActive.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				active.Add(-1)
				return "مترجم", nil
			},
		}

		engine := newEngine(t, doc, jobs, tr)
		engine.Concurrency = 0 // fall back to the default
		require.NoError(t, engine.Start(context.Background(), job.ID, tajreba.DefaultPromptTemplate("en", "ar")))

		final := waitForTerminal(t, jobs, job.ID)
		assert.Equal(t, tajreba.JobCompleted, final.Status)
		assert.Equal(t, int64(1), maxActive.Load(), "chunks must be translated sequentially by default")
	})

	t.Run("cache hit skips the model", func(t *testing.T) {
		t.Parallel()

		doc := testDocument("short text")
		jobs := mock.NewInMemoryJobService()
		job := testJob(doc, 1000)
		require.NoError(t, jobs.CreateJob(context.Background(), job))

		tr := &mock.Translator{
			TranslateFn: func(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
				t.Error("translator should not be called on cache hit")
				return "", nil
			},
		}

		engine := newEngine(t, doc, jobs, tr)
		key := tajreba.CacheKey(job.Model, job.SourceLang, job.TargetLang, "short text")
		require.NoError(t, engine.Cache.Put(context.Background(), key, "نص قصير"))

		require.NoError(t, engine.Start(context.Background(), job.ID, tajreba.DefaultPromptTemplate("en", "ar")))
		final := waitForTerminal(t, jobs, job.ID)
		assert.Equal(t, tajreba.JobCompleted, final.Status)
		assert.Equal(t, "نص قصير", final.Output)
	})

	t.Run("all chunks failing marks job failed", func(t *testing.T) {
		t.Parallel()

		doc := testDocument("some text that will not translate")
		jobs := mock.NewInMemoryJobService()
		job := testJob(doc, 1000)
		require.NoError(t, jobs.CreateJob(context.Background(), job))

		tr := &mock.Translator{
			TranslateFn: func(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
				return "", tajreba.Errorf(tajreba.EUNAVAILABLE, "backend down")
			},
		}

		engine := newEngine(t, doc, jobs, tr)
		require.NoError(t, engine.Start(context.Background(), job.ID, tajreba.DefaultPromptTemplate("en", "ar")))

		final := waitForTerminal(t, jobs, job.ID)
		assert.Equal(t, tajreba.JobFailed, final.Status)
		assert.NotEmpty(t, final.Error)
	})

	t.Run("rejects finished job", func(t *testing.T) {
		t.Parallel()

		doc := testDocument("text")
		jobs := mock.NewInMemoryJobService()
		job := testJob(doc, 1000)
		job.Status = tajreba.JobCompleted
		require.NoError(t, jobs.CreateJob(context.Background(), job))

		engine := newEngine(t, doc, jobs, &mock.Translator{})
		err := engine.Start(context.Background(), job.ID, tajreba.DefaultPromptTemplate("en", "ar"))
		require.Error(t, err)
		assert.Equal(t, tajreba.EINVALID, tajreba.ErrorCode(err))
	})

	t.Run("rejects a second job while one is running", func(t *testing.T) {
		t.Parallel()

		doc := testDocument("text to translate")
		jobs := mock.NewInMemoryJobService()
		first := testJob(doc, 1000)
		require.NoError(t, jobs.CreateJob(context.Background(), first))
		second := testJob(doc, 1000)
		second.ID = "job2"
		require.NoError(t, jobs.CreateJob(context.Background(), second))

		release := make(chan struct{})
		tr := &mock.Translator{
			TranslateFn: func(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
				<-release
				return "done", nil
			},
		}

		engine := newEngine(t, doc, jobs, tr)
		tmpl := tajreba.DefaultPromptTemplate("en", "ar")
		require.NoError(t, engine.Start(context.Background(), first.ID, tmpl))

		err := engine.Start(context.Background(), second.ID, tmpl)
		require.Error(t, err)
		assert.Equal(t, tajreba.ECONFLICT, tajreba.ErrorCode(err))

		close(release)
		waitForTerminal(t, jobs, first.ID)

		// Once the first run finishes, the second job may start.
		require.NoError(t, engine.Start(context.Background(), second.ID, tmpl))
		waitForTerminal(t, jobs, second.ID)
	})

	t.Run("rejects double start", func(t *testing.T) {
		t.Parallel()

		doc := testDocument("text to translate")
		jobs := mock.NewInMemoryJobService()
		job := testJob(doc, 1000)
		require.NoError(t, jobs.CreateJob(context.Background(), job))

		release := make(chan struct{})
		tr := &mock.Translator{
			TranslateFn: func(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
				<-release
				return "done", nil
			},
		}

		engine := newEngine(t, doc, jobs, tr)
		require.NoError(t, engine.Start(context.Background(), job.ID, tajreba.DefaultPromptTemplate("en", "ar")))

		err := engine.Start(context.Background(), job.ID, tajreba.DefaultPromptTemplate("en", "ar"))
		require.Error(t, err)
		assert.Equal(t, tajreba.ECONFLICT, tajreba.ErrorCode(err))

		close(release)
		waitForTerminal(t, jobs, job.ID)
	})
}

func TestEngine_Stop(t *testing.T) {
	t.Parallel()

	doc := testDocument("text to translate")
	jobs := mock.NewInMemoryJobService()
	job := testJob(doc, 1000)
	require.NoError(t, jobs.CreateJob(context.Background(), job))

	started := make(chan struct{})
	tr := &mock.Translator{
		TranslateFn: func(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		},
	}

	engine := newEngine(t, doc, jobs, tr)
	engine.RetryDelays = []time.Duration{}
	require.NoError(t, engine.Start(context.Background(), job.ID, tajreba.DefaultPromptTemplate("en", "ar")))

	<-started
	require.NoError(t, engine.Stop(job.ID))

	final := waitForTerminal(t, jobs, job.ID)
	assert.Equal(t, tajreba.JobStopped, final.Status)
}

func TestEngine_PauseResume(t *testing.T) {
	t.Parallel()

	doc := testDocument("chunk one text here. " + strings.Repeat("More padding text. ", 30))
	jobs := mock.NewInMemoryJobService()
	job := testJob(doc, 100)
	require.NoError(t, jobs.CreateJob(context.Background(), job))

	var calls atomic.Int64
	tr := &mock.Translator{
		TranslateFn: func(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
			calls.Add(1)
			time.Sleep(10 * time.Millisecond) // keep the run alive long enough to pause
			return "مترجم", nil
		},
	}

	engine := newEngine(t, doc, jobs, tr)
	engine.Concurrency = 1
	require.NoError(t, engine.Start(context.Background(), job.ID, tajreba.DefaultPromptTemplate("en", "ar")))

	require.NoError(t, engine.Pause(job.ID))

	st, err := engine.Status(context.Background(), job.ID)
	if err == nil && st.Running {
		assert.True(t, st.Paused)
	}

	require.NoError(t, engine.Resume(job.ID))
	final := waitForTerminal(t, jobs, job.ID)
	assert.Equal(t, tajreba.JobCompleted, final.Status)
	assert.Positive(t, calls.Load())
}

func TestEngine_Status(t *testing.T) {
	t.Parallel()

	t.Run("unknown job", func(t *testing.T) {
		t.Parallel()
		jobs := mock.NewInMemoryJobService()
		engine := &translate.Engine{Jobs: jobs}

		_, err := engine.Status(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, tajreba.ENOTFOUND, tajreba.ErrorCode(err))
	})

	t.Run("finished job is not running", func(t *testing.T) {
		t.Parallel()
		jobs := mock.NewInMemoryJobService()
		job := &tajreba.Job{
			ID: "j", DocumentID: "d", Model: "m", TargetLang: "ar",
			Status: tajreba.JobCompleted, TotalChunks: 4, DoneChunks: 4,
		}
		require.NoError(t, jobs.CreateJob(context.Background(), job))

		engine := &translate.Engine{Jobs: jobs}
		st, err := engine.Status(context.Background(), "j")
		require.NoError(t, err)
		assert.False(t, st.Running)
		assert.Equal(t, 100, st.Progress)
	})
}

func TestHostLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("allows first request immediately", func(t *testing.T) {
		t.Parallel()
		limiter := translate.NewHostLimiter(1)

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "localhost:11434"))
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("separate hosts are independent", func(t *testing.T) {
		t.Parallel()
		limiter := translate.NewHostLimiter(1)

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "host-a"))
		require.NoError(t, limiter.Wait(context.Background(), "host-b"))
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()
		limiter := translate.NewHostLimiter(0.001)
		require.NoError(t, limiter.Wait(context.Background(), "slow"))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		err := limiter.Wait(ctx, "slow")
		require.Error(t, err)
	})
}

func TestTranslateWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()

		var attempts int
		out, err := translate.TranslateWithRetryDelays(context.Background(), func(ctx context.Context) (string, error) {
			attempts++
			if attempts < 3 {
				return "", tajreba.Errorf(tajreba.EUNAVAILABLE, "transient")
			}
			return "ok", nil
		}, nil, []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond})

		require.NoError(t, err)
		assert.Equal(t, "ok", out)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry invalid input", func(t *testing.T) {
		t.Parallel()

		var attempts int
		_, err := translate.TranslateWithRetryDelays(context.Background(), func(ctx context.Context) (string, error) {
			attempts++
			return "", tajreba.Errorf(tajreba.EINVALID, "empty prompt")
		}, nil, []time.Duration{time.Millisecond})

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up after exhausting delays", func(t *testing.T) {
		t.Parallel()

		var attempts int
		_, err := translate.TranslateWithRetryDelays(context.Background(), func(ctx context.Context) (string, error) {
			attempts++
			return "", tajreba.Errorf(tajreba.EUNAVAILABLE, "down")
		}, nil, []time.Duration{time.Millisecond, time.Millisecond})

		require.Error(t, err)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, tajreba.EUNAVAILABLE, tajreba.ErrorCode(err))
	})
}
