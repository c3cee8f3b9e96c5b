package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayoubaydy/tajreba"
)

// statusInterval is how often the translate command polls job progress.
const statusInterval = time.Second

// Run executes the translate command.
func (c *TranslateCmd) Run(deps *Dependencies) error {
	doc, err := c.ingest(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tajreba.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stderr, "Loaded %q (%d characters)\n", doc.Name, doc.CharCount)

	job := &tajreba.Job{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Model:      c.Model,
		SourceLang: c.SourceLang,
		TargetLang: c.TargetLang,
		ChunkSize:  c.ChunkSize,
	}
	if c.Backend == "gemini" && job.Model == "" {
		job.Model = "gemini-2.5-flash"
	}
	if err := job.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tajreba.ErrorMessage(err))
		return err
	}
	if err := deps.Jobs.CreateJob(deps.Ctx, job); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tajreba.ErrorMessage(err))
		return err
	}

	tmpl := tajreba.DefaultPromptTemplate(c.SourceLang, c.TargetLang)
	tmpl.Custom = c.Prompt
	if c.PromptMode == string(tajreba.PromptReplace) {
		tmpl.Mode = tajreba.PromptReplace
	}

	if err := deps.Runner.Start(deps.Ctx, job.ID, tmpl); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tajreba.ErrorMessage(err))
		return err
	}

	return c.wait(deps, job.ID)
}

// ingest loads the source file or URL and registers it as a document.
func (c *TranslateCmd) ingest(deps *Dependencies) (*tajreba.Document, error) {
	if isURL(c.Source) {
		return c.ingestURL(deps)
	}
	return c.ingestFile(deps)
}

func (c *TranslateCmd) ingestFile(deps *Dependencies) (*tajreba.Document, error) {
	data, err := os.ReadFile(c.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tajreba.Errorf(tajreba.ENOTFOUND, "file %q does not exist", c.Source)
		}
		return nil, err
	}

	name := filepath.Base(c.Source)
	format := tajreba.DetectFormat(name, data)
	if format == tajreba.FormatUnknown {
		return nil, tajreba.Errorf(tajreba.EINVALID, "could not determine the format of %q", name)
	}
	extractor := deps.Extractors.Get(format)
	if extractor == nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "unsupported document format %q", format)
	}

	res, err := extractor.Extract(c.Source)
	if err != nil {
		return nil, err
	}
	text := res.Text
	if format == tajreba.FormatHTML && deps.Converter != nil {
		if md, cerr := deps.Converter.Convert(text); cerr == nil {
			text = md
		}
	}

	doc := &tajreba.Document{
		Name:     name,
		Format:   format,
		FilePath: c.Source,
		Size:     int64(len(data)),
		Text:     text,
	}
	if res.Title != "" {
		doc.Name = res.Title
	}
	if err := deps.Documents.CreateDocument(deps.Ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *TranslateCmd) ingestURL(deps *Dependencies) (*tajreba.Document, error) {
	html, err := deps.Fetcher.Fetch(deps.Ctx, c.Source)
	if err != nil {
		return nil, err
	}
	page, err := deps.Pages.ExtractPage(html)
	if err != nil {
		return nil, err
	}
	markdown, err := deps.Converter.Convert(page.ContentHTML)
	if err != nil {
		return nil, err
	}

	name := page.Title
	if name == "" {
		name = c.Source
	}
	doc := &tajreba.Document{
		Name:      name,
		Format:    tajreba.FormatHTML,
		SourceURL: c.Source,
		Size:      int64(len(markdown)),
		Text:      markdown,
	}
	if err := deps.Documents.CreateDocument(deps.Ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// wait polls job progress to stderr until the job reaches a terminal state.
func (c *TranslateCmd) wait(deps *Dependencies, jobID string) error {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-deps.Ctx.Done():
			// Interrupted; ask the engine to stop and keep partial progress.
			_ = deps.Runner.Stop(jobID)
			fmt.Fprintln(deps.Stderr)
			return fmt.Errorf("translation interrupted")
		case <-ticker.C:
		}

		st, err := deps.Runner.Status(deps.Ctx, jobID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "\nerror: %s\n", tajreba.ErrorMessage(err))
			return err
		}

		fmt.Fprintf(deps.Stderr, "\r[%d/%d] %d%%%s",
			st.Job.DoneChunks, st.Job.TotalChunks, st.Progress, formatETA(st.ETA))

		if st.Job.Status.Terminal() {
			fmt.Fprintln(deps.Stderr)
			return c.report(deps, st.Job)
		}
	}
}

// report prints the final outcome of the job.
func (c *TranslateCmd) report(deps *Dependencies, job *tajreba.Job) error {
	switch job.Status {
	case tajreba.JobCompleted:
		if job.FailedChunks > 0 {
			fmt.Fprintf(deps.Stderr, "%d of %d chunks failed and were skipped\n",
				job.FailedChunks, job.TotalChunks)
		}
		if job.OutputPath != "" {
			fmt.Fprintf(deps.Stdout, "Saved %s\n", job.OutputPath)
		}
		return nil
	case tajreba.JobStopped:
		return fmt.Errorf("translation stopped after %d of %d chunks", job.DoneChunks, job.TotalChunks)
	default:
		return fmt.Errorf("translation failed: %s", job.Error)
	}
}

// formatETA renders the remaining-time estimate, empty until one exists.
func formatETA(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	return fmt.Sprintf(" ETA %s", d)
}

// isURL reports whether the source argument names a web page rather than a
// local file.
func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
