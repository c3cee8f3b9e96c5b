package http

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayoubaydy/tajreba"
)

// DefaultAddr is the address the server binds by default. The app is a
// local tool, so it binds loopback only.
const DefaultAddr = "127.0.0.1:5000"

// maxUploadBytes caps multipart upload size at 16 MiB.
const maxUploadBytes = 16 << 20

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

//go:embed assets
var assetsFS embed.FS

// Server serves the web UI and the JSON API.
type Server struct {
	ln     net.Listener
	server *http.Server

	// Addr is the bind address, DefaultAddr if empty.
	Addr string

	// Logger receives a structured line per request when set.
	Logger *slog.Logger

	Documents  tajreba.DocumentService
	Jobs       tajreba.JobService
	Runner     tajreba.JobRunner
	Models     tajreba.ModelLister
	Extractors *tajreba.ExtractorRegistry
	Exporter   tajreba.Exporter
	Store      tajreba.FileStore
	Fetcher    tajreba.Fetcher
	Pages      tajreba.PageExtractor
	Converter  tajreba.Converter
}

// NewServer creates a Server with its routes registered.
func NewServer() *Server {
	s := &Server{server: &http.Server{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("POST /api/start", s.handleStart)
	mux.HandleFunc("GET /api/status/{id}", s.handleStatus)
	mux.HandleFunc("POST /api/pause/{id}", s.handlePause)
	mux.HandleFunc("POST /api/stop/{id}", s.handleStop)
	mux.HandleFunc("GET /api/export/{id}", s.handleExport)
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("GET /api/jobs", s.handleJobs)
	s.server.Handler = s.logRequests(mux)

	return s
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests writes one structured log line per request when a Logger is
// configured.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Logger == nil {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		begin := time.Now()
		next.ServeHTTP(rec, r)
		s.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(begin),
		)
	})
}

// Open begins listening on Addr. It does not block.
func (s *Server) Open() (err error) {
	addr := s.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	if s.ln, err = net.Listen("tcp", addr); err != nil {
		return err
	}
	go func() { _ = s.server.Serve(s.ln) }()
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the server's base URL once it is listening.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := assetsFS.ReadFile("assets/index.html")
	if err != nil {
		Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

// uploadResponse is returned from /api/upload.
type uploadResponse struct {
	Document *tajreba.Document `json:"document"`
}

// handleUpload accepts either a multipart file upload or a JSON body with
// a URL to fetch. Both register a document with its extracted text.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	var doc *tajreba.Document
	var err error
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		doc, err = s.uploadFile(r)
	case strings.HasPrefix(contentType, "application/json"):
		doc, err = s.uploadURL(r)
	default:
		err = tajreba.Errorf(tajreba.EINVALID, "expected a file upload or a JSON body with a url")
	}
	if err != nil {
		Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Document: doc})
}

func (s *Server) uploadFile(r *http.Request) (*tajreba.Document, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "upload too large or malformed: %v", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "missing file field")
	}
	defer file.Close()

	path, err := s.Store.Save(header.Filename, file)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := tajreba.DetectFormat(header.Filename, data)
	if format == tajreba.FormatUnknown {
		return nil, tajreba.Errorf(tajreba.EINVALID, "could not determine the format of %q", header.Filename)
	}

	extractor := s.Extractors.Get(format)
	if extractor == nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "unsupported document format %q", format)
	}
	res, err := extractor.Extract(path)
	if err != nil {
		return nil, err
	}

	text := res.Text
	if format == tajreba.FormatHTML && s.Converter != nil {
		// HTML reads better for the model as markdown.
		if md, err := s.Converter.Convert(text); err == nil {
			text = md
		}
	}

	doc := &tajreba.Document{
		Name:     header.Filename,
		Format:   format,
		FilePath: path,
		Size:     header.Size,
		Text:     text,
	}
	if res.Title != "" {
		doc.Name = res.Title
	}
	if err := s.Documents.CreateDocument(r.Context(), doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// uploadURLRequest is the JSON body for URL ingestion.
type uploadURLRequest struct {
	URL string `json:"url"`
}

func (s *Server) uploadURL(r *http.Request) (*tajreba.Document, error) {
	var req uploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "invalid JSON body: %v", err)
	}
	if req.URL == "" {
		return nil, tajreba.Errorf(tajreba.EINVALID, "url required")
	}
	if s.Fetcher == nil || s.Pages == nil || s.Converter == nil {
		return nil, tajreba.Errorf(tajreba.ENOTIMPLEMENTED, "URL ingestion is not configured")
	}

	html, err := s.Fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		return nil, err
	}
	page, err := s.Pages.ExtractPage(html)
	if err != nil {
		return nil, err
	}
	markdown, err := s.Converter.Convert(page.ContentHTML)
	if err != nil {
		return nil, err
	}

	name := page.Title
	if name == "" {
		name = req.URL
	}
	doc := &tajreba.Document{
		Name:      name,
		Format:    tajreba.FormatHTML,
		SourceURL: req.URL,
		Size:      int64(len(markdown)),
		Text:      markdown,
	}
	if err := s.Documents.CreateDocument(r.Context(), doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	filter := tajreba.DocumentFilter{
		Offset: queryInt(r, "offset"),
		Limit:  queryInt(r, "limit"),
	}
	docs, err := s.Documents.FindDocuments(r.Context(), filter)
	if err != nil {
		Error(w, r, err)
		return
	}
	// Document text can be megabytes; the listing omits it.
	for _, d := range docs {
		d.Text = ""
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.Documents.DeleteDocument(r.Context(), id); err != nil {
		Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// startRequest is the JSON body for /api/start.
type startRequest struct {
	DocumentID   string `json:"documentId"`
	Model        string `json:"model"`
	SourceLang   string `json:"sourceLang"`
	TargetLang   string `json:"targetLang"`
	ChunkSize    int    `json:"chunkSize"`
	CustomPrompt string `json:"customPrompt"`
	PromptMode   string `json:"promptMode"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, r, tajreba.Errorf(tajreba.EINVALID, "invalid JSON body: %v", err))
		return
	}
	if req.SourceLang == "" {
		req.SourceLang = "en"
	}
	if req.TargetLang == "" {
		req.TargetLang = "ar"
	}

	// One translation at a time. Checking before creating the job keeps
	// rejected requests out of the job history.
	if s.Runner.Busy() {
		Error(w, r, tajreba.Errorf(tajreba.ECONFLICT, "a translation is already running"))
		return
	}

	job := &tajreba.Job{
		ID:         uuid.New().String(),
		DocumentID: req.DocumentID,
		Model:      req.Model,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		ChunkSize:  req.ChunkSize,
	}
	if err := job.Validate(); err != nil {
		Error(w, r, err)
		return
	}
	if err := s.Jobs.CreateJob(r.Context(), job); err != nil {
		Error(w, r, err)
		return
	}

	tmpl := tajreba.DefaultPromptTemplate(req.SourceLang, req.TargetLang)
	tmpl.Custom = req.CustomPrompt
	if req.PromptMode == string(tajreba.PromptReplace) {
		tmpl.Mode = tajreba.PromptReplace
	}

	if err := s.Runner.Start(r.Context(), job.ID, tmpl); err != nil {
		Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"job": job})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.Runner.Status(r.Context(), r.PathValue("id"))
	if err != nil {
		Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handlePause toggles pause state: a running job is paused, a paused job
// is resumed.
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, err := s.Runner.Status(r.Context(), id)
	if err != nil {
		Error(w, r, err)
		return
	}

	if st.Paused {
		err = s.Runner.Resume(id)
	} else {
		err = s.Runner.Pause(id)
	}
	if err != nil {
		Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paused": !st.Paused})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if err := s.Runner.Stop(r.PathValue("id")); err != nil {
		Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stopped": true})
}

// handleExport serves the finished translation as a DOCX download. The
// file exported at job completion is served when present; otherwise the
// document is generated on the fly from the job output.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	job, err := s.Jobs.FindJobByID(r.Context(), r.PathValue("id"))
	if err != nil {
		Error(w, r, err)
		return
	}

	name := fmt.Sprintf("translated_%s.docx", time.Now().Format("20060102_150405"))
	if job.OutputPath != "" {
		if _, err := os.Stat(job.OutputPath); err == nil {
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
			w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filepath.Base(job.OutputPath)))
			http.ServeFile(w, r, job.OutputPath)
			return
		}
	}

	if job.Output == "" || s.Exporter == nil {
		Error(w, r, tajreba.Errorf(tajreba.ENOTFOUND, "job %s has no output to export", job.ID))
		return
	}

	opts := tajreba.DefaultExportOptions(tajreba.DirectionForLang(job.TargetLang))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	if err := s.Exporter.Export(w, job.Output, opts); err != nil {
		// Headers are already written; nothing left to do but log-less
		// abort. The client sees a truncated download.
		return
	}
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.Models.Models(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	filter := tajreba.JobFilter{
		Offset: queryInt(r, "offset"),
		Limit:  queryInt(r, "limit"),
	}
	if v := r.URL.Query().Get("documentId"); v != "" {
		filter.DocumentID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := tajreba.JobStatus(v)
		filter.Status = &status
	}

	jobs, err := s.Jobs.FindJobs(r.Context(), filter)
	if err != nil {
		Error(w, r, err)
		return
	}
	// Outputs can be large; the listing omits them.
	for _, j := range jobs {
		j.Output = ""
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// Error writes an application error as a JSON response with the matching
// HTTP status code.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code := tajreba.ErrorCode(err)
	writeJSON(w, statusFromCode(code), errorResponse{Error: tajreba.ErrorMessage(err)})
}

// statusFromCode maps application error codes to HTTP status codes.
func statusFromCode(code string) int {
	switch code {
	case tajreba.ECONFLICT:
		return http.StatusConflict
	case tajreba.EINVALID:
		return http.StatusBadRequest
	case tajreba.ENOTFOUND:
		return http.StatusNotFound
	case tajreba.ENOTIMPLEMENTED:
		return http.StatusNotImplemented
	case tajreba.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
