package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"google.golang.org/genai"

	"github.com/ayoubaydy/tajreba"
	"github.com/ayoubaydy/tajreba/docx"
	"github.com/ayoubaydy/tajreba/epub"
	"github.com/ayoubaydy/tajreba/fs"
	"github.com/ayoubaydy/tajreba/gemini"
	"github.com/ayoubaydy/tajreba/goquery"
	"github.com/ayoubaydy/tajreba/htmltomarkdown"
	tajrebahttp "github.com/ayoubaydy/tajreba/http"
	"github.com/ayoubaydy/tajreba/ollama"
	"github.com/ayoubaydy/tajreba/pdf"
	"github.com/ayoubaydy/tajreba/rod"
	tajrebaslog "github.com/ayoubaydy/tajreba/slog"
	"github.com/ayoubaydy/tajreba/sqlite"
	"github.com/ayoubaydy/tajreba/trafilatura"
	"github.com/ayoubaydy/tajreba/translate"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	DocumentService tajreba.DocumentService
	JobService      tajreba.JobService

	// Cleanup functions run after the command finishes.
	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if cerr := m.closers[i](); cerr != nil && err == nil {
			err = cerr
		}
	}
	m.closers = nil
	if m.DB != nil {
		if cerr := m.DB.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tajreba"),
		kong.Description("Translate books and documents with a locally hosted model."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tajreba --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set TAJREBA_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.DocumentService = sqlite.NewDocumentService(m.DB)
	m.JobService = sqlite.NewJobService(m.DB)
	deps.DB = m.DB
	deps.Documents = m.DocumentService
	deps.Jobs = m.JobService

	cache, err := sqlite.NewCacheService(ctx, m.DB)
	if err != nil {
		return fmt.Errorf("failed to open translation cache: %w", err)
	}
	deps.Cache = cache

	deps.Extractors = newExtractorRegistry()
	deps.Exporter = docx.NewWriter()
	deps.Converter = htmltomarkdown.NewConverter()
	deps.Pages = trafilatura.NewExtractor()

	switch cmd {
	case "serve":
		if err := m.wireServe(deps, &cli.Serve); err != nil {
			return err
		}
	case "translate":
		if err := m.wireTranslate(ctx, deps, &cli.Translate); err != nil {
			return err
		}
	case "models":
		deps.Models = ollama.NewClient(cli.Models.OllamaURL)
	}

	return kongCtx.Run(deps)
}

// wireServe assembles the web server's dependencies.
func (m *Main) wireServe(deps *Dependencies, cmd *ServeCmd) error {
	deps.Logger = newLogger(deps.Stderr, cmd.Verbose)

	uploads := cmd.Uploads
	if uploads == "" {
		uploads = filepath.Join(filepath.Dir(m.DBPath), "uploads")
	}
	store, err := fs.NewStore(uploads)
	if err != nil {
		return fmt.Errorf("failed to create upload directory %q: %w", uploads, err)
	}
	deps.Store = store

	output := cmd.Output
	if output == "" {
		output = filepath.Join(filepath.Dir(m.DBPath), "exports")
	}

	client := ollama.NewClient(cmd.OllamaURL)
	deps.Models = client

	fetcher := tajrebahttp.NewFetcher()
	deps.Fetcher = tajrebaslog.NewLoggingFetcher(fetcher, deps.Logger)
	m.closers = append(m.closers, fetcher.Close)

	deps.Runner = &translate.Engine{
		Translator:  tajrebaslog.NewLoggingTranslator(client, deps.Logger),
		Cache:       deps.Cache,
		Documents:   deps.Documents,
		Jobs:        deps.Jobs,
		Exporter:    deps.Exporter,
		Limiter:     translate.NewHostLimiter(cmd.RPS),
		LimitKey:    client.Host(),
		OutputDir:   output,
		Concurrency: cmd.Concurrency,
	}
	return nil
}

// wireTranslate assembles the one-shot translation dependencies.
func (m *Main) wireTranslate(ctx context.Context, deps *Dependencies, cmd *TranslateCmd) error {
	deps.Logger = newLogger(deps.Stderr, cmd.Verbose)

	var translator tajreba.Translator
	var limitKey string
	switch cmd.Backend {
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(deps.Stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		translator = gemini.NewTranslator(client)
		limitKey = "generativelanguage.googleapis.com"
	default:
		if cmd.Model == "" {
			return fmt.Errorf("--model is required. Run 'tajreba models' to list installed models")
		}
		client := ollama.NewClient(cmd.OllamaURL)
		translator = client
		limitKey = client.Host()
	}

	if isURL(cmd.Source) {
		if cmd.RenderJS {
			fetcher, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for --render-js")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			deps.Fetcher = tajrebaslog.NewLoggingFetcher(fetcher, deps.Logger)
			m.closers = append(m.closers, fetcher.Close)
		} else {
			fetcher := tajrebahttp.NewFetcher()
			deps.Fetcher = tajrebaslog.NewLoggingFetcher(fetcher, deps.Logger)
			m.closers = append(m.closers, fetcher.Close)
		}
	}

	output := cmd.Output
	if output == "" {
		output = "."
	}

	deps.Runner = &translate.Engine{
		Translator:   tajrebaslog.NewLoggingTranslator(translator, deps.Logger),
		Cache:        deps.Cache,
		Documents:    deps.Documents,
		Jobs:         deps.Jobs,
		Exporter:     deps.Exporter,
		Limiter:      translate.NewHostLimiter(cmd.RPS),
		LimitKey:     limitKey,
		OutputDir:    output,
		Concurrency:  cmd.Concurrency,
		KeepThinking: cmd.KeepThinking,
	}
	return nil
}

// newExtractorRegistry registers an extractor for every supported format.
func newExtractorRegistry() *tajreba.ExtractorRegistry {
	registry := tajreba.NewExtractorRegistry()
	registry.Register(tajreba.FormatText, &fs.Extractor{})
	registry.Register(tajreba.FormatDOCX, docx.NewExtractor())
	registry.Register(tajreba.FormatEPUB, epub.NewExtractor())
	registry.Register(tajreba.FormatPDF, pdf.NewExtractor())
	registry.Register(tajreba.FormatHTML, goquery.NewExtractor())
	return registry
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("TAJREBA_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "tajreba.db"
	}
	dir := filepath.Join(home, ".tajreba")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "tajreba.db")
}
