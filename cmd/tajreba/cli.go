package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/ayoubaydy/tajreba"
	"github.com/ayoubaydy/tajreba/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB         *sqlite.DB
	Documents  tajreba.DocumentService
	Jobs       tajreba.JobService
	Cache      tajreba.TranslationCache
	Models     tajreba.ModelLister
	Runner     tajreba.JobRunner
	Extractors *tajreba.ExtractorRegistry
	Exporter   tajreba.Exporter
	Store      tajreba.FileStore
	Fetcher    tajreba.Fetcher
	Pages      tajreba.PageExtractor
	Converter  tajreba.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve     ServeCmd     `cmd:"" help:"Run the web UI and JSON API"`
	Translate TranslateCmd `cmd:"" help:"Translate a file or URL to a DOCX document"`
	Models    ModelsCmd    `cmd:"" help:"List models installed on the inference backend"`
	Jobs      JobsCmd      `cmd:"" help:"List translation job history"`
	Delete    DeleteCmd    `cmd:"" help:"Delete a stored document and its jobs"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr        string  `default:"127.0.0.1:5000" help:"Bind address for the web server"`
	Uploads     string  `help:"Directory for uploaded files (defaults to the data directory)"`
	Output      string  `help:"Directory for exported documents (defaults to the data directory)"`
	OllamaURL   string  `name:"ollama-url" help:"Ollama endpoint (defaults to OLLAMA_HOST or http://localhost:11434)"`
	Concurrency int     `short:"c" default:"1" help:"Chunks translated in parallel"`
	RPS         float64 `default:"1" help:"Model requests per second"`
	Verbose     bool    `short:"v" help:"Enable debug logging"`
}

// TranslateCmd is the "translate" subcommand.
type TranslateCmd struct {
	Source string `arg:"" help:"File path or URL to translate"`

	Output       string  `short:"o" help:"Directory for the exported document (defaults to the working directory)"`
	Model        string  `short:"m" help:"Model to translate with (required for the ollama backend)"`
	SourceLang   string  `name:"source" default:"en" help:"Source language tag"`
	TargetLang   string  `name:"target" default:"ar" help:"Target language tag"`
	Backend      string  `default:"ollama" enum:"ollama,gemini" help:"Inference backend"`
	OllamaURL    string  `name:"ollama-url" help:"Ollama endpoint (defaults to OLLAMA_HOST or http://localhost:11434)"`
	ChunkSize    int     `help:"Characters per chunk (0 picks a size from the document length)"`
	Prompt       string  `help:"Custom prompt instructions"`
	PromptMode   string  `name:"prompt-mode" default:"append" enum:"append,replace" help:"How the custom prompt combines with the built-in one"`
	RenderJS     bool    `name:"render-js" help:"Render URLs in a headless browser before extracting"`
	KeepThinking bool    `name:"keep-thinking" help:"Keep reasoning-model thought lines in the output"`
	Concurrency  int     `short:"c" default:"1" help:"Chunks translated in parallel"`
	RPS          float64 `default:"1" help:"Model requests per second"`
	Verbose      bool    `short:"v" help:"Enable debug logging"`
}

// ModelsCmd is the "models" subcommand.
type ModelsCmd struct {
	OllamaURL string `name:"ollama-url" help:"Ollama endpoint (defaults to OLLAMA_HOST or http://localhost:11434)"`
}

// JobsCmd is the "jobs" subcommand.
type JobsCmd struct {
	Status string `help:"Filter by job status (pending, running, completed, stopped, failed)"`
	Limit  int    `default:"20" help:"Maximum number of jobs to list"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Document ID"`
	Force bool   `help:"Confirm deletion"`
}
