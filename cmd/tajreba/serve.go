package main

import (
	"fmt"

	tajrebahttp "github.com/ayoubaydy/tajreba/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := tajrebahttp.NewServer()
	srv.Addr = c.Addr
	srv.Logger = deps.Logger
	srv.Documents = deps.Documents
	srv.Jobs = deps.Jobs
	srv.Runner = deps.Runner
	srv.Models = deps.Models
	srv.Extractors = deps.Extractors
	srv.Exporter = deps.Exporter
	srv.Store = deps.Store
	srv.Fetcher = deps.Fetcher
	srv.Pages = deps.Pages
	srv.Converter = deps.Converter

	if err := srv.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	defer srv.Close()

	fmt.Fprintf(deps.Stdout, "tajreba listening on %s\n", srv.URL())

	<-deps.Ctx.Done()
	fmt.Fprintln(deps.Stdout, "shutting down")
	return nil
}
