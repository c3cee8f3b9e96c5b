package main

import (
	"fmt"

	"github.com/ayoubaydy/tajreba"
)

// Run executes the models command.
func (c *ModelsCmd) Run(deps *Dependencies) error {
	models, err := deps.Models.Models(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tajreba.ErrorMessage(err))
		return err
	}

	if len(models) == 0 {
		fmt.Fprintln(deps.Stdout, "No models installed. Pull one with 'ollama pull'.")
		return nil
	}

	for _, m := range models {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", m.Name, formatBytes(m.Size))
	}
	return nil
}

// formatBytes renders a size in a human readable unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
