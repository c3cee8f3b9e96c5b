package main

import (
	"fmt"

	"github.com/ayoubaydy/tajreba"
)

// Run executes the jobs command.
func (c *JobsCmd) Run(deps *Dependencies) error {
	filter := tajreba.JobFilter{Limit: c.Limit}
	if c.Status != "" {
		status := tajreba.JobStatus(c.Status)
		filter.Status = &status
	}

	jobs, err := deps.Jobs.FindJobs(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tajreba.ErrorMessage(err))
		return err
	}

	if len(jobs) == 0 {
		fmt.Fprintln(deps.Stdout, "No jobs found.")
		return nil
	}

	for _, j := range jobs {
		fmt.Fprintf(deps.Stdout, "%s  %-9s  %s->%s  %s  %d/%d chunks\n",
			j.ID, j.Status, j.SourceLang, j.TargetLang, j.Model, j.DoneChunks, j.TotalChunks)
	}
	return nil
}
