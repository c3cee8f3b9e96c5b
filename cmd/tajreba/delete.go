package main

import (
	"fmt"

	"github.com/ayoubaydy/tajreba"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		err := fmt.Errorf("deleting a document removes its jobs too; rerun with --force to confirm")
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	doc, err := deps.Documents.FindDocumentByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tajreba.ErrorMessage(err))
		return err
	}

	if err := deps.Documents.DeleteDocument(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tajreba.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %q (%s)\n", doc.Name, doc.ID)
	return nil
}
