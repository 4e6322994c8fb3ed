package main

import (
	"fmt"

	"github.com/fwojciec/sphinxdex"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	project, err := findProject(deps, c.Name)
	if err != nil {
		return err
	}

	answer, err := deps.Asker.Ask(deps.Ctx, project.ID, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
