package main

import (
	"fmt"

	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/crawl"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	// Force mode: delete existing project first
	if c.Force {
		existing, err := deps.Projects.FindProjects(deps.Ctx, sphinxdex.ProjectFilter{Name: &c.Name})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
			return err
		}
		if len(existing) > 0 {
			if err := deps.Projects.DeleteProject(deps.Ctx, existing[0].ID); err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
				return err
			}
		}
	}

	project := &sphinxdex.Project{
		Name:      c.Name,
		SourceURL: c.Source,
	}

	if err := deps.Projects.CreateProject(deps.Ctx, project); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added project %q (%s)\n", c.Name, project.ID)

	if deps.Importer == nil {
		return nil
	}

	result, err := deps.Importer.Import(deps.Ctx, project, true)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error importing: %s\n", sphinxdex.ErrorMessage(err))
		fmt.Fprintf(deps.Stderr, "The project was kept. Run 'sphinxdex update %s' to retry.\n", c.Name)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Imported %d documents, %d objects, %d terms (%s)\n",
		result.Stats.Documents, result.Stats.Objects, result.Stats.Terms, crawl.FormatBytes(result.Bytes))
	fmt.Fprintf(deps.Stdout, "  Index: %s\n", project.IndexURL)
	return nil
}
