package main

import (
	"fmt"

	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/crawl"
)

// Run executes the update command.
func (c *UpdateCmd) Run(deps *Dependencies) error {
	var projects []*sphinxdex.Project
	if c.Name != "" {
		project, err := findProject(deps, c.Name)
		if err != nil {
			return err
		}
		projects = []*sphinxdex.Project{project}
	} else {
		all, err := deps.Projects.FindProjects(deps.Ctx, sphinxdex.ProjectFilter{})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
			return err
		}
		if len(all) == 0 {
			fmt.Fprintln(deps.Stdout, "No projects found. Use 'sphinxdex add' to create one.")
			return nil
		}
		projects = all
	}

	progress := func(event crawl.ProgressEvent) {
		if event.Type == crawl.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.Project, sphinxdex.ErrorMessage(event.Error))
		}
	}

	results, err := deps.Importer.ImportAll(deps.Ctx, projects, c.Force, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	var failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
		case r.Changed:
			fmt.Fprintf(deps.Stdout, "%s: updated (%d documents, %s)\n",
				r.Project.Name, r.Stats.Documents, crawl.FormatBytes(r.Bytes))
		default:
			fmt.Fprintf(deps.Stdout, "%s: unchanged\n", r.Project.Name)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d projects failed to update", failed, len(results))
	}
	return nil
}
