package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/sphinxdex"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
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
		projects = all
	}

	if len(projects) == 0 {
		fmt.Fprintln(deps.Stdout, "No projects found. Use 'sphinxdex add' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tDOCS\tTERMS\tTITLETERMS\tOBJECTS\tTITLES\tENTRIES\tHASH")
	for _, p := range projects {
		idx, err := deps.Indexes.FindIndex(deps.Ctx, p.ID)
		if sphinxdex.ErrorCode(err) == sphinxdex.ENOTFOUND {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t-\t-\n", p.Name)
			continue
		} else if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
			return err
		}

		s := idx.Stats()
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			p.Name, s.Documents, s.Terms, s.TitleTerms, s.Objects, s.Titles, s.IndexEntries, p.IndexHash)
	}
	return w.Flush()
}
