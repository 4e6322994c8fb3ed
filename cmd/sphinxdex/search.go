package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/sphinxdex"
)

// searchResult is a search result as printed by --json.
type searchResult struct {
	Project string `json:"project"`
	URL     string `json:"url"`
	sphinxdex.Result
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	var projects []*sphinxdex.Project
	for _, name := range c.Projects {
		project, err := findProject(deps, name)
		if err != nil {
			return err
		}
		projects = append(projects, project)
	}
	if len(projects) == 0 {
		all, err := deps.Projects.FindProjects(deps.Ctx, sphinxdex.ProjectFilter{})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
			return err
		}
		projects = all
	}

	opts := sphinxdex.SearchOptions{Limit: c.Limit, MatchAny: c.Any}
	if len(c.Projects) > 0 {
		for _, p := range projects {
			opts.ProjectIDs = append(opts.ProjectIDs, p.ID)
		}
	}

	results, err := deps.Search.Search(deps.Ctx, c.Query, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return printJSON(deps, projects, results)
	}

	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q\n", c.Query)
		return nil
	}

	fmt.Fprintln(deps.Stdout, sphinxdex.FormatResults(projects, results))
	return nil
}

func printJSON(deps *Dependencies, projects []*sphinxdex.Project, results []sphinxdex.Result) error {
	byID := make(map[string]*sphinxdex.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	out := make([]searchResult, 0, len(results))
	for _, r := range results {
		sr := searchResult{Result: r}
		if p, ok := byID[r.ProjectID]; ok {
			sr.Project = p.Name
			sr.URL = p.PageURL(r.Doc.DocName, r.Anchor)
		}
		out = append(out, sr)
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
