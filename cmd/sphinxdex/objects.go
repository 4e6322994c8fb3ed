package main

import (
	"fmt"

	"github.com/fwojciec/sphinxdex"
)

// Run executes the objects command.
func (c *ObjectsCmd) Run(deps *Dependencies) error {
	filter := sphinxdex.ObjectFilter{Name: &c.Pattern, Limit: c.Limit}
	if c.Type != "" {
		filter.Role = &c.Type
	}

	var projects []*sphinxdex.Project
	if c.Project != "" {
		project, err := findProject(deps, c.Project)
		if err != nil {
			return err
		}
		filter.ProjectID = &project.ID
		projects = []*sphinxdex.Project{project}
	} else {
		all, err := deps.Projects.FindProjects(deps.Ctx, sphinxdex.ProjectFilter{})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
			return err
		}
		projects = all
	}

	matches, err := deps.Indexes.FindObjects(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintf(deps.Stdout, "No objects matching %q\n", c.Pattern)
		return nil
	}

	byID := make(map[string]*sphinxdex.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	for _, m := range matches {
		label := m.Type.Label
		if label == "" {
			label = m.Type.Role
		}
		fmt.Fprintf(deps.Stdout, "%s  (%s)\n", m.Object.FullName(), label)

		anchor := m.Object.ResolveAnchor(m.Type)
		if p, ok := byID[m.ProjectID]; ok {
			fmt.Fprintf(deps.Stdout, "    %s\n", p.PageURL(m.Doc.DocName, anchor))
		} else {
			fmt.Fprintf(deps.Stdout, "    %s#%s\n", m.Doc.DocName, anchor)
		}
	}

	return nil
}
