package sphinxdex

import (
	"fmt"
	"strings"
)

// FormatResults formats search results for display or LLM context.
// Results are numbered and separated by blank lines. Each result is linked
// through the project matching its ProjectID; a single project is used for
// every result. Without a matching project, document names are shown instead
// of URLs. When several projects are given, each result names its project.
func FormatResults(projects []*Project, results []Result) string {
	if len(results) == 0 {
		return ""
	}

	byID := make(map[string]*Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.Doc.DocName
		}

		project, ok := byID[r.ProjectID]
		if !ok && len(projects) == 1 {
			project = projects[0]
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%d. %s [%s]", i+1, title, r.Kind)
		if project != nil && len(projects) > 1 {
			fmt.Fprintf(&sb, " (%s)", project.Name)
		}
		sb.WriteString("\n")

		switch {
		case project != nil:
			sb.WriteString("   " + project.PageURL(r.Doc.DocName, r.Anchor))
		case r.Anchor != "":
			sb.WriteString("   " + r.Doc.DocName + "#" + r.Anchor)
		default:
			sb.WriteString("   " + r.Doc.DocName)
		}
		if r.Description != "" {
			sb.WriteString("\n   " + r.Description)
		}
		parts = append(parts, sb.String())
	}

	return strings.Join(parts, "\n\n")
}
