package sphinxdex

import (
	"context"
	"strings"
	"time"
)

// Project represents a Sphinx documentation site whose search index is tracked.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// SourceURL is what the user registered: a page of the site, a
	// searchindex.js URL or a local path.
	SourceURL string `json:"sourceUrl"`

	// IndexURL is where the search index was last loaded from.
	IndexURL string `json:"indexUrl"`

	// BaseURL is the documentation root that document names are relative to.
	BaseURL string `json:"baseUrl"`

	// FileSuffix is appended to document names to build page URLs.
	// Empty for dirhtml builds.
	FileSuffix string `json:"fileSuffix"`

	// IndexHash is the xxHash of the last imported index payload.
	IndexHash string `json:"indexHash"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the project contains invalid fields.
func (p *Project) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "project name required")
	}
	if p.SourceURL == "" {
		return Errorf(EINVALID, "project source URL required")
	}
	return nil
}

// PageURL returns the URL of a document, with an optional anchor.
func (p *Project) PageURL(docname, anchor string) string {
	base := p.BaseURL
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}

	var u string
	switch {
	case p.FileSuffix != "":
		u = base + docname + p.FileSuffix
	case docname == "index":
		u = base
	case strings.HasSuffix(docname, "/index"):
		u = base + strings.TrimSuffix(docname, "index")
	default:
		u = base + docname + "/"
	}

	if anchor != "" {
		u += "#" + anchor
	}
	return u
}

// ProjectService represents a service for managing projects.
type ProjectService interface {
	// CreateProject creates a new project.
	// Returns ECONFLICT if a project with the same name exists.
	CreateProject(ctx context.Context, project *Project) error

	// FindProjectByID retrieves a project by ID.
	// Returns ENOTFOUND if project does not exist.
	FindProjectByID(ctx context.Context, id string) (*Project, error)

	// FindProjects retrieves projects matching the filter.
	FindProjects(ctx context.Context, filter ProjectFilter) ([]*Project, error)

	// UpdateProject updates an existing project.
	// Returns ENOTFOUND if project does not exist.
	UpdateProject(ctx context.Context, id string, upd ProjectUpdate) (*Project, error)

	// DeleteProject permanently removes a project and its index.
	// Returns ENOTFOUND if project does not exist.
	DeleteProject(ctx context.Context, id string) error
}

// ProjectFilter represents a filter for FindProjects.
type ProjectFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ProjectUpdate represents fields that can be updated on a project.
type ProjectUpdate struct {
	Name       *string `json:"name"`
	SourceURL  *string `json:"sourceUrl"`
	IndexURL   *string `json:"indexUrl"`
	BaseURL    *string `json:"baseUrl"`
	FileSuffix *string `json:"fileSuffix"`
	IndexHash  *string `json:"indexHash"`
}
