package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/crawl"
	"github.com/fwojciec/sphinxdex/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Projects sphinxdex.ProjectService
	Indexes  sphinxdex.IndexService
	Search   sphinxdex.SearchService
	Importer *crawl.Importer
	Asker    sphinxdex.Asker
	Stemmer  sphinxdex.Stemmer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB          string        `name:"db" env:"SPHINXDEX_DB" help:"Database path (default ~/.sphinxdex/sphinxdex.db)"`
	Verbose     bool          `short:"v" help:"Log operations to stderr"`
	Timeout     time.Duration `default:"30s" help:"HTTP request timeout"`
	RPS         float64       `name:"rps" default:"2" help:"Requests per second per documentation host (0 disables limiting)"`
	Concurrency int           `short:"c" default:"4" help:"Projects processed concurrently"`

	Add      AddCmd      `cmd:"" help:"Add a Sphinx project and import its search index"`
	Update   UpdateCmd   `cmd:"" help:"Re-import the search index of one or all projects"`
	List     ListCmd     `cmd:"" help:"List all registered projects"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a project and its index"`
	Docs     DocsCmd     `cmd:"" help:"List the documents of a project"`
	Search   SearchCmd   `cmd:"" help:"Search the indexes of registered projects"`
	Objects  ObjectsCmd  `cmd:"" help:"Find API objects by name"`
	Validate ValidateCmd `cmd:"" help:"Check search index files for out of range references"`
	Export   ExportCmd   `cmd:"" help:"Write a stored index as searchindex.js, JSON or YAML"`
	Ask      AskCmd      `cmd:"" help:"Ask a question about project documentation"`
	Stats    StatsCmd    `cmd:"" help:"Show index statistics"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Name   string `arg:"" help:"Project name"`
	Source string `arg:"" help:"Page URL, searchindex.js URL or local build directory"`
	Force  bool   `short:"f" help:"Replace an existing project with the same name"`
}

// UpdateCmd is the "update" subcommand.
type UpdateCmd struct {
	Name  string `arg:"" optional:"" help:"Project name (all projects when omitted)"`
	Force bool   `short:"f" help:"Store the index even when it is unchanged"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Project name"`
	Force bool   `help:"Confirm deletion"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Name string `arg:"" help:"Project name"`
	Term string `short:"t" help:"Only list documents containing this word"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string   `arg:"" help:"Search query; prefix a word with - to exclude it"`
	Projects []string `short:"p" name:"project" help:"Restrict to project (repeatable)"`
	Limit    int      `short:"n" default:"10" help:"Maximum number of results"`
	JSON     bool     `name:"json" help:"Print results as JSON"`
	Any      bool     `help:"Match documents containing any of the words"`
}

// ObjectsCmd is the "objects" subcommand.
type ObjectsCmd struct {
	Pattern string `arg:"" help:"Substring of the object's full name"`
	Project string `short:"p" help:"Restrict to project"`
	Type    string `short:"t" help:"Object role (e.g. py:class)"`
	Limit   int    `short:"n" default:"50" help:"Maximum number of objects"`
}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct {
	Sources []string `arg:"" help:"searchindex.js files, build directories or URLs"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Name   string `arg:"" help:"Project name"`
	Format string `enum:"js,json,yaml" default:"js" help:"Output format (js, json, yaml)"`
	Output string `short:"o" type:"path" help:"Write to file instead of stdout"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Name     string `arg:"" help:"Project name"`
	Question string `arg:"" help:"Question to ask about the documentation"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct {
	Name string `arg:"" optional:"" help:"Project name (all projects when omitted)"`
}

// findProject looks a project up by name and reports a missing one to the
// user.
func findProject(deps *Dependencies, name string) (*sphinxdex.Project, error) {
	projects, err := deps.Projects.FindProjects(deps.Ctx, sphinxdex.ProjectFilter{Name: &name})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
		return nil, err
	}

	if len(projects) == 0 {
		fmt.Fprintf(deps.Stderr, "error: project %q not found. Use 'sphinxdex list' to see available projects.\n", name)
		return nil, sphinxdex.Errorf(sphinxdex.ENOTFOUND, "project %q not found", name)
	}
	return projects[0], nil
}

// findIndex loads a project's index and explains a missing one.
func findIndex(deps *Dependencies, project *sphinxdex.Project) (*sphinxdex.Index, error) {
	idx, err := deps.Indexes.FindIndex(deps.Ctx, project.ID)
	if sphinxdex.ErrorCode(err) == sphinxdex.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: project %q has no index. Run 'sphinxdex update %s' to import it.\n", project.Name, project.Name)
		return nil, err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
		return nil, err
	}
	return idx, nil
}
