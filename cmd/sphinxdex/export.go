package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/fs"
	"github.com/fwojciec/sphinxdex/searchjs"
	"gopkg.in/yaml.v3"
)

// exportIndex is the JSON and YAML form of an index. Document positions are
// replaced by document names and objects carry their page URL.
type exportIndex struct {
	Project      string                    `json:"project" yaml:"project"`
	BaseURL      string                    `json:"baseUrl" yaml:"baseUrl"`
	Documents    []exportDocument          `json:"documents" yaml:"documents"`
	Objects      []exportObject            `json:"objects" yaml:"objects"`
	Terms        map[string][]string       `json:"terms" yaml:"terms"`
	TitleTerms   map[string][]string       `json:"titleTerms" yaml:"titleTerms"`
	AllTitles    map[string][]exportAnchor `json:"allTitles,omitempty" yaml:"allTitles,omitempty"`
	IndexEntries map[string][]exportAnchor `json:"indexEntries,omitempty" yaml:"indexEntries,omitempty"`
}

type exportDocument struct {
	Name     string `json:"name" yaml:"name"`
	Filename string `json:"filename" yaml:"filename"`
	Title    string `json:"title" yaml:"title"`
	URL      string `json:"url" yaml:"url"`
}

type exportObject struct {
	Name     string `json:"name" yaml:"name"`
	Role     string `json:"role" yaml:"role"`
	Label    string `json:"label" yaml:"label"`
	Priority int    `json:"priority" yaml:"priority"`
	Document string `json:"document" yaml:"document"`
	URL      string `json:"url" yaml:"url"`
}

type exportAnchor struct {
	Document string `json:"document" yaml:"document"`
	Anchor   string `json:"anchor,omitempty" yaml:"anchor,omitempty"`
}

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	project, err := findProject(deps, c.Name)
	if err != nil {
		return err
	}

	idx, err := findIndex(deps, project)
	if err != nil {
		return err
	}

	if c.Output == "" {
		return encodeIndex(deps.Stdout, project, idx, c.Format)
	}

	err = fs.WriteFile(c.Output, func(f *fs.AtomicFile) error {
		return encodeIndex(f, project, idx, c.Format)
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Output)
	return nil
}

// encodeIndex writes idx in format: "js" for a searchindex.js file Sphinx's
// search page can load, "json" or "yaml" for a readable dump.
func encodeIndex(w io.Writer, project *sphinxdex.Project, idx *sphinxdex.Index, format string) error {
	switch format {
	case "", "js":
		return searchjs.Encode(w, idx)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newExportIndex(project, idx))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newExportIndex(project, idx)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return sphinxdex.Errorf(sphinxdex.EINVALID, "unknown export format %q", format)
	}
}

func newExportIndex(project *sphinxdex.Project, idx *sphinxdex.Index) *exportIndex {
	out := &exportIndex{
		Project:    project.Name,
		BaseURL:    project.BaseURL,
		Documents:  make([]exportDocument, 0, len(idx.DocNames)),
		Objects:    make([]exportObject, 0, len(idx.Objects)),
		Terms:      docNames(idx, idx.Terms),
		TitleTerms: docNames(idx, idx.TitleTerms),
	}

	for i := range idx.DocNames {
		doc, _ := idx.Doc(i)
		out.Documents = append(out.Documents, exportDocument{
			Name:     doc.DocName,
			Filename: doc.Filename,
			Title:    doc.Title,
			URL:      project.PageURL(doc.DocName, ""),
		})
	}

	for _, o := range idx.Objects {
		typ := idx.ObjType(o)
		doc, _ := idx.Doc(o.Doc)
		out.Objects = append(out.Objects, exportObject{
			Name:     o.FullName(),
			Role:     typ.Role,
			Label:    typ.Label,
			Priority: o.Prio,
			Document: doc.DocName,
			URL:      project.PageURL(doc.DocName, o.ResolveAnchor(typ)),
		})
	}
	sort.SliceStable(out.Objects, func(i, j int) bool {
		return out.Objects[i].Name < out.Objects[j].Name
	})

	out.AllTitles = exportAnchors(idx, idx.AllTitles)
	out.IndexEntries = exportAnchors(idx, idx.IndexEntries)
	return out
}

func docNames(idx *sphinxdex.Index, postings map[string][]int) map[string][]string {
	out := make(map[string][]string, len(postings))
	for term, docs := range postings {
		names := make([]string, 0, len(docs))
		for _, d := range docs {
			if doc, ok := idx.Doc(d); ok {
				names = append(names, doc.DocName)
			}
		}
		out[term] = names
	}
	return out
}

func exportAnchors(idx *sphinxdex.Index, anchors map[string][]sphinxdex.Anchor) map[string][]exportAnchor {
	if len(anchors) == 0 {
		return nil
	}
	out := make(map[string][]exportAnchor, len(anchors))
	for key, refs := range anchors {
		list := make([]exportAnchor, 0, len(refs))
		for _, a := range refs {
			doc, _ := idx.Doc(a.Doc)
			list = append(list, exportAnchor{Document: doc.DocName, Anchor: a.ID})
		}
		out[key] = list
	}
	return out
}
