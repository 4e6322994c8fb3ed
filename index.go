package sphinxdex

import (
	"context"
	"sort"
)

// ObjectLayout identifies how a searchindex.js file serializes its objects table.
type ObjectLayout int

const (
	// LayoutNested is the layout used up to Sphinx 5:
	// prefix → name → [doc, type, prio, anchor].
	LayoutNested ObjectLayout = iota

	// LayoutList is the layout used from Sphinx 6 on:
	// prefix → [[doc, type, prio, anchor, name], ...].
	LayoutList
)

// Index is the in-memory form of a Sphinx search index.
//
// Document indices stored in Terms, TitleTerms, Objects, AllTitles and
// IndexEntries refer to positions in DocNames. Filenames and Titles are
// parallel to DocNames.
type Index struct {
	DocNames   []string       `json:"docnames"`
	Filenames  []string       `json:"filenames"`
	Titles     []string       `json:"titles"`
	EnvVersion map[string]int `json:"envversion,omitempty"`

	// Terms maps a stemmed word to the documents whose body contains it.
	Terms map[string][]int `json:"terms"`

	// TitleTerms maps a stemmed word to the documents whose title contains it.
	TitleTerms map[string][]int `json:"titleterms"`

	Objects  []Object        `json:"objects"`
	ObjTypes map[int]ObjType `json:"objtypes"`

	// Section titles and index entries, only present in Sphinx 6+ indexes.
	AllTitles    map[string][]Anchor `json:"alltitles,omitempty"`
	IndexEntries map[string][]Anchor `json:"indexentries,omitempty"`

	Layout ObjectLayout `json:"layout"`
}

// Object is a documented API symbol.
type Object struct {
	Prefix string `json:"prefix"`
	Name   string `json:"name"`
	Doc    int    `json:"doc"`
	Type   int    `json:"type"`
	Prio   int    `json:"prio"`
	Anchor string `json:"anchor"`
}

// FullName returns the dotted name of the object.
func (o Object) FullName() string {
	if o.Prefix == "" {
		return o.Name
	}
	return o.Prefix + "." + o.Name
}

// ResolveAnchor returns the HTML anchor of the object. Sphinx abbreviates the
// common cases: an empty anchor means the full name, "-" means the full name
// prefixed by the object type name.
func (o Object) ResolveAnchor(typ ObjType) string {
	switch o.Anchor {
	case "":
		return o.FullName()
	case "-":
		return typ.Name + "-" + o.FullName()
	default:
		return o.Anchor
	}
}

// ObjType describes an object type, e.g. Domain "py", Name "class",
// Label "Python class", Role "py:class".
type ObjType struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
	Label  string `json:"label"`
	Role   string `json:"role"`
}

// Anchor points at a location inside a document. ID is empty for the
// document itself.
type Anchor struct {
	Doc int    `json:"doc"`
	ID  string `json:"id"`
}

// DocRef identifies a document of an index.
type DocRef struct {
	Index    int    `json:"index"`
	DocName  string `json:"docname"`
	Filename string `json:"filename"`
	Title    string `json:"title"`
}

// Doc returns the document at position i.
// Returns false if i is out of range.
func (idx *Index) Doc(i int) (DocRef, bool) {
	if i < 0 || i >= len(idx.DocNames) {
		return DocRef{}, false
	}
	ref := DocRef{Index: i, DocName: idx.DocNames[i]}
	if i < len(idx.Filenames) {
		ref.Filename = idx.Filenames[i]
	}
	if i < len(idx.Titles) {
		ref.Title = idx.Titles[i]
	}
	return ref, true
}

// ObjType returns the type of the object, or a zero ObjType if the type is unknown.
func (idx *Index) ObjType(o Object) ObjType {
	return idx.ObjTypes[o.Type]
}

// SortObjects orders objects by prefix, then name.
func (idx *Index) SortObjects() {
	sort.SliceStable(idx.Objects, func(i, j int) bool {
		a, b := idx.Objects[i], idx.Objects[j]
		if a.Prefix != b.Prefix {
			return a.Prefix < b.Prefix
		}
		return a.Name < b.Name
	})
}

// IndexStats summarizes the size of an index.
type IndexStats struct {
	Documents    int `json:"documents"`
	Terms        int `json:"terms"`
	TitleTerms   int `json:"titleTerms"`
	Objects      int `json:"objects"`
	ObjTypes     int `json:"objTypes"`
	Titles       int `json:"titles"`
	IndexEntries int `json:"indexEntries"`
}

// Stats returns counts for each table of the index.
func (idx *Index) Stats() IndexStats {
	return IndexStats{
		Documents:    len(idx.DocNames),
		Terms:        len(idx.Terms),
		TitleTerms:   len(idx.TitleTerms),
		Objects:      len(idx.Objects),
		ObjTypes:     len(idx.ObjTypes),
		Titles:       len(idx.AllTitles),
		IndexEntries: len(idx.IndexEntries),
	}
}

// IndexService represents a service for storing search indexes.
type IndexService interface {
	// ReplaceIndex stores idx as the index of a project, replacing any previous one.
	// Returns EINVALID if the index fails validation.
	// Returns ENOTFOUND if the project does not exist.
	ReplaceIndex(ctx context.Context, projectID string, idx *Index) error

	// FindIndex retrieves the index of a project.
	// Returns ENOTFOUND if the project has no index.
	FindIndex(ctx context.Context, projectID string) (*Index, error)

	// FindObjects retrieves objects matching the filter across projects.
	FindObjects(ctx context.Context, filter ObjectFilter) ([]*ObjectMatch, error)

	// FindTermDocs returns the documents of a project containing an exact term,
	// either in their body or in their title.
	FindTermDocs(ctx context.Context, projectID, term string) ([]DocRef, error)

	// DeleteIndex removes the index of a project.
	// Returns ENOTFOUND if the project has no index.
	DeleteIndex(ctx context.Context, projectID string) error
}

// ObjectFilter represents a filter for FindObjects.
type ObjectFilter struct {
	// Name matches a case-insensitive substring of the object's full name.
	Name *string `json:"name"`

	// Role matches the object type role exactly (e.g., "py:class").
	Role *string `json:"role"`

	ProjectID *string `json:"projectId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ObjectMatch is an object found by FindObjects.
type ObjectMatch struct {
	ProjectID string  `json:"projectId"`
	Object    Object  `json:"object"`
	Type      ObjType `json:"type"`
	Doc       DocRef  `json:"doc"`
}
