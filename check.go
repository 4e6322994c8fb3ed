package sphinxdex

import (
	"fmt"
	"sort"
)

// Index sections as reported in problems.
const (
	SectionFilenames    = "filenames"
	SectionTitles       = "titles"
	SectionTerms        = "terms"
	SectionTitleTerms   = "titleterms"
	SectionObjects      = "objects"
	SectionAllTitles    = "alltitles"
	SectionIndexEntries = "indexentries"
)

// Problem describes a single structural defect of an index.
type Problem struct {
	Section string `json:"section"`
	Key     string `json:"key,omitempty"`
	Doc     int    `json:"doc"`
	Message string `json:"message"`
}

// String returns a human readable form of the problem.
func (p Problem) String() string {
	if p.Key == "" {
		return fmt.Sprintf("%s: %s", p.Section, p.Message)
	}
	return fmt.Sprintf("%s[%q]: %s", p.Section, p.Key, p.Message)
}

// Check returns every structural problem of the index. The parallel arrays
// must have one entry per document and every document reference must fall
// within the bounds of DocNames. Problems are ordered by section, then key.
func (idx *Index) Check() []Problem {
	var problems []Problem
	n := len(idx.DocNames)

	if len(idx.Filenames) != n {
		problems = append(problems, Problem{
			Section: SectionFilenames,
			Doc:     -1,
			Message: fmt.Sprintf("has %d entries, want %d", len(idx.Filenames), n),
		})
	}
	if len(idx.Titles) != n {
		problems = append(problems, Problem{
			Section: SectionTitles,
			Doc:     -1,
			Message: fmt.Sprintf("has %d entries, want %d", len(idx.Titles), n),
		})
	}

	problems = append(problems, checkPostings(SectionTerms, idx.Terms, n)...)
	problems = append(problems, checkPostings(SectionTitleTerms, idx.TitleTerms, n)...)

	for _, o := range idx.Objects {
		if o.Doc < 0 || o.Doc >= n {
			problems = append(problems, outOfRange(SectionObjects, o.FullName(), o.Doc, n))
		}
		if _, ok := idx.ObjTypes[o.Type]; !ok {
			problems = append(problems, Problem{
				Section: SectionObjects,
				Key:     o.FullName(),
				Doc:     o.Doc,
				Message: fmt.Sprintf("unknown object type %d", o.Type),
			})
		}
	}

	problems = append(problems, checkAnchors(SectionAllTitles, idx.AllTitles, n)...)
	problems = append(problems, checkAnchors(SectionIndexEntries, idx.IndexEntries, n)...)

	sort.SliceStable(problems, func(i, j int) bool {
		if problems[i].Section != problems[j].Section {
			return problems[i].Section < problems[j].Section
		}
		return problems[i].Key < problems[j].Key
	})
	return problems
}

// Validate returns an EINVALID error describing the first problem found by
// Check, or nil if the index is well formed.
func (idx *Index) Validate() error {
	problems := idx.Check()
	switch len(problems) {
	case 0:
		return nil
	case 1:
		return Errorf(EINVALID, "invalid search index: %s", problems[0])
	default:
		return Errorf(EINVALID, "invalid search index: %s (and %d more problems)", problems[0], len(problems)-1)
	}
}

func checkPostings(section string, postings map[string][]int, n int) []Problem {
	var problems []Problem
	for key, docs := range postings {
		for _, doc := range docs {
			if doc < 0 || doc >= n {
				problems = append(problems, outOfRange(section, key, doc, n))
			}
		}
	}
	return problems
}

func checkAnchors(section string, anchors map[string][]Anchor, n int) []Problem {
	var problems []Problem
	for key, refs := range anchors {
		for _, ref := range refs {
			if ref.Doc < 0 || ref.Doc >= n {
				problems = append(problems, outOfRange(section, key, ref.Doc, n))
			}
		}
	}
	return problems
}

func outOfRange(section, key string, doc, n int) Problem {
	return Problem{
		Section: section,
		Key:     key,
		Doc:     doc,
		Message: fmt.Sprintf("document %d out of range [0, %d)", doc, n),
	}
}
