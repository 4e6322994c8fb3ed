package sphinxdex

import "context"

// Stemmer reduces a lowercase word to its stem, the form stored in the
// terms and titleterms tables.
type Stemmer interface {
	Stem(word string) string
}

// ResultKind identifies which part of the index produced a search result.
type ResultKind string

// Result kinds, in the order Sphinx evaluates them.
const (
	KindTitle  ResultKind = "title"
	KindObject ResultKind = "object"
	KindText   ResultKind = "text"
)

// Result is a single hit of a search.
type Result struct {
	ProjectID   string     `json:"projectId,omitempty"`
	Doc         DocRef     `json:"doc"`
	Title       string     `json:"title"`
	Anchor      string     `json:"anchor,omitempty"`
	Description string     `json:"description,omitempty"`
	Score       int        `json:"score"`
	Kind        ResultKind `json:"kind"`
}

// SearchOptions configures a search across projects.
type SearchOptions struct {
	// ProjectIDs restricts the search. All projects are searched when empty.
	ProjectIDs []string `json:"projectIds,omitempty"`

	// Limit caps the number of results. Zero means no limit.
	Limit int `json:"limit,omitempty"`

	// MatchAny returns documents matching any of the query words instead of
	// all of them, skipping question words. Suited to natural language
	// questions.
	MatchAny bool `json:"matchAny,omitempty"`
}

// SearchService searches stored indexes.
type SearchService interface {
	// Search returns results ordered by descending score.
	Search(ctx context.Context, query string, opts SearchOptions) ([]Result, error)
}
