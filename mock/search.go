package mock

import (
	"context"

	"github.com/fwojciec/sphinxdex"
)

var _ sphinxdex.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of sphinxdex.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts sphinxdex.SearchOptions) ([]sphinxdex.Result, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts sphinxdex.SearchOptions) ([]sphinxdex.Result, error) {
	return s.SearchFn(ctx, query, opts)
}

var _ sphinxdex.Stemmer = (*Stemmer)(nil)

// Stemmer is a mock implementation of sphinxdex.Stemmer.
type Stemmer struct {
	StemFn func(word string) string
}

func (s *Stemmer) Stem(word string) string {
	return s.StemFn(word)
}
