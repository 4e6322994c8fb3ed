package mock

import (
	"context"

	"github.com/fwojciec/sphinxdex"
)

var _ sphinxdex.IndexService = (*IndexService)(nil)

// IndexService is a mock implementation of sphinxdex.IndexService.
type IndexService struct {
	ReplaceIndexFn func(ctx context.Context, projectID string, idx *sphinxdex.Index) error
	FindIndexFn    func(ctx context.Context, projectID string) (*sphinxdex.Index, error)
	FindObjectsFn  func(ctx context.Context, filter sphinxdex.ObjectFilter) ([]*sphinxdex.ObjectMatch, error)
	FindTermDocsFn func(ctx context.Context, projectID, term string) ([]sphinxdex.DocRef, error)
	DeleteIndexFn  func(ctx context.Context, projectID string) error
}

func (s *IndexService) ReplaceIndex(ctx context.Context, projectID string, idx *sphinxdex.Index) error {
	return s.ReplaceIndexFn(ctx, projectID, idx)
}

func (s *IndexService) FindIndex(ctx context.Context, projectID string) (*sphinxdex.Index, error) {
	return s.FindIndexFn(ctx, projectID)
}

func (s *IndexService) FindObjects(ctx context.Context, filter sphinxdex.ObjectFilter) ([]*sphinxdex.ObjectMatch, error) {
	return s.FindObjectsFn(ctx, filter)
}

func (s *IndexService) FindTermDocs(ctx context.Context, projectID, term string) ([]sphinxdex.DocRef, error) {
	return s.FindTermDocsFn(ctx, projectID, term)
}

func (s *IndexService) DeleteIndex(ctx context.Context, projectID string) error {
	return s.DeleteIndexFn(ctx, projectID)
}
