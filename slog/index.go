package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sphinxdex"
)

// Ensure LoggingIndexService implements sphinxdex.IndexService.
var _ sphinxdex.IndexService = (*LoggingIndexService)(nil)

// LoggingIndexService wraps an IndexService with debug logging.
type LoggingIndexService struct {
	next   sphinxdex.IndexService
	logger *slog.Logger
}

// NewLoggingIndexService creates a new LoggingIndexService.
func NewLoggingIndexService(next sphinxdex.IndexService, logger *slog.Logger) *LoggingIndexService {
	return &LoggingIndexService{next: next, logger: logger}
}

func (s *LoggingIndexService) ReplaceIndex(ctx context.Context, projectID string, idx *sphinxdex.Index) (err error) {
	defer func(begin time.Time) {
		var stats sphinxdex.IndexStats
		if idx != nil {
			stats = idx.Stats()
		}
		s.logger.Info("replace index",
			"project", projectID,
			"documents", stats.Documents,
			"terms", stats.Terms,
			"objects", stats.Objects,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReplaceIndex(ctx, projectID, idx)
}

func (s *LoggingIndexService) FindIndex(ctx context.Context, projectID string) (idx *sphinxdex.Index, err error) {
	defer func(begin time.Time) {
		documents := 0
		if idx != nil {
			documents = len(idx.DocNames)
		}
		s.logger.Info("find index",
			"project", projectID,
			"documents", documents,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindIndex(ctx, projectID)
}

func (s *LoggingIndexService) FindObjects(ctx context.Context, filter sphinxdex.ObjectFilter) (matches []*sphinxdex.ObjectMatch, err error) {
	defer func(begin time.Time) {
		var name string
		if filter.Name != nil {
			name = *filter.Name
		}
		s.logger.Info("find objects",
			"name", name,
			"count", len(matches),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindObjects(ctx, filter)
}

func (s *LoggingIndexService) FindTermDocs(ctx context.Context, projectID, term string) (docs []sphinxdex.DocRef, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find term docs",
			"project", projectID,
			"term", term,
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindTermDocs(ctx, projectID, term)
}

func (s *LoggingIndexService) DeleteIndex(ctx context.Context, projectID string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete index",
			"project", projectID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteIndex(ctx, projectID)
}
