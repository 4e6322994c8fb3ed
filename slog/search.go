package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sphinxdex"
)

// Ensure LoggingSearchService implements sphinxdex.SearchService.
var _ sphinxdex.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with debug logging.
type LoggingSearchService struct {
	next   sphinxdex.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next sphinxdex.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// Search delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) Search(ctx context.Context, query string, opts sphinxdex.SearchOptions) (results []sphinxdex.Result, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"projects", len(opts.ProjectIDs),
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, opts)
}
