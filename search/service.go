package search

import (
	"context"

	"github.com/fwojciec/sphinxdex"
	"golang.org/x/sync/errgroup"
)

// Ensure Service implements sphinxdex.SearchService at compile time.
var _ sphinxdex.SearchService = (*Service)(nil)

// Service searches the stored indexes of several projects at once.
type Service struct {
	Projects sphinxdex.ProjectService
	Indexes  sphinxdex.IndexService
	Searcher *Searcher

	// Concurrency bounds the number of indexes loaded at the same time.
	Concurrency int
}

// Search runs query against each selected project and merges the results.
// Projects that have no index yet are skipped.
func (s *Service) Search(ctx context.Context, query string, opts sphinxdex.SearchOptions) ([]sphinxdex.Result, error) {
	projects, err := s.projects(ctx, opts.ProjectIDs)
	if err != nil {
		return nil, err
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	perProject := make([][]sphinxdex.Result, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, project := range projects {
		g.Go(func() error {
			idx, err := s.Indexes.FindIndex(gctx, project.ID)
			if sphinxdex.ErrorCode(err) == sphinxdex.ENOTFOUND {
				return nil
			} else if err != nil {
				return err
			}

			var results []sphinxdex.Result
			if opts.MatchAny {
				results = s.Searcher.SearchAny(idx, query, opts.Limit)
			} else {
				results = s.Searcher.Search(idx, query, opts.Limit)
			}
			for j := range results {
				results[j].ProjectID = project.ID
			}
			perProject[i] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []sphinxdex.Result
	for _, results := range perProject {
		merged = append(merged, results...)
	}

	merged = SortResults(merged)
	if opts.Limit > 0 && len(merged) > opts.Limit {
		merged = merged[:opts.Limit]
	}
	return merged, nil
}

func (s *Service) projects(ctx context.Context, ids []string) ([]*sphinxdex.Project, error) {
	if len(ids) == 0 {
		return s.Projects.FindProjects(ctx, sphinxdex.ProjectFilter{})
	}

	projects := make([]*sphinxdex.Project, 0, len(ids))
	for _, id := range ids {
		project, err := s.Projects.FindProjectByID(ctx, id)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}
