// Package crawl imports Sphinx search indexes from documentation sites and
// local build directories.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/searchjs"
	"golang.org/x/sync/errgroup"
)

const (
	indexFile   = "searchindex.js"
	optionsPath = "_static/documentation_options.js"
)

// Importer loads the search index of a project and stores it.
type Importer struct {
	Projects sphinxdex.ProjectService
	Indexes  sphinxdex.IndexService

	// Fetcher downloads remote pages and indexes; Files reads local ones.
	Fetcher sphinxdex.Fetcher
	Files   sphinxdex.Fetcher

	Locator     sphinxdex.Locator
	RateLimiter sphinxdex.DomainLimiter

	// Concurrency bounds the number of projects ImportAll imports at once.
	Concurrency int
	RetryDelays []time.Duration
	Logger      LogFunc
}

// Result holds the outcome of importing one project.
type Result struct {
	Project *sphinxdex.Project
	Stats   sphinxdex.IndexStats
	Bytes   int

	// Changed is false when the index matched the stored one and was kept.
	Changed bool
	Err     error
}

// ProgressEvent reports progress during ImportAll.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Project   string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting import progress.
type ProgressFunc func(event ProgressEvent)

// source is where a project's index lives.
type source struct {
	indexURL string
	site     sphinxdex.Site
	local    bool
}

// Loaded is a parsed index together with where it was found.
type Loaded struct {
	Index *sphinxdex.Index
	Site  sphinxdex.Site
	Data  []byte
}

// Load locates, fetches and parses the index behind sourceURL without
// validating or storing it. Returns EINVALID if the index cannot be parsed.
func (imp *Importer) Load(ctx context.Context, sourceURL string) (*Loaded, error) {
	src, err := imp.locate(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	data, err := imp.fetch(ctx, src.indexURL, src.local)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.indexURL, err)
	}

	idx, err := searchjs.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Loaded{Index: idx, Site: src.site, Data: data}, nil
}

// Import fetches, parses and validates the index of project, then stores it
// and records where it came from. An index whose payload hash matches the
// stored one is not written again unless force is set. The project is
// updated in place.
func (imp *Importer) Import(ctx context.Context, project *sphinxdex.Project, force bool) (*Result, error) {
	loaded, err := imp.Load(ctx, project.SourceURL)
	if err != nil {
		return nil, err
	}
	idx, data, site := loaded.Index, loaded.Data, loaded.Site
	if err := idx.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Project: project, Stats: idx.Stats(), Bytes: len(data)}

	hash := HashIndex(data)
	if !force && hash == project.IndexHash && site.IndexURL == project.IndexURL {
		return result, nil
	}

	if err := imp.Indexes.ReplaceIndex(ctx, project.ID, idx); err != nil {
		return nil, err
	}
	result.Changed = true

	updated, err := imp.Projects.UpdateProject(ctx, project.ID, sphinxdex.ProjectUpdate{
		IndexURL:   &site.IndexURL,
		BaseURL:    &site.Root,
		FileSuffix: &site.FileSuffix,
		IndexHash:  &hash,
	})
	if err != nil {
		return nil, err
	}
	*project = *updated

	return result, nil
}

// ImportAll imports projects concurrently. A failed project does not stop
// the others; its error is reported in its Result. Results are returned in
// the order of projects.
func (imp *Importer) ImportAll(ctx context.Context, projects []*sphinxdex.Project, force bool, progress ProgressFunc) ([]*Result, error) {
	concurrency := imp.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	total := len(projects)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	results := make([]*Result, total)
	var completed atomic.Int64
	var progressMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, project := range projects {
		g.Go(func() error {
			result, err := imp.Import(gctx, project, force)
			if err != nil {
				result = &Result{Project: project, Err: err}
			}
			results[i] = result

			if progress != nil {
				event := ProgressEvent{
					Type:      ProgressCompleted,
					Completed: int(completed.Add(1)),
					Total:     total,
					Project:   project.Name,
				}
				if err != nil {
					event.Type = ProgressFailed
					event.Error = err
				}
				progressMu.Lock()
				progress(event)
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return results, nil
}

// locate finds the search index for a project source: a searchindex.js
// location, a local build directory or a page of a Sphinx site.
func (imp *Importer) locate(ctx context.Context, sourceURL string) (*source, error) {
	if isLocal(sourceURL) {
		return imp.locateLocal(ctx, sourceURL), nil
	}

	u, err := url.Parse(sourceURL)
	if err != nil || u.Host == "" {
		return nil, sphinxdex.Errorf(sphinxdex.EINVALID, "invalid source URL %q", sourceURL)
	}

	if strings.HasSuffix(u.Path, ".js") {
		root := *u
		root.Path = u.Path[:strings.LastIndex(u.Path, "/")+1]
		root.RawQuery, root.Fragment = "", ""
		src := &source{
			indexURL: sourceURL,
			site:     sphinxdex.Site{Root: root.String(), IndexURL: sourceURL, FileSuffix: ".html"},
		}
		imp.applyOptions(ctx, &src.site, root.JoinPath(optionsPath).String(), false)
		return src, nil
	}

	html, err := imp.fetch(ctx, sourceURL, false)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", sourceURL, err)
	}
	site, err := imp.Locator.Locate(string(html), sourceURL)
	if err != nil {
		return nil, err
	}
	if site.OptionsURL != "" {
		imp.applyOptions(ctx, site, site.OptionsURL, false)
	}
	return &source{indexURL: site.IndexURL, site: *site}, nil
}

// locateLocal resolves a local build directory or index file. Plain paths
// are made absolute so page links work from any directory.
func (imp *Importer) locateLocal(ctx context.Context, location string) *source {
	if !strings.HasPrefix(location, "file://") {
		if abs, err := filepath.Abs(location); err == nil {
			location = filepath.ToSlash(abs)
		}
	}

	indexURL := location
	if !strings.HasSuffix(location, ".js") {
		indexURL = strings.TrimSuffix(location, "/") + "/" + indexFile
	}
	root := indexURL[:strings.LastIndex(indexURL, "/")+1]

	src := &source{
		indexURL: indexURL,
		site:     sphinxdex.Site{Root: root, IndexURL: indexURL, FileSuffix: ".html"},
		local:    true,
	}
	imp.applyOptions(ctx, &src.site, root+optionsPath, true)
	return src
}

// applyOptions reads documentation_options.js into site. The file is
// optional, so failures only get logged.
func (imp *Importer) applyOptions(ctx context.Context, site *sphinxdex.Site, optionsURL string, local bool) {
	js, err := imp.fetch(ctx, optionsURL, local)
	if err != nil {
		imp.logf("skip %s: %v", optionsURL, err)
		return
	}
	imp.Locator.ApplyOptions(site, string(js))
}

// fetch reads a local file once, or downloads a URL with rate limiting and
// retries.
func (imp *Importer) fetch(ctx context.Context, location string, local bool) ([]byte, error) {
	if local {
		return imp.Files.Fetch(ctx, location)
	}

	delays := imp.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	fetchFn := func(ctx context.Context, u string) ([]byte, error) {
		if imp.RateLimiter != nil {
			if err := imp.RateLimiter.Wait(ctx, domainOf(u)); err != nil {
				return nil, err
			}
		}
		return imp.Fetcher.Fetch(ctx, u)
	}
	return FetchWithRetry(ctx, location, fetchFn, imp.Logger, delays)
}

func (imp *Importer) logf(format string, args ...any) {
	if imp.Logger != nil {
		imp.Logger(format, args...)
	}
}

// isLocal reports whether source names a file rather than an HTTP URL.
func isLocal(source string) bool {
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}
