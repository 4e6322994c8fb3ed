package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sphinxdex"
)

// Ensure Locator implements sphinxdex.Locator at compile time.
var _ sphinxdex.Locator = (*Locator)(nil)

const (
	indexFile   = "searchindex.js"
	optionsPath = "_static/documentation_options.js"
)

// Locator finds the search index of a Sphinx site from the HTML of one of
// its pages.
type Locator struct {
	detector *Detector
}

// NewLocator creates a new Locator.
func NewLocator() *Locator {
	return &Locator{detector: NewDetector()}
}

// Locate resolves the documentation root of the page and the files Sphinx
// keeps there. The root comes from, in order: the data-content_root
// attribute (Sphinx 7.2+), the data-url_root attribute of the
// documentation_options script (Sphinx 4 to 7.1), the location of
// documentation_options.js, an inline DOCUMENTATION_OPTIONS block (Sphinx 3
// and older) or the link to the search page.
func (l *Locator) Locate(html, pageURL string) (*sphinxdex.Site, error) {
	page, err := url.Parse(pageURL)
	if err != nil || page.Scheme == "" || page.Host == "" {
		return nil, sphinxdex.Errorf(sphinxdex.EINVALID, "invalid page URL %q", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sphinxdex.Errorf(sphinxdex.EINVALID, "failed to parse HTML: %v", err)
	}

	site := &sphinxdex.Site{FileSuffix: ".html"}

	if src, ok := doc.Find("script[src*='documentation_options.js']").First().Attr("src"); ok {
		if u := resolve(page, src); u != nil {
			site.OptionsURL = u.String()
		}
	}

	inline := inlineOptions(doc)
	if inline.FileSuffix != nil {
		site.FileSuffix = *inline.FileSuffix
	}
	site.Builder = inline.Builder

	root := l.root(doc, page, site.OptionsURL, inline)
	if root == nil {
		if framework := l.detector.detect(doc); framework != sphinxdex.FrameworkSphinx && framework != sphinxdex.FrameworkUnknown {
			return nil, sphinxdex.Errorf(sphinxdex.EINVALID, "%s is built with %s, not Sphinx", pageURL, framework)
		}
		return nil, sphinxdex.Errorf(sphinxdex.EINVALID, "%s does not look like a Sphinx page", pageURL)
	}

	root.RawQuery = ""
	root.Fragment = ""
	if !strings.HasSuffix(root.Path, "/") {
		root.Path += "/"
	}
	site.Root = root.String()
	site.IndexURL = root.JoinPath(indexFile).String()
	if site.OptionsURL == "" && hasSelector(doc, "#documentation_options") {
		site.OptionsURL = root.JoinPath(optionsPath).String()
	}

	return site, nil
}

func (l *Locator) root(doc *goquery.Document, page *url.URL, optionsURL string, inline Options) *url.URL {
	if v, ok := doc.Find("html").Attr("data-content_root"); ok {
		return resolve(page, v)
	}
	if v, ok := doc.Find("#documentation_options").Attr("data-url_root"); ok {
		return resolve(page, v)
	}
	if u, err := url.Parse(optionsURL); err == nil && optionsURL != "" && strings.HasSuffix(u.Path, optionsPath) {
		u.Path = strings.TrimSuffix(u.Path, optionsPath)
		u.RawPath = ""
		return u
	}
	if inline.URLRoot != nil {
		return resolve(page, *inline.URLRoot)
	}
	if href, ok := doc.Find("link[rel='search']").Attr("href"); ok {
		if dir, ok := searchPageDir(href); ok {
			return resolve(page, dir)
		}
	}
	return nil
}

// inlineOptions reads a DOCUMENTATION_OPTIONS block written into the page.
func inlineOptions(doc *goquery.Document) Options {
	var opts Options
	doc.Find("script:not([src])").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "DOCUMENTATION_OPTIONS") {
			return true
		}
		opts = ParseOptions(text)
		return false
	})
	return opts
}

// searchPageDir returns the directory of a link to Sphinx's search page,
// either search.html or search/ in dirhtml builds.
func searchPageDir(href string) (string, bool) {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	trimmed := strings.TrimSuffix(href, "/")
	dir, last := "", trimmed
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		dir, last = trimmed[:i+1], trimmed[i+1:]
	}
	if last != "search" && !strings.HasPrefix(last, "search.") {
		return "", false
	}
	if dir == "" {
		dir = "./"
	}
	return dir, true
}

func resolve(base *url.URL, ref string) *url.URL {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil
	}
	return base.ResolveReference(u)
}

// ApplyOptions sets the file suffix and builder of site from the content of
// documentation_options.js. Settings missing from js are left unchanged.
func (l *Locator) ApplyOptions(site *sphinxdex.Site, js string) {
	opts := ParseOptions(js)
	if opts.FileSuffix != nil {
		site.FileSuffix = *opts.FileSuffix
	}
	if opts.Builder != "" {
		site.Builder = opts.Builder
	}
}

// Options holds the settings Sphinx writes into documentation_options.js.
// Nil pointers mark settings absent from the script.
type Options struct {
	URLRoot    *string
	FileSuffix *string
	Builder    string
}

var (
	reURLRoot    = regexp.MustCompile(`URL_ROOT\s*:\s*['"]([^'"]*)['"]`)
	reFileSuffix = regexp.MustCompile(`FILE_SUFFIX\s*:\s*['"]([^'"]*)['"]`)
	reBuilder    = regexp.MustCompile(`BUILDER\s*:\s*['"]([^'"]*)['"]`)
)

// ParseOptions extracts URL_ROOT, FILE_SUFFIX and BUILDER from the
// DOCUMENTATION_OPTIONS object literal in js. URL_ROOT is only reported when
// written as a string; newer Sphinx versions compute it at runtime.
func ParseOptions(js string) Options {
	var opts Options
	if m := reURLRoot.FindStringSubmatch(js); m != nil {
		opts.URLRoot = &m[1]
	}
	if m := reFileSuffix.FindStringSubmatch(js); m != nil {
		opts.FileSuffix = &m[1]
	}
	if m := reBuilder.FindStringSubmatch(js); m != nil {
		opts.Builder = m[1]
	}
	return opts
}
