package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sphinxdex"
)

// Ensure Detector implements sphinxdex.FrameworkDetector at compile time.
var _ sphinxdex.FrameworkDetector = (*Detector)(nil)

// sphinxMarkers are selectors found in pages built by Sphinx: the search
// bootstrap of every theme plus the sidebars of the classic and
// ReadTheDocs themes.
var sphinxMarkers = []string{
	"#documentation_options",
	"script[src*='documentation_options.js']",
	"html[data-content_root]",
	".sphinxsidebar",
	".wy-nav-side",
	".wy-menu-vertical",
	".toctree-wrapper",
}

// Detector identifies documentation frameworks from HTML content.
// Sphinx is the one sphinxdex can index; MkDocs and Docusaurus are
// recognized so users pointing at them get a precise error.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) Detect(html string) sphinxdex.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return sphinxdex.FrameworkUnknown
	}
	return d.detect(doc)
}

func (d *Detector) detect(doc *goquery.Document) sphinxdex.Framework {
	// The generator tag is the most reliable marker when present.
	if framework := d.detectFromMetaGenerator(doc); framework != sphinxdex.FrameworkUnknown {
		return framework
	}

	for _, sel := range sphinxMarkers {
		if hasSelector(doc, sel) {
			return sphinxdex.FrameworkSphinx
		}
	}

	if hasSelector(doc, "#__docusaurus_skipToContent_fallback") ||
		hasSelector(doc, ".theme-doc-sidebar-container") {
		return sphinxdex.FrameworkDocusaurus
	}

	if hasSelector(doc, "[data-md-color-scheme]") ||
		hasSelector(doc, "[data-md-component]") {
		return sphinxdex.FrameworkMkDocs
	}

	return sphinxdex.FrameworkUnknown
}

// detectFromMetaGenerator checks the meta generator tag for framework identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) sphinxdex.Framework {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})

	switch {
	case generator == "":
		return sphinxdex.FrameworkUnknown
	case strings.Contains(generator, "sphinx"):
		return sphinxdex.FrameworkSphinx
	case strings.Contains(generator, "docusaurus"):
		return sphinxdex.FrameworkDocusaurus
	case strings.Contains(generator, "mkdocs"):
		return sphinxdex.FrameworkMkDocs
	}
	return sphinxdex.FrameworkUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
