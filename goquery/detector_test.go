package goquery_test

import (
	"testing"

	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("detects Sphinx from meta generator tag", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><meta name="generator" content="Docutils 0.17.1: http://docutils.sourceforge.net/" />
<meta name="generator" content="Sphinx 4.5.0" /></head>
<body><div class="document">Content</div></body>
</html>`

		assert.Equal(t, sphinxdex.FrameworkSphinx, goquery.NewDetector().Detect(html))
	})

	t.Run("detects Sphinx from documentation options script", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<script id="documentation_options" data-url_root="./" src="_static/documentation_options.js"></script>
</head><body></body></html>`

		assert.Equal(t, sphinxdex.FrameworkSphinx, goquery.NewDetector().Detect(html))
	})

	t.Run("detects Sphinx from content root attribute", func(t *testing.T) {
		t.Parallel()

		html := `<html data-content_root="../"><head></head><body></body></html>`

		assert.Equal(t, sphinxdex.FrameworkSphinx, goquery.NewDetector().Detect(html))
	})

	t.Run("detects Sphinx from ReadTheDocs sidebar", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><nav class="wy-nav-side"><div class="wy-menu-vertical"></div></nav></body></html>`

		assert.Equal(t, sphinxdex.FrameworkSphinx, goquery.NewDetector().Detect(html))
	})

	t.Run("detects Sphinx from classic sidebar", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="sphinxsidebar"><h3>Navigation</h3></div></body></html>`

		assert.Equal(t, sphinxdex.FrameworkSphinx, goquery.NewDetector().Detect(html))
	})

	t.Run("detects Docusaurus", func(t *testing.T) {
		t.Parallel()

		html := `<html data-theme="light"><body>
<a id="__docusaurus_skipToContent_fallback" href="#__docusaurus_skipToContent_fallback">Skip</a>
</body></html>`

		assert.Equal(t, sphinxdex.FrameworkDocusaurus, goquery.NewDetector().Detect(html))
	})

	t.Run("detects MkDocs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body data-md-color-scheme="default"><div data-md-component="container"></div></body></html>`

		assert.Equal(t, sphinxdex.FrameworkMkDocs, goquery.NewDetector().Detect(html))
	})

	t.Run("meta generator takes priority over CSS class markers", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta name="generator" content="mkdocs-1.5.3, mkdocs-material-9.4.0"></head>
<body><div class="toctree-wrapper"></div></body></html>`

		assert.Equal(t, sphinxdex.FrameworkMkDocs, goquery.NewDetector().Detect(html))
	})

	t.Run("returns FrameworkUnknown for generic HTML", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Docs</title></head><body><main><a href="/a">A</a></main></body></html>`

		assert.Equal(t, sphinxdex.FrameworkUnknown, goquery.NewDetector().Detect(html))
	})

	t.Run("returns FrameworkUnknown for empty HTML", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, sphinxdex.FrameworkUnknown, goquery.NewDetector().Detect(""))
	})
}
