package sphinxdex_test

import (
	"testing"

	"github.com/fwojciec/sphinxdex"
	"github.com/stretchr/testify/assert"
)

func TestFormatResults(t *testing.T) {
	t.Parallel()

	t.Run("formats result with project URL", func(t *testing.T) {
		t.Parallel()

		project := &sphinxdex.Project{BaseURL: "https://example.com/docs/", FileSuffix: ".html"}
		results := []sphinxdex.Result{{
			Doc:         sphinxdex.DocRef{DocName: "api"},
			Title:       "ampel.core.AmpelContext",
			Anchor:      "ampel.core.AmpelContext",
			Description: "Python class, in Ampel-core",
			Kind:        sphinxdex.KindObject,
		}}

		out := sphinxdex.FormatResults([]*sphinxdex.Project{project}, results)

		expected := "1. ampel.core.AmpelContext [object]\n   https://example.com/docs/api.html#ampel.core.AmpelContext\n   Python class, in Ampel-core"
		assert.Equal(t, expected, out)
	})

	t.Run("falls back to docname without project", func(t *testing.T) {
		t.Parallel()

		results := []sphinxdex.Result{
			{Doc: sphinxdex.DocRef{DocName: "installing"}, Title: "Installing", Kind: sphinxdex.KindText},
			{Doc: sphinxdex.DocRef{DocName: "testing"}, Kind: sphinxdex.KindText},
		}

		out := sphinxdex.FormatResults(nil, results)

		expected := "1. Installing [text]\n   installing\n\n2. testing [text]\n   testing"
		assert.Equal(t, expected, out)
	})

	t.Run("names the project of each result when several are given", func(t *testing.T) {
		t.Parallel()

		projects := []*sphinxdex.Project{
			{ID: "p1", Name: "ampel", BaseURL: "https://ampel.example.com/", FileSuffix: ".html"},
			{ID: "p2", Name: "sphinx", BaseURL: "https://sphinx.example.com/"},
		}
		results := []sphinxdex.Result{
			{ProjectID: "p2", Doc: sphinxdex.DocRef{DocName: "usage/index"}, Title: "Usage", Kind: sphinxdex.KindTitle},
			{ProjectID: "p1", Doc: sphinxdex.DocRef{DocName: "index"}, Title: "Welcome", Kind: sphinxdex.KindText},
			{ProjectID: "p3", Doc: sphinxdex.DocRef{DocName: "orphan"}, Title: "Orphan", Kind: sphinxdex.KindText},
		}

		out := sphinxdex.FormatResults(projects, results)

		expected := "1. Usage [title] (sphinx)\n   https://sphinx.example.com/usage/\n\n" +
			"2. Welcome [text] (ampel)\n   https://ampel.example.com/index.html\n\n" +
			"3. Orphan [text]\n   orphan"
		assert.Equal(t, expected, out)
	})

	t.Run("returns empty string for no results", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, sphinxdex.FormatResults(nil, nil))
	})
}
