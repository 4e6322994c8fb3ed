package search_test

import (
	"os"
	"testing"

	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/porter"
	"github.com/fwojciec/sphinxdex/search"
	"github.com/fwojciec/sphinxdex/searchjs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *sphinxdex.Index {
	return &sphinxdex.Index{
		DocNames:  []string{"api", "installing", "structure"},
		Filenames: []string{"api.rst", "installing.rst", "structure.rst"},
		Titles:    []string{"Ampel-core", "Installing", "Structure"},
		Terms: map[string][]int{
			"channel":     {0, 2},
			"instal":      {1},
			"tier":        {2},
			"processor":   {0, 2},
			"t3processor": {0},
		},
		TitleTerms: map[string][]int{
			"instal":   {1},
			"structur": {2},
		},
		Objects: []sphinxdex.Object{
			{Prefix: "ampel.core.AmpelContext", Name: "AmpelContext", Doc: 0, Type: 0, Prio: 1},
			{Prefix: "ampel.core.AmpelContext.AmpelContext", Name: "get_config", Doc: 0, Type: 2, Prio: 1},
			{Prefix: "ampel.t3.T3Processor", Name: "T3Processor", Doc: 0, Type: 0, Prio: 1},
		},
		ObjTypes: map[int]sphinxdex.ObjType{
			0: {Domain: "py", Name: "class", Label: "Python class", Role: "py:class"},
			1: {Domain: "py", Name: "attribute", Label: "Python attribute", Role: "py:attribute"},
			2: {Domain: "py", Name: "method", Label: "Python method", Role: "py:method"},
		},
	}
}

func newSearcher() *search.Searcher {
	return search.NewSearcher(porter.NewStemmer())
}

func TestSearcher_ParseQuery(t *testing.T) {
	t.Parallel()

	t.Run("stems terms and skips stopwords", func(t *testing.T) {
		t.Parallel()

		q := newSearcher().ParseQuery("Installing the -Tier channels")

		assert.Equal(t, "installing the -tier channels", q.Text)
		assert.Equal(t, []string{"installing", "the", "channels"}, q.Objects)
		assert.Equal(t, []string{"instal", "channel"}, q.Terms)
		assert.Equal(t, []string{"tier"}, q.Excluded)
	})

	t.Run("keeps words the stemmer would shorten below three runes", func(t *testing.T) {
		t.Parallel()

		q := newSearcher().ParseQuery("abs")

		assert.Equal(t, []string{"abs"}, q.Terms)
	})

	t.Run("splits on punctuation but keeps underscores", func(t *testing.T) {
		t.Parallel()

		q := newSearcher().ParseQuery("ampel.core get_config")

		assert.Equal(t, []string{"ampel", "core", "get_config"}, q.Objects)
	})

	t.Run("drops duplicate words", func(t *testing.T) {
		t.Parallel()

		q := newSearcher().ParseQuery("channel channels channel")

		assert.Equal(t, []string{"channel", "channels"}, q.Objects)
		assert.Equal(t, []string{"channel"}, q.Terms)
	})

	t.Run("lone dash is an ordinary separator", func(t *testing.T) {
		t.Parallel()

		q := newSearcher().ParseQuery("tier - channel")

		assert.Empty(t, q.Excluded)
		assert.Equal(t, []string{"tier", "channel"}, q.Terms)
	})
}

func TestSplitQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"größe", "T3", "x_y"}, search.SplitQuery("größe, T3 (x_y)!"))
	assert.Empty(t, search.SplitQuery("  ...  "))
}

func TestSearcher_Search(t *testing.T) {
	t.Parallel()

	t.Run("title term outranks body term", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(testIndex(), "installing", 0)

		require.Len(t, results, 1)
		assert.Equal(t, "Installing", results[0].Title)
		assert.Equal(t, "installing", results[0].Doc.DocName)
		assert.Equal(t, search.ScoreTitle, results[0].Score)
		assert.Equal(t, sphinxdex.KindText, results[0].Kind)
	})

	t.Run("exact object name match", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(testIndex(), "get_config", 0)

		require.Len(t, results, 1)
		r := results[0]
		assert.Equal(t, "ampel.core.AmpelContext.AmpelContext.get_config", r.Title)
		assert.Equal(t, "ampel.core.AmpelContext.AmpelContext.get_config", r.Anchor)
		assert.Equal(t, "Python method, in Ampel-core", r.Description)
		assert.Equal(t, search.ScoreObjNameMatch+5, r.Score)
		assert.Equal(t, sphinxdex.KindObject, r.Kind)
	})

	t.Run("partial object name match", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(testIndex(), "context", 0)

		require.Len(t, results, 2)
		assert.Equal(t, "ampel.core.AmpelContext.AmpelContext", results[0].Title)
		assert.Equal(t, search.ScoreObjPartialMatch+5, results[0].Score)
		assert.Equal(t, "ampel.core.AmpelContext.AmpelContext.get_config", results[1].Title)
		assert.Equal(t, 5, results[1].Score)
	})

	t.Run("documents must contain every term", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(testIndex(), "channel tier", 0)

		require.Len(t, results, 1)
		assert.Equal(t, "structure", results[0].Doc.DocName)
		assert.Equal(t, search.ScoreTerm, results[0].Score)
	})

	t.Run("excluded terms remove documents", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(testIndex(), "channel -tier", 0)

		require.Len(t, results, 1)
		assert.Equal(t, "api", results[0].Doc.DocName)
	})

	t.Run("partial term matches rank below objects and sort by title", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(testIndex(), "process", 0)

		require.Len(t, results, 3)
		assert.Equal(t, "ampel.t3.T3Processor.T3Processor", results[0].Title)
		assert.Equal(t, search.ScoreObjPartialMatch+5, results[0].Score)
		assert.Equal(t, "Ampel-core", results[1].Title)
		assert.Equal(t, search.ScorePartialTerm, results[1].Score)
		assert.Equal(t, "Structure", results[2].Title)
		assert.Equal(t, search.ScorePartialTerm, results[2].Score)
	})

	t.Run("unknown word returns nothing", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, newSearcher().Search(testIndex(), "supernova", 0))
	})

	t.Run("stopwords alone return nothing", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, newSearcher().Search(testIndex(), "the", 0))
	})

	t.Run("empty query returns nothing", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, newSearcher().Search(testIndex(), "   ", 0))
	})

	t.Run("limit truncates results", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(testIndex(), "process", 1)

		require.Len(t, results, 1)
		assert.Equal(t, sphinxdex.KindObject, results[0].Kind)
	})

	t.Run("ignores references outside the index", func(t *testing.T) {
		t.Parallel()

		idx := testIndex()
		idx.Terms["ghost"] = []int{42}

		assert.Empty(t, newSearcher().Search(idx, "ghost", 0))
	})

	t.Run("survives words the stemmer cannot handle", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() {
			newSearcher().Search(testIndex(), "feed eed", 10)
			newSearcher().SearchAny(testIndex(), "feed eed", 10)
		})
	})
}

func TestSearcher_SearchAny(t *testing.T) {
	t.Parallel()

	t.Run("answers questions that match no page in full", func(t *testing.T) {
		t.Parallel()

		s := newSearcher()
		require.Empty(t, s.Search(testIndex(), "How do I configure a channel?", 0))

		results := s.SearchAny(testIndex(), "How do I configure a channel?", 0)

		require.Len(t, results, 2)
		assert.Equal(t, "Ampel-core", results[0].Title)
		assert.Equal(t, "Structure", results[1].Title)
		assert.Equal(t, search.ScoreTerm, results[0].Score)
	})

	t.Run("sums scores of matched words", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().SearchAny(testIndex(), "install tier channel", 0)

		require.Len(t, results, 3)
		assert.Equal(t, "installing", results[0].Doc.DocName)
		assert.Equal(t, search.ScoreTitle, results[0].Score)
		assert.Equal(t, "structure", results[1].Doc.DocName)
		assert.Equal(t, 2*search.ScoreTerm, results[1].Score)
		assert.Equal(t, "api", results[2].Doc.DocName)
	})

	t.Run("matches objects on single words", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().SearchAny(testIndex(), "what is a T3 processor", 0)

		require.Len(t, results, 3)
		assert.Equal(t, "ampel.t3.T3Processor.T3Processor", results[0].Title)
		assert.Equal(t, search.ScoreObjPartialMatch+5, results[0].Score)
		assert.Equal(t, sphinxdex.KindText, results[1].Kind)
	})

	t.Run("keeps exclusions", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().SearchAny(testIndex(), "channel -tier", 0)

		require.Len(t, results, 1)
		assert.Equal(t, "api", results[0].Doc.DocName)
	})

	t.Run("question words alone return nothing", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, newSearcher().SearchAny(testIndex(), "how do I", 0))
	})
}

func TestSearcher_SearchTitles(t *testing.T) {
	t.Parallel()

	idx := testIndex()
	idx.AllTitles = map[string][]sphinxdex.Anchor{
		"Installing":        {{Doc: 1}},
		"Running the tests": {{Doc: 2, ID: "running-the-tests"}},
	}
	idx.IndexEntries = map[string][]sphinxdex.Anchor{
		"ampelcontext (class)": {{Doc: 0, ID: "ampel.core.AmpelContext"}},
	}

	t.Run("page title match replaces text match", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(idx, "installing", 0)

		require.Len(t, results, 1)
		assert.Equal(t, sphinxdex.KindTitle, results[0].Kind)
		assert.Equal(t, search.ScoreTitle+1, results[0].Score)
	})

	t.Run("section title is shown under its page", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(idx, "running the tests", 0)

		require.NotEmpty(t, results)
		assert.Equal(t, "Structure > Running the tests", results[0].Title)
		assert.Equal(t, "running-the-tests", results[0].Anchor)
		assert.Equal(t, search.ScoreTitle, results[0].Score)
	})

	t.Run("query must cover half of the title", func(t *testing.T) {
		t.Parallel()

		for _, r := range newSearcher().Search(idx, "run", 0) {
			assert.NotEqual(t, sphinxdex.KindTitle, r.Kind)
		}
	})

	t.Run("index entry scores by coverage", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(idx, "ampelcontext", 0)

		require.NotEmpty(t, results)
		assert.Equal(t, sphinxdex.KindTitle, results[0].Kind)
		assert.Equal(t, 60, results[0].Score)
		assert.Equal(t, "ampel.core.AmpelContext", results[0].Anchor)
	})
}

func TestSearcher_SearchFixture(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("../searchjs/testdata/ampel_searchindex.js")
	require.NoError(t, err)
	idx, err := searchjs.Parse(data)
	require.NoError(t, err)

	t.Run("finds class by exact name", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(idx, "UnitLoader", 0)

		require.NotEmpty(t, results)
		assert.Equal(t, "ampel.core.UnitLoader.UnitLoader", results[0].Title)
		assert.Equal(t, sphinxdex.KindObject, results[0].Kind)
	})

	t.Run("finds installation page by title term", func(t *testing.T) {
		t.Parallel()

		results := newSearcher().Search(idx, "installing", 0)

		require.NotEmpty(t, results)
		assert.Equal(t, search.ScoreTitle, results[0].Score)
		assert.Contains(t, []string{"installing", "testing"}, results[0].Doc.DocName)
	})
}

func TestSortResults(t *testing.T) {
	t.Parallel()

	results := []sphinxdex.Result{
		{Title: "b", Score: 5},
		{Title: "A", Score: 5},
		{Title: "c", Score: 9},
	}

	sorted := search.SortResults(results)

	assert.Equal(t, "c", sorted[0].Title)
	assert.Equal(t, "A", sorted[1].Title)
	assert.Equal(t, "b", sorted[2].Title)
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	results := []sphinxdex.Result{
		{Doc: sphinxdex.DocRef{DocName: "api"}, Title: "Ampel-core", Score: 15},
		{Doc: sphinxdex.DocRef{DocName: "api"}, Title: "Ampel-core", Score: 5},
		{Doc: sphinxdex.DocRef{DocName: "api"}, Title: "Ampel-core", Anchor: "x", Score: 5},
	}

	out := search.Dedupe(results)

	require.Len(t, out, 2)
	assert.Equal(t, 15, out[0].Score)
	assert.Equal(t, "x", out[1].Anchor)
}
