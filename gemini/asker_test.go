package gemini_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/gemini"
	"github.com/fwojciec/sphinxdex/mock"
	"github.com/fwojciec/sphinxdex/porter"
	"github.com/fwojciec/sphinxdex/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProject() *sphinxdex.Project {
	return &sphinxdex.Project{
		ID:         "proj-1",
		Name:       "ampel",
		BaseURL:    "https://ampel.readthedocs.io/en/latest/",
		FileSuffix: ".html",
	}
}

func testResults() []sphinxdex.Result {
	return []sphinxdex.Result{
		{
			Doc:         sphinxdex.DocRef{DocName: "api", Title: "API"},
			Title:       "ampel.t3.T3Processor",
			Anchor:      "ampel.t3.T3Processor",
			Description: "Python class, in API",
			Score:       26,
			Kind:        sphinxdex.KindObject,
		},
		{
			Doc:   sphinxdex.DocRef{DocName: "structure", Title: "Structure"},
			Title: "Structure",
			Score: 15,
			Kind:  sphinxdex.KindText,
		},
	}
}

func projectsReturning(p *sphinxdex.Project) *mock.ProjectService {
	return &mock.ProjectService{
		FindProjectByIDFn: func(context.Context, string) (*sphinxdex.Project, error) {
			return p, nil
		},
	}
}

func TestAsker_Ask(t *testing.T) {
	t.Parallel()

	t.Run("returns error when project ID empty", func(t *testing.T) {
		t.Parallel()

		asker := gemini.NewAsker(nil, nil, nil)

		_, err := asker.Ask(context.Background(), "", "what is this?")

		assert.Equal(t, sphinxdex.EINVALID, sphinxdex.ErrorCode(err))
		assert.Contains(t, sphinxdex.ErrorMessage(err), "project ID required")
	})

	t.Run("returns error when question blank", func(t *testing.T) {
		t.Parallel()

		asker := gemini.NewAsker(nil, nil, nil)

		_, err := asker.Ask(context.Background(), "proj-1", "   ")

		assert.Equal(t, sphinxdex.EINVALID, sphinxdex.ErrorCode(err))
		assert.Contains(t, sphinxdex.ErrorMessage(err), "question required")
	})

	t.Run("propagates missing project", func(t *testing.T) {
		t.Parallel()

		projects := &mock.ProjectService{
			FindProjectByIDFn: func(context.Context, string) (*sphinxdex.Project, error) {
				return nil, sphinxdex.Errorf(sphinxdex.ENOTFOUND, "project not found")
			},
		}
		asker := gemini.NewAsker(nil, projects, nil)

		_, err := asker.Ask(context.Background(), "proj-1", "what is this?")

		assert.Equal(t, sphinxdex.ENOTFOUND, sphinxdex.ErrorCode(err))
	})

	t.Run("searches only the project, then for any word", func(t *testing.T) {
		t.Parallel()

		var gotQueries []string
		var gotOpts []sphinxdex.SearchOptions
		search := &mock.SearchService{
			SearchFn: func(_ context.Context, query string, opts sphinxdex.SearchOptions) ([]sphinxdex.Result, error) {
				gotQueries = append(gotQueries, query)
				gotOpts = append(gotOpts, opts)
				return nil, nil
			},
		}
		asker := gemini.NewAsker(nil, projectsReturning(testProject()), search)
		asker.MaxResults = 5

		_, err := asker.Ask(context.Background(), "proj-1", "  t3 processor  ")

		assert.Equal(t, sphinxdex.ENOTFOUND, sphinxdex.ErrorCode(err))
		assert.Contains(t, sphinxdex.ErrorMessage(err), "no search results")
		assert.Equal(t, []string{"t3 processor", "t3 processor"}, gotQueries)
		require.Len(t, gotOpts, 2)
		for _, opts := range gotOpts {
			assert.Equal(t, []string{"proj-1"}, opts.ProjectIDs)
			assert.Equal(t, 5, opts.Limit)
		}
		assert.False(t, gotOpts[0].MatchAny)
		assert.True(t, gotOpts[1].MatchAny)
	})

	t.Run("skips relaxed search when every word matches", func(t *testing.T) {
		t.Parallel()

		calls := 0
		search := &mock.SearchService{
			SearchFn: func(context.Context, string, sphinxdex.SearchOptions) ([]sphinxdex.Result, error) {
				calls++
				return testResults(), nil
			},
		}
		asker := gemini.NewAsker(nil, projectsReturning(testProject()), search)
		asker.Tokens = &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) {
				return 0, errors.New("stop")
			},
		}
		asker.MaxPromptTokens = 100

		_, err := asker.Ask(context.Background(), "proj-1", "t3 processor")

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("finds pages for a natural language question", func(t *testing.T) {
		t.Parallel()

		idx := &sphinxdex.Index{
			DocNames:   []string{"api", "installing", "structure"},
			Filenames:  []string{"api.rst", "installing.rst", "structure.rst"},
			Titles:     []string{"API", "Installing", "Structure"},
			Terms:      map[string][]int{"channel": {0, 2}, "instal": {1}, "ampel": {0, 1, 2}},
			TitleTerms: map[string][]int{"instal": {1}},
			ObjTypes:   map[int]sphinxdex.ObjType{},
		}
		svc := &search.Service{
			Projects: projectsReturning(testProject()),
			Indexes: &mock.IndexService{
				FindIndexFn: func(context.Context, string) (*sphinxdex.Index, error) {
					return idx, nil
				},
			},
			Searcher: search.NewSearcher(porter.NewStemmer()),
		}

		// Capture the prompt and stop before calling Gemini.
		var prompt string
		asker := gemini.NewAsker(nil, projectsReturning(testProject()), svc)
		asker.Tokens = &mock.TokenCounter{
			CountTokensFn: func(_ context.Context, text string) (int, error) {
				prompt = text
				return 0, errors.New("stop")
			},
		}
		asker.MaxPromptTokens = 1000

		_, err := asker.Ask(context.Background(), "proj-1", "How do I install ampel?")

		require.ErrorContains(t, err, "stop")
		require.NotEmpty(t, prompt)
		assert.Contains(t, prompt, "https://ampel.readthedocs.io/en/latest/installing.html")
		assert.Less(t, strings.Index(prompt, "installing.html"), strings.Index(prompt, "structure.html"))
	})

	t.Run("propagates search error", func(t *testing.T) {
		t.Parallel()

		search := &mock.SearchService{
			SearchFn: func(context.Context, string, sphinxdex.SearchOptions) ([]sphinxdex.Result, error) {
				return nil, sphinxdex.Errorf(sphinxdex.EINTERNAL, "database error")
			},
		}
		asker := gemini.NewAsker(nil, projectsReturning(testProject()), search)

		_, err := asker.Ask(context.Background(), "proj-1", "what is this?")

		assert.Equal(t, sphinxdex.EINTERNAL, sphinxdex.ErrorCode(err))
		assert.Contains(t, sphinxdex.ErrorMessage(err), "database error")
	})

	t.Run("propagates token counting error", func(t *testing.T) {
		t.Parallel()

		search := &mock.SearchService{
			SearchFn: func(context.Context, string, sphinxdex.SearchOptions) ([]sphinxdex.Result, error) {
				return testResults(), nil
			},
		}
		asker := gemini.NewAsker(nil, projectsReturning(testProject()), search)
		asker.Tokens = &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) {
				return 0, errors.New("tokenizer unavailable")
			},
		}
		asker.MaxPromptTokens = 100

		_, err := asker.Ask(context.Background(), "proj-1", "processor")

		assert.ErrorContains(t, err, "count tokens: tokenizer unavailable")
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "helpful assistant")
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.2, *config.Temperature, 0.001)
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	t.Run("lists results with page URLs", func(t *testing.T) {
		t.Parallel()

		prompt := gemini.BuildUserPrompt(testProject(), testResults(), "How do I write a T3 processor?")

		assert.Contains(t, prompt, "<project>ampel</project>")
		assert.Contains(t, prompt, "<rank>1</rank>\n<title>ampel.t3.T3Processor</title>")
		assert.Contains(t, prompt, "<url>https://ampel.readthedocs.io/en/latest/api.html#ampel.t3.T3Processor</url>")
		assert.Contains(t, prompt, "<url>https://ampel.readthedocs.io/en/latest/structure.html</url>")
		assert.Contains(t, prompt, "<description>Python class, in API</description>")
		assert.Contains(t, prompt, "<kind>text</kind>")
	})

	t.Run("ends with the question", func(t *testing.T) {
		t.Parallel()

		prompt := gemini.BuildUserPrompt(testProject(), testResults(), "How do I use this?")

		assert.True(t, strings.HasSuffix(prompt, "Question: How do I use this?"))
	})

	t.Run("does not contain system instruction", func(t *testing.T) {
		t.Parallel()

		prompt := gemini.BuildUserPrompt(testProject(), testResults(), "question")

		assert.NotContains(t, prompt, "You are a helpful assistant")
	})
}

func TestAsker_fitsPromptToBudget(t *testing.T) {
	t.Parallel()

	// Every result costs ten tokens; the budget leaves room for one.
	counter := &mock.TokenCounter{
		CountTokensFn: func(_ context.Context, text string) (int, error) {
			return 10 * strings.Count(text, "<result>"), nil
		},
	}
	prompt, err := gemini.FitPrompt(context.Background(), counter, 15, testProject(), testResults(), "processor")

	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(prompt, "<result>"))
	assert.Contains(t, prompt, "ampel.t3.T3Processor")
}
