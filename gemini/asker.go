// Package gemini answers questions about Sphinx documentation with Google
// Gemini, grounded on the results of a local index search.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/sphinxdex"
	"google.golang.org/genai"
)

// Model is the Gemini model used for answers.
const Model = "gemini-2.5-flash"

// DefaultMaxResults is the number of search results offered to the model.
const DefaultMaxResults = 15

// Ensure Asker implements sphinxdex.Asker at compile time.
var _ sphinxdex.Asker = (*Asker)(nil)

// Asker implements sphinxdex.Asker using Google Gemini.
type Asker struct {
	client   *genai.Client
	projects sphinxdex.ProjectService
	search   sphinxdex.SearchService

	// MaxResults caps the search results in the prompt.
	MaxResults int

	// Tokens and MaxPromptTokens, when both set, drop the lowest ranked
	// results until the prompt fits.
	Tokens          sphinxdex.TokenCounter
	MaxPromptTokens int
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client, projects sphinxdex.ProjectService, search sphinxdex.SearchService) *Asker {
	return &Asker{client: client, projects: projects, search: search, MaxResults: DefaultMaxResults}
}

// Ask searches the project's index for the question and asks Gemini to
// point at the most relevant pages among the results.
func (a *Asker) Ask(ctx context.Context, projectID, question string) (string, error) {
	if projectID == "" {
		return "", sphinxdex.Errorf(sphinxdex.EINVALID, "project ID required")
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", sphinxdex.Errorf(sphinxdex.EINVALID, "question required")
	}

	project, err := a.projects.FindProjectByID(ctx, projectID)
	if err != nil {
		return "", err
	}

	results, err := a.retrieve(ctx, projectID, question)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", sphinxdex.Errorf(sphinxdex.ENOTFOUND, "no search results for %q in project %q", question, project.Name)
	}

	prompt, err := FitPrompt(ctx, a.Tokens, a.MaxPromptTokens, project, results, question)
	if err != nil {
		return "", err
	}

	result, err := a.client.Models.GenerateContent(ctx, Model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", sphinxdex.Errorf(sphinxdex.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// retrieve searches for pages matching every word of the question. Most
// questions contain words no page has, so when that finds nothing it
// searches again for pages matching any of the words.
func (a *Asker) retrieve(ctx context.Context, projectID, question string) ([]sphinxdex.Result, error) {
	opts := sphinxdex.SearchOptions{
		ProjectIDs: []string{projectID},
		Limit:      a.MaxResults,
	}

	results, err := a.search.Search(ctx, question, opts)
	if err != nil || len(results) > 0 {
		return results, err
	}

	opts.MatchAny = true
	return a.search.Search(ctx, question, opts)
}

// FitPrompt builds the user prompt, dropping results from the end while it
// exceeds maxTokens. At least one result is always kept. A nil counter or a
// non-positive budget disables the check.
func FitPrompt(ctx context.Context, counter sphinxdex.TokenCounter, maxTokens int, project *sphinxdex.Project, results []sphinxdex.Result, question string) (string, error) {
	prompt := BuildUserPrompt(project, results, question)
	if counter == nil || maxTokens <= 0 {
		return prompt, nil
	}

	for len(results) > 1 {
		n, err := counter.CountTokens(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("count tokens: %w", err)
		}
		if n <= maxTokens {
			break
		}
		results = results[:len(results)-1]
		prompt = BuildUserPrompt(project, results, question)
	}
	return prompt, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant that guides users through software documentation. " +
					"You are given the results of a search over the documentation's index: page titles, " +
					"API objects and their URLs, but not the page contents. Recommend the most relevant " +
					"pages for the question and cite their URLs. If none of the results look relevant, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt listing the search results and the
// question.
func BuildUserPrompt(project *sphinxdex.Project, results []sphinxdex.Result, question string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<project>%s</project>\n", project.Name)
	sb.WriteString("<results>\n")
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.Doc.DocName
		}
		sb.WriteString("<result>\n")
		fmt.Fprintf(&sb, "<rank>%d</rank>\n", i+1)
		fmt.Fprintf(&sb, "<title>%s</title>\n", title)
		fmt.Fprintf(&sb, "<page>%s</page>\n", r.Doc.Title)
		fmt.Fprintf(&sb, "<kind>%s</kind>\n", r.Kind)
		fmt.Fprintf(&sb, "<url>%s</url>\n", project.PageURL(r.Doc.DocName, r.Anchor))
		if r.Description != "" {
			fmt.Fprintf(&sb, "<description>%s</description>\n", r.Description)
		}
		sb.WriteString("</result>\n")
	}
	sb.WriteString("</results>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
