package gemini

import (
	"context"

	"github.com/fwojciec/sphinxdex"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ sphinxdex.TokenCounter = (*TokenCounter)(nil)

// TokenCounter measures an Ask request offline with the model's tokenizer.
// Counts include the system instruction sent with every question, so
// MaxPromptTokens bounds the whole request rather than the results alone.
type TokenCounter struct {
	tok    *tokenizer.LocalTokenizer
	config *genai.CountTokensConfig
}

// NewTokenCounter loads the tokenizer of model. The vocabulary is
// downloaded on first use and cached.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{
		tok:    tok,
		config: &genai.CountTokensConfig{SystemInstruction: BuildConfig().SystemInstruction},
	}, nil
}

// CountTokens returns the tokens of a request asking prompt as the user.
// An empty prompt counts as zero.
func (tc *TokenCounter) CountTokens(_ context.Context, prompt string) (int, error) {
	if prompt == "" {
		return 0, nil
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	result, err := tc.tok.CountTokens(contents, tc.config)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
