package mock

import (
	"context"

	"github.com/fwojciec/sphinxdex"
)

var _ sphinxdex.Asker = (*Asker)(nil)

// Asker is a mock implementation of sphinxdex.Asker.
type Asker struct {
	AskFn func(ctx context.Context, projectID, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, projectID, question string) (string, error) {
	return a.AskFn(ctx, projectID, question)
}

var _ sphinxdex.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of sphinxdex.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}
