package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sphinxdex"
)

// Ensure LoggingAsker implements sphinxdex.Asker.
var _ sphinxdex.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker with debug logging.
type LoggingAsker struct {
	next   sphinxdex.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next sphinxdex.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates to the wrapped asker and logs the operation.
func (a *LoggingAsker) Ask(ctx context.Context, projectID, question string) (answer string, err error) {
	defer func(begin time.Time) {
		a.logger.Info("ask",
			"project", projectID,
			"question_len", len(question),
			"answer_len", len(answer),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Ask(ctx, projectID, question)
}
