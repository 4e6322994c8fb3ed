package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/mock"
	sphinxslog "github.com/fwojciec/sphinxdex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingAsker_Ask(t *testing.T) {
	t.Parallel()

	t.Run("logs question and answer sizes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Asker{
			AskFn: func(context.Context, string, string) (string, error) {
				return "See the API page.", nil
			},
		}

		asker := sphinxslog.NewLoggingAsker(inner, logger)
		answer, err := asker.Ask(context.Background(), "p1", "how do I run?")

		require.NoError(t, err)
		assert.Equal(t, "See the API page.", answer)
		output := buf.String()
		assert.Contains(t, output, "msg=ask")
		assert.Contains(t, output, "project=p1")
		assert.Contains(t, output, "question_len=13")
		assert.Contains(t, output, "answer_len=17")
	})

	t.Run("logs error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Asker{
			AskFn: func(context.Context, string, string) (string, error) {
				return "", sphinxdex.Errorf(sphinxdex.ENOTFOUND, "no results")
			},
		}

		asker := sphinxslog.NewLoggingAsker(inner, logger)
		_, err := asker.Ask(context.Background(), "p1", "anything")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=")
	})
}

func TestLoggingSearchService_Search(t *testing.T) {
	t.Parallel()

	t.Run("logs query and result count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SearchService{
			SearchFn: func(_ context.Context, query string, opts sphinxdex.SearchOptions) ([]sphinxdex.Result, error) {
				return []sphinxdex.Result{{Title: "Channels"}}, nil
			},
		}

		svc := sphinxslog.NewLoggingSearchService(inner, logger)
		results, err := svc.Search(context.Background(), "channel", sphinxdex.SearchOptions{ProjectIDs: []string{"p1", "p2"}})

		require.NoError(t, err)
		assert.Len(t, results, 1)
		output := buf.String()
		assert.Contains(t, output, "query=channel")
		assert.Contains(t, output, "projects=2")
		assert.Contains(t, output, "count=1")
	})
}
