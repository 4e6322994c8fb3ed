package crawl_test

import (
	"testing"

	"github.com/fwojciec/sphinxdex/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", crawl.FormatBytes(512))
	assert.Equal(t, "1.5 KB", crawl.FormatBytes(1536))
	assert.Equal(t, "2.0 MB", crawl.FormatBytes(2*1024*1024))
}

func TestHashIndex(t *testing.T) {
	t.Parallel()

	t.Run("is stable for the same payload", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, crawl.HashIndex([]byte("Search.setIndex({})")), crawl.HashIndex([]byte("Search.setIndex({})")))
	})

	t.Run("differs for different payloads", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, crawl.HashIndex([]byte("a")), crawl.HashIndex([]byte("b")))
	})

	t.Run("is sixteen hex digits", func(t *testing.T) {
		t.Parallel()
		assert.Regexp(t, `^[0-9a-f]{16}$`, crawl.HashIndex([]byte("test")))
	})
}
