package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/sphinxdex/bloom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("channel"))

	f.Add("channel")

	assert.True(t, f.Test("channel"))
	assert.False(t, f.Test("processor"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Add("channel")
	f.Add("tier")
	f.Add("unit")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestNewTermFilter(t *testing.T) {
	t.Parallel()

	t.Run("holds terms of every table", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewTermFilter(
			map[string][]int{"channel": {0, 2}, "tier": {1}},
			map[string][]int{"instal": {3}},
		)

		assert.True(t, f.Test("channel"))
		assert.True(t, f.Test("tier"))
		assert.True(t, f.Test("instal"))
		assert.False(t, f.Test("journal"))
	})

	t.Run("accepts empty tables", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewTermFilter(nil, map[string][]int{})

		assert.False(t, f.Test("channel"))
	})
}

func TestFilter_Bytes(t *testing.T) {
	t.Parallel()

	t.Run("decoded filter answers like the original", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(100, 0.01)
		f.Add("channel")
		f.Add("tier")

		data, err := f.Bytes()
		require.NoError(t, err)

		decoded, err := bloom.Decode(data)
		require.NoError(t, err)

		assert.True(t, decoded.Test("channel"))
		assert.True(t, decoded.Test("tier"))
		assert.False(t, decoded.Test("journal"))
	})

	t.Run("rejects truncated data", func(t *testing.T) {
		t.Parallel()

		_, err := bloom.Decode([]byte{0, 1})

		assert.Error(t, err)
	})
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)
	for i := range numItems {
		f.Add(fmt.Sprintf("term%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.Test(fmt.Sprintf("absent%d", i)) {
			falsePositives++
		}
	}

	// Allow twice the configured rate for statistical variance.
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
