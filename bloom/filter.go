// Package bloom provides term membership filters backed by Bloom filters.
package bloom

import (
	"bytes"
	"fmt"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFPRate is the false positive rate of filters built by NewTermFilter.
const DefaultFPRate = 0.01

// Filter wraps a Bloom filter answering "might this index contain the term?".
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewTermFilter creates a filter holding every key of the given term tables.
func NewTermFilter(tables ...map[string][]int) *Filter {
	var n uint
	for _, t := range tables {
		n += uint(len(t))
	}

	f := NewFilter(n, DefaultFPRate)
	for _, t := range tables {
		for term := range t {
			f.Add(term)
		}
	}
	return f
}

// Add adds a term to the filter.
func (f *Filter) Add(term string) {
	f.f.AddString(term)
}

// Test returns true if the term might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(term string) bool {
	return f.f.TestString(term)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Bytes serializes the filter for storage.
func (f *Filter) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode bloom filter: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode restores a filter serialized by Bytes.
func Decode(data []byte) (*Filter, error) {
	f := &bloom.BloomFilter{}
	if _, err := f.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to decode bloom filter: %w", err)
	}
	return &Filter{f: f}, nil
}
