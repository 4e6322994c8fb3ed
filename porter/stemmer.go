// Package porter provides the Porter stemmer that Sphinx uses for English
// search indexes.
package porter

import (
	porterstemmer "github.com/reiver/go-porterstemmer"

	"github.com/fwojciec/sphinxdex"
)

// Ensure Stemmer implements sphinxdex.Stemmer at compile time.
var _ sphinxdex.Stemmer = (*Stemmer)(nil)

// Stemmer implements sphinxdex.Stemmer with the original Porter algorithm.
type Stemmer struct{}

// NewStemmer creates a new Stemmer.
func NewStemmer() *Stemmer {
	return &Stemmer{}
}

// Stem returns the Porter stem of a lowercase word. Words the stemmer
// cannot handle, such as "eed", are returned unchanged.
func (s *Stemmer) Stem(word string) (stem string) {
	if word == "" {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			stem = word
		}
	}()
	return porterstemmer.StemString(word)
}
