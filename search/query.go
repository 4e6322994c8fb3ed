package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopwords are skipped when matching terms, as in Sphinx's English language
// support. They still take part in object name matching.
var stopwords = map[string]bool{
	"a": true, "and": true, "are": true, "as": true, "at": true, "be": true,
	"but": true, "by": true, "for": true, "if": true, "in": true, "into": true,
	"is": true, "it": true, "near": true, "no": true, "not": true, "of": true,
	"on": true, "or": true, "such": true, "that": true, "the": true, "their": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"to": true, "was": true, "will": true, "with": true,
}

// questionWords carry no meaning in a natural language question and are
// skipped by SearchAny.
var questionWords = map[string]bool{
	"can": true, "could": true, "did": true, "do": true, "does": true,
	"how": true, "i": true, "me": true, "my": true, "should": true,
	"we": true, "what": true, "when": true, "where": true, "which": true,
	"who": true, "why": true, "would": true, "you": true, "your": true,
}

// Query is a parsed search query.
type Query struct {
	// Text is the raw query, lowercased and trimmed.
	Text string

	// Objects are the lowercased words matched against object names.
	Objects []string

	// Terms are the stems a document must contain.
	Terms []string

	// Excluded are the stems a document must not contain.
	Excluded []string
}

// IsEmpty reports whether the query can match anything.
func (q Query) IsEmpty() bool {
	return len(q.Objects) == 0 && len(q.Terms) == 0 && q.Text == ""
}

// ParseQuery splits a query into words, drops stopwords and stems the rest.
// A whitespace separated word starting with "-" excludes documents
// containing it.
func (s *Searcher) ParseQuery(query string) Query {
	return s.parseQuery(query, nil)
}

// parseQuery is ParseQuery skipping the words in ignore entirely.
func (s *Searcher) parseQuery(query string, ignore map[string]bool) Query {
	q := Query{Text: strings.ToLower(strings.TrimSpace(query))}

	for _, field := range strings.Fields(query) {
		excluded := len(field) > 1 && field[0] == '-'
		if excluded {
			field = field[1:]
		}

		for _, word := range SplitQuery(field) {
			word = strings.ToLower(word)
			if ignore[word] {
				continue
			}
			if !excluded {
				q.Objects = appendUnique(q.Objects, word)
			}
			if stopwords[word] {
				continue
			}

			stem := s.stemmer.Stem(word)
			// Keep the stemmer from cutting words down to fewer than three runes.
			if utf8.RuneCountInString(stem) < 3 && utf8.RuneCountInString(word) >= 3 {
				stem = word
			}

			if excluded {
				q.Excluded = appendUnique(q.Excluded, stem)
			} else {
				q.Terms = appendUnique(q.Terms, stem)
			}
		}
	}

	return q
}

// SplitQuery splits text on every rune that is not a letter, a number or an
// underscore.
func SplitQuery(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
	})
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
