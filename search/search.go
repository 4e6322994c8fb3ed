// Package search ranks the documents of a Sphinx search index against a
// query, following the rules of the searchtools.js script shipped with Sphinx.
package search

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/sphinxdex"
)

// Scores used to rank results. These are the defaults of Sphinx's Scorer.
const (
	ScoreObjNameMatch    = 11
	ScoreObjPartialMatch = 6
	ScoreTitle           = 15
	ScorePartialTitle    = 7
	ScoreTerm            = 5
	ScorePartialTerm     = 2
)

// objPrio adds to an object's score according to its search priority.
// Other priorities add nothing.
var objPrio = map[int]int{0: 15, 1: 5, 2: -5}

// Searcher runs queries against a single in-memory index.
type Searcher struct {
	stemmer sphinxdex.Stemmer
}

// NewSearcher creates a new Searcher using stemmer to normalize query words.
func NewSearcher(stemmer sphinxdex.Stemmer) *Searcher {
	return &Searcher{stemmer: stemmer}
}

// Search returns the results of query against idx, best first. A limit of
// zero returns every result.
func (s *Searcher) Search(idx *sphinxdex.Index, query string, limit int) []sphinxdex.Result {
	q := s.ParseQuery(query)
	if q.IsEmpty() {
		return nil
	}

	var results []sphinxdex.Result
	results = append(results, titleSearch(idx, q)...)
	for i, word := range q.Objects {
		others := make([]string, 0, len(q.Objects)-1)
		others = append(others, q.Objects[:i]...)
		others = append(others, q.Objects[i+1:]...)
		results = append(results, objectSearch(idx, word, others)...)
	}
	results = append(results, termSearch(idx, q, false)...)

	return limitResults(Dedupe(SortResults(results)), limit)
}

// SearchAny is a relaxed Search for natural language questions. Question
// words such as "how" and "what" are skipped, a document needs to match only
// one of the remaining terms, and its score is the sum of its per-word
// scores so documents matching more words rank first. Each word of three or
// more runes that is not a stopword is matched against object names alone.
func (s *Searcher) SearchAny(idx *sphinxdex.Index, query string, limit int) []sphinxdex.Result {
	q := s.parseQuery(query, questionWords)
	if q.IsEmpty() {
		return nil
	}

	var results []sphinxdex.Result
	results = append(results, titleSearch(idx, q)...)
	for _, word := range q.Objects {
		if stopwords[word] || utf8.RuneCountInString(word) < 3 {
			continue
		}
		results = append(results, objectSearch(idx, word, nil)...)
	}
	results = append(results, termSearch(idx, q, true)...)

	return limitResults(Dedupe(SortResults(results)), limit)
}

func limitResults(results []sphinxdex.Result, limit int) []sphinxdex.Result {
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// titleSearch matches the whole query against section titles and index
// entries. The query must cover at least half of the title.
func titleSearch(idx *sphinxdex.Index, q Query) []sphinxdex.Result {
	if q.Text == "" {
		return nil
	}
	qlen := utf8.RuneCountInString(q.Text)

	var results []sphinxdex.Result
	for title, anchors := range idx.AllTitles {
		lower := strings.ToLower(strings.TrimSpace(title))
		tlen := utf8.RuneCountInString(title)
		if !strings.Contains(lower, q.Text) || qlen*2 < tlen {
			continue
		}

		score := int(math.Round(float64(ScoreTitle*qlen) / float64(tlen)))
		for _, a := range anchors {
			ref, ok := idx.Doc(a.Doc)
			if !ok {
				continue
			}
			display := title
			boost := 1
			if ref.Title != title {
				display = ref.Title + " > " + title
				boost = 0
			}
			results = append(results, sphinxdex.Result{
				Doc:    ref,
				Title:  display,
				Anchor: a.ID,
				Score:  score + boost,
				Kind:   sphinxdex.KindTitle,
			})
		}
	}

	for entry, anchors := range idx.IndexEntries {
		elen := utf8.RuneCountInString(entry)
		if !strings.Contains(entry, q.Text) || qlen*2 < elen {
			continue
		}

		score := int(math.Round(float64(100*qlen) / float64(elen)))
		for _, a := range anchors {
			ref, ok := idx.Doc(a.Doc)
			if !ok {
				continue
			}
			results = append(results, sphinxdex.Result{
				Doc:    ref,
				Title:  ref.Title,
				Anchor: a.ID,
				Score:  score,
				Kind:   sphinxdex.KindTitle,
			})
		}
	}

	return results
}

// objectSearch matches word against the full names of objects. When the
// query has other words, each must appear in the object's name, type or
// document title.
func objectSearch(idx *sphinxdex.Index, word string, others []string) []sphinxdex.Result {
	var results []sphinxdex.Result

	for _, o := range idx.Objects {
		fullname := o.FullName()
		lower := strings.ToLower(fullname)
		if !strings.Contains(lower, word) {
			continue
		}

		ref, ok := idx.Doc(o.Doc)
		if !ok {
			continue
		}
		typ := idx.ObjType(o)

		score := 0
		parts := strings.Split(lower, ".")
		last := parts[len(parts)-1]
		if lower == word || last == word {
			score += ScoreObjNameMatch
		} else if strings.Contains(last, word) {
			score += ScoreObjPartialMatch
		}

		if len(others) > 0 {
			haystack := strings.ToLower(o.Prefix + " " + o.Name + " " + typ.Label + " " + ref.Title)
			if !containsAll(haystack, others) {
				continue
			}
		}

		score += objPrio[o.Prio]

		results = append(results, sphinxdex.Result{
			Doc:         ref,
			Title:       fullname,
			Anchor:      o.ResolveAnchor(typ),
			Description: typ.Label + ", in " + ref.Title,
			Score:       score,
			Kind:        sphinxdex.KindObject,
		})
	}

	return results
}

// termSearch matches the stemmed query terms against the terms and
// titleterms tables. A document must match every term and none of the
// excluded ones; its score is the best score among its matched terms.
// With matchAny a single matched term is enough and the scores of the
// matched terms are summed.
func termSearch(idx *sphinxdex.Index, q Query, matchAny bool) []sphinxdex.Result {
	type hit struct {
		docs  []int
		score int
	}

	matched := make(map[int]map[string]int)

	for _, word := range q.Terms {
		var hits []hit
		if docs, ok := idx.Terms[word]; ok {
			hits = append(hits, hit{docs, ScoreTerm})
		}
		if docs, ok := idx.TitleTerms[word]; ok {
			hits = append(hits, hit{docs, ScoreTitle})
		}

		// Partial matches only count for words that have no exact match.
		if utf8.RuneCountInString(word) > 2 {
			if _, ok := idx.Terms[word]; !ok {
				for term, docs := range idx.Terms {
					if strings.Contains(term, word) {
						hits = append(hits, hit{docs, ScorePartialTerm})
					}
				}
			}
			if _, ok := idx.TitleTerms[word]; !ok {
				for term, docs := range idx.TitleTerms {
					if strings.Contains(term, word) {
						hits = append(hits, hit{docs, ScorePartialTitle})
					}
				}
			}
		}

		// A required word without any match ends the search.
		if len(hits) == 0 {
			if matchAny {
				continue
			}
			break
		}

		for _, h := range hits {
			for _, doc := range h.docs {
				words := matched[doc]
				if words == nil {
					words = make(map[string]int)
					matched[doc] = words
				}
				if cur, ok := words[word]; !ok || h.score > cur {
					words[word] = h.score
				}
			}
		}
	}

	// Terms of two runes or fewer never match partially, so documents may
	// satisfy the query without them.
	long := 0
	for _, word := range q.Terms {
		if utf8.RuneCountInString(word) > 2 {
			long++
		}
	}

	var results []sphinxdex.Result
	for doc, words := range matched {
		if !matchAny && len(words) != len(q.Terms) && len(words) != long {
			continue
		}
		if isExcluded(idx, doc, q.Excluded) {
			continue
		}
		ref, ok := idx.Doc(doc)
		if !ok {
			continue
		}

		best := math.MinInt
		sum := 0
		for _, score := range words {
			sum += score
			if score > best {
				best = score
			}
		}
		if matchAny {
			best = sum
		}

		results = append(results, sphinxdex.Result{
			Doc:   ref,
			Title: ref.Title,
			Score: best,
			Kind:  sphinxdex.KindText,
		})
	}

	return results
}

func isExcluded(idx *sphinxdex.Index, doc int, excluded []string) bool {
	for _, word := range excluded {
		if containsInt(idx.Terms[word], doc) || containsInt(idx.TitleTerms[word], doc) {
			return true
		}
	}
	return false
}

// SortResults orders results by descending score, then by title, document
// name and anchor. The slice is sorted in place and returned.
func SortResults(results []sphinxdex.Result) []sphinxdex.Result {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if at != bt {
			return at < bt
		}
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		if a.Doc.DocName != b.Doc.DocName {
			return a.Doc.DocName < b.Doc.DocName
		}
		return a.Anchor < b.Anchor
	})
	return results
}

// Dedupe drops results pointing at the same place as an earlier result.
// Applied to sorted results it keeps the best scoring duplicate.
func Dedupe(results []sphinxdex.Result) []sphinxdex.Result {
	type key struct {
		project, doc, title, anchor, descr string
	}

	seen := make(map[key]bool, len(results))
	out := results[:0]
	for _, r := range results {
		k := key{r.ProjectID, r.Doc.DocName, r.Title, r.Anchor, r.Description}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func containsAll(haystack string, needles []string) bool {
	for _, n := range needles {
		if !strings.Contains(haystack, n) {
			return false
		}
	}
	return true
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
