// Package query implements the raw-string query parser: term extraction,
// phrase detection, and the caller-supplied document filter.
package query

import (
	"regexp"
	"strings"

	errs "github.com/gcbaptista/corpussearch/internal/errors"
)

// rawTokenRegex mirrors analyzer.Tokenize's character class but keeps
// original case, since mandatory-term matching needs the unstemmed,
// unlowered query term.
var rawTokenRegex = regexp.MustCompile(`(%%|[$%])?[A-Za-z0-9]+`)

// quotedPhraseRegex extracts the content of straight-double-quoted runs.
var quotedPhraseRegex = regexp.MustCompile(`"([^"]*)"`)

// Filter is a caller-supplied predicate over document ids. A nil Filter
// is treated as accept-all.
type Filter func(docID uint32) bool

// Query is the parsed form of a raw query string.
type Query struct {
	Raw     string
	Terms   []string   // distinct terms in original case: phrase terms first, then unquoted terms, each in order of first appearance
	Phrases [][]string // each a sequence of original-case terms, in order
	Filter  Filter
}

// Accepts applies the query's filter, defaulting to accept-all.
func (q *Query) Accepts(docID uint32) bool {
	if q.Filter == nil {
		return true
	}
	return q.Filter(docID)
}

// Parse tokenizes raw into terms and phrases. maxTerms is the distinct
// term cap (10 by default); exceeding it returns errs.ErrQueryTooLong.
// An empty query (no terms at all) is valid and simply matches nothing.
func Parse(raw string, maxTerms int) (*Query, error) {
	q := &Query{Raw: raw}

	seen := make(map[string]struct{})
	addTerm := func(term string) {
		key := strings.ToLower(term)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		q.Terms = append(q.Terms, term)
	}

	for _, phraseMatch := range quotedPhraseRegex.FindAllStringSubmatch(raw, -1) {
		phraseTerms := rawTokenRegex.FindAllString(phraseMatch[1], -1)
		if len(phraseTerms) == 0 {
			continue
		}
		q.Phrases = append(q.Phrases, phraseTerms)
		for _, t := range phraseTerms {
			addTerm(t)
		}
	}

	unquoted := quotedPhraseRegex.ReplaceAllString(raw, " ")
	for _, t := range rawTokenRegex.FindAllString(unquoted, -1) {
		addTerm(t)
	}

	if len(seen) > maxTerms {
		return nil, errs.NewQueryTooLongError(len(seen), maxTerms)
	}

	return q, nil
}
