package analyzer

import "strings"

// Analyzer bundles the stop-word set used for a single index. The set is
// fixed at construction time and never mutated afterward.
type Analyzer struct {
	stopWords map[string]struct{}
}

// New builds an Analyzer with the default English stop-word list.
func New() *Analyzer {
	return &Analyzer{stopWords: StopWordSet()}
}

// CorrelationHint describes an implied correlateWord call discovered
// while processing a prefixed token: "%%x" implies correlateWord("x",
// "%%x", 0.9); "$x" or "%x" implies correlateWord("x", "$x"|"%x", 0.9).
type CorrelationHint struct {
	Word      string
	Synonym   string
	Closeness float64
}

// ProcessToken applies the stop-word and correlation-prefix rule to one
// raw token produced by Tokenize(text, true). It returns ok=false if the
// token should be dropped as a stop word, the form that should be stored
// in the index (verbatim for prefixed tokens, stemmed otherwise), and an
// optional correlation hint to register.
func (a *Analyzer) ProcessToken(raw string) (stored string, hint *CorrelationHint, ok bool) {
	prefix, base := splitPrefix(raw)

	if _, isStop := a.stopWords[base]; isStop {
		return "", nil, false
	}

	if prefix == "" {
		return Stem(base), nil, true
	}

	return raw, &CorrelationHint{Word: base, Synonym: raw, Closeness: 0.9}, true
}

// splitPrefix separates a correlation-prefix marker ("%%", "$", or "%")
// from the base word it annotates. It returns an empty prefix for
// unmarked tokens.
func splitPrefix(token string) (prefix, base string) {
	switch {
	case strings.HasPrefix(token, "%%"):
		return "%%", strings.TrimPrefix(token, "%%")
	case strings.HasPrefix(token, "$"):
		return "$", strings.TrimPrefix(token, "$")
	case strings.HasPrefix(token, "%"):
		return "%", strings.TrimPrefix(token, "%")
	default:
		return "", token
	}
}

// IsStopWord reports whether word (already lowercased, unprefixed) is in
// the analyzer's stop-word set. Used by the query path to drop query
// terms that were never indexed in the first place.
func (a *Analyzer) IsStopWord(word string) bool {
	_, ok := a.stopWords[word]
	return ok
}
