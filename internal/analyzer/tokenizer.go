// Package analyzer implements the text analysis contract shared by ingest
// and query: tokenization, stop-word filtering, stemming, and the
// correlation-prefix rule. Both paths must tokenize identically, so a
// single Analyzer is used on both sides of the index.
package analyzer

import (
	"regexp"
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
)

// acronymRegex and camelCaseRegex split camel/PascalCase runs before the
// text is lowered, so "HTTPRequest" and "theOffice" still produce
// separate tokens.
var (
	acronymRegex   = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	camelCaseRegex = regexp.MustCompile(`([a-z0-9])([A-Z])`)

	// wordRegex matches plain alphanumeric tokens.
	wordRegex = regexp.MustCompile(`[a-z0-9]+`)

	// prefixWordRegex additionally captures a leading %%, $, or % marker,
	// used when correlation prefixes must survive tokenization.
	prefixWordRegex = regexp.MustCompile(`(%%|[$%])?[a-z0-9]+`)
)

// Tokenize splits text into lowercase tokens. When keepPrefixes is true,
// a leading "%%", "$", or "%" marker is preserved on the token that
// immediately follows it; this must be enabled on both the ingest and the
// query path for correlation prefixes to round-trip.
func Tokenize(text string, keepPrefixes bool) []string {
	processed := acronymRegex.ReplaceAllString(text, "$1 $2")
	processed = camelCaseRegex.ReplaceAllString(processed, "$1 $2")
	lower := strings.ToLower(processed)

	re := wordRegex
	if keepPrefixes {
		re = prefixWordRegex
	}

	matches := re.FindAllString(lower, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if m != "" {
			tokens = append(tokens, m)
		}
	}
	return tokens
}

// Stem applies a deterministic Porter stemmer. Idempotent: Stem(Stem(x))
// always equals Stem(x), since the stemmer is re-applied until its output
// no longer changes (a single Porter pass is not idempotent, e.g.
// "databases" -> "databas" -> "databa").
func Stem(token string) string {
	for {
		next := porterstemmer.StemString(token)
		if next == token {
			return next
		}
		token = next
	}
}
