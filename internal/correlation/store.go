// Package correlation implements the synonym/correlation store: word or
// word-bigram -> weighted synonym tokens, used to expand a query's terms
// before they reach the trie.
package correlation

import (
	"strings"

	"github.com/gcbaptista/corpussearch/internal/analyzer"
)

// Weighted pairs a synonym token with its correlation weight.
type Weighted struct {
	Synonym   string
	Closeness float64
}

// Store maps a correlation key (a single stemmed token, or two stemmed
// tokens joined by a space) to the synonyms registered under it. Entries
// append on conflict; the store never deduplicates.
type Store struct {
	byKey map[string][]Weighted
}

// New creates an empty correlation store.
func New() *Store {
	return &Store{byKey: make(map[string][]Weighted)}
}

// CorrelateWord registers synonym (stemmed) under the key derived from
// word, which may itself be multiple tokens: it is tokenized with
// prefixes kept, each token stemmed, and rejoined with single spaces.
func (s *Store) CorrelateWord(word, synonym string, closeness float64) {
	key := keyFor(word)
	if key == "" {
		return
	}
	s.byKey[key] = append(s.byKey[key], Weighted{Synonym: analyzer.Stem(synonym), Closeness: closeness})
}

func keyFor(word string) string {
	tokens := analyzer.Tokenize(word, true)
	stemmed := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		stemmed = append(stemmed, analyzer.Stem(tok))
	}
	return strings.Join(stemmed, " ")
}

// CollectCorrelations expands queryTerms (received as raw, unstemmed
// query terms and stemmed internally) into a weighted map seeded at 1.0
// for each query term itself, plus every correlation reachable via a
// single-token or bigram probe, plus one more pass folding in transitive
// single-hop correlations of the expanded set.
func (s *Store) CollectCorrelations(queryTerms []string) map[string]float64 {
	weights := make(map[string]float64, len(queryTerms))
	stems := make([]string, len(queryTerms))
	for i, term := range queryTerms {
		stems[i] = analyzer.Stem(term)
		bumpMax(weights, stems[i], 1.0)
	}

	for i := range stems {
		s.applyCorrelationsForKey(stems[i], weights)
		if i < len(stems)-1 {
			bigramKey := stems[i] + " " + stems[i+1]
			s.applyCorrelationsForKey(bigramKey, weights)
		}
	}

	// One more pass: fold in single-hop correlations of the terms just
	// discovered. Bigram hops are not chased recursively.
	discovered := make([]string, 0, len(weights))
	for term := range weights {
		discovered = append(discovered, term)
	}
	for _, term := range discovered {
		s.applyCorrelationsForKey(term, weights)
	}

	return weights
}

func (s *Store) applyCorrelationsForKey(key string, weights map[string]float64) {
	for _, w := range s.byKey[key] {
		bumpMax(weights, w.Synonym, w.Closeness)
	}
}

func bumpMax(weights map[string]float64, term string, weight float64) {
	if existing, ok := weights[term]; !ok || weight > existing {
		weights[term] = weight
	}
}
