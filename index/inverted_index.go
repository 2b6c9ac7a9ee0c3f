package index

import (
	"sort"
	"strings"

	"github.com/gcbaptista/corpussearch/config"
	"github.com/gcbaptista/corpussearch/internal/analyzer"
	"github.com/gcbaptista/corpussearch/internal/correlation"
	errs "github.com/gcbaptista/corpussearch/internal/errors"
	"github.com/gcbaptista/corpussearch/internal/hits"
	"github.com/gcbaptista/corpussearch/internal/query"
	"github.com/gcbaptista/corpussearch/internal/scorer"
	"github.com/gcbaptista/corpussearch/internal/trie"
	"github.com/gcbaptista/corpussearch/model"
)

// Match is one query result: HITS and the non-HITS ranking path share the
// same shape, so the index re-exports internal/hits's arena record
// rather than duplicating it.
type Match = hits.Match

// WordObserver is the one-way sink an external spelling-dictionary builder
// can supply to Index.AddObserved: it is notified the first time a token
// is ever seen by this index, and has no influence over ingest.
type WordObserver interface {
	ObserveWord(word string)
}

// Index is the engine's single in-memory index: the inverted postings,
// the trie, the link graph, and the correlation store, plus everything
// Search needs to orchestrate them. It is not safe for concurrent
// Add/Search calls; callers serialize writers and swap readers onto a
// freshly built Index instead.
type Index struct {
	settings config.EngineSettings

	fields     map[string]*Field
	fieldOrder []string

	terms map[string]*TermEntry
	trie  *trie.Trie

	links       *LinkGraph
	correlation *correlation.Store
	analyzer    *analyzer.Analyzer

	docWeights map[uint32]float64
	nextDocID  uint32

	globalPosition int

	mandatoryTerms map[string]struct{}

	// onHITSIterations, if set, is notified with the iteration count every
	// time a HITS search converges or hits its cap. Left nil by default so
	// the core index carries no metrics dependency; hosts that want the
	// observation wire it in with SetHITSIterationsObserver.
	onHITSIterations func(int)
}

// SetHITSIterationsObserver registers fn to be called with the iteration
// count of every HITS-ranked search this Index runs. Passing nil disables
// the observation.
func (idx *Index) SetHITSIterationsObserver(fn func(int)) {
	idx.onHITSIterations = fn
}

// NewIndex builds an empty Index from settings, applying defaults and
// rejecting an invalid field set up front.
func NewIndex(settings config.EngineSettings) (*Index, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, &settingsError{problems: problems}
	}

	idx := &Index{
		settings:       settings,
		fields:         make(map[string]*Field, len(settings.Fields)),
		terms:          make(map[string]*TermEntry),
		trie:           trie.New(),
		links:          NewLinkGraph(),
		correlation:    correlation.New(),
		analyzer:       analyzer.New(),
		docWeights:     make(map[uint32]float64),
		mandatoryTerms: make(map[string]struct{}, len(settings.MandatoryTerms)),
	}
	for _, f := range settings.Fields {
		idx.fields[f.Name] = NewField(f.Name, f.Weight)
		idx.fieldOrder = append(idx.fieldOrder, f.Name)
	}
	for _, t := range settings.MandatoryTerms {
		idx.mandatoryTerms[t] = struct{}{}
	}
	return idx, nil
}

type settingsError struct{ problems []string }

func (e *settingsError) Error() string { return strings.Join(e.problems, "; ") }
func (e *settingsError) Is(target error) bool {
	return target == errs.ErrInvalidSettings
}

// CorrelateWord registers a synonym relationship.
func (idx *Index) CorrelateWord(word, synonym string, closeness float64) {
	idx.correlation.CorrelateWord(word, synonym, closeness)
}

// Add ingests a document under propertyName and returns its assigned id.
// See AddObserved for the variant that reports newly observed tokens.
func (idx *Index) Add(propertyName string, doc model.Document) (uint32, error) {
	return idx.addInternal(propertyName, doc, nil)
}

// AddObserved is Add, but notifies observer the first time any token is
// seen by this index at all (not merely by this document).
func (idx *Index) AddObserved(propertyName string, doc model.Document, observer WordObserver) (uint32, error) {
	return idx.addInternal(propertyName, doc, observer)
}

func (idx *Index) addInternal(propertyName string, doc model.Document, observer WordObserver) (uint32, error) {
	if doc.URL == "" && doc.Title == "" && doc.Tags == "" && doc.Headings == "" && doc.Text == "" {
		return 0, errs.ErrEmptyDocument
	}

	docID := idx.nextDocID
	idx.nextDocID++

	if doc.HasLinkData() {
		idx.links.AddDocument(docID, doc.URL, doc.Links)
	}
	idx.docWeights[docID] = doc.EffectiveWeight()

	for _, fieldName := range idx.fieldOrder {
		text, ok := doc.Field(fieldName)
		if !ok || text == "" {
			continue
		}

		field := idx.fields[fieldName]
		field.Invalidate()

		entry := &DocumentEntry{
			PropertyName:    propertyName,
			TermFrequencies: make(map[string]int),
		}
		seenInField := make(map[string]bool)

		for _, raw := range analyzer.Tokenize(text, true) {
			stored, hint, ok := idx.analyzer.ProcessToken(raw)
			if !ok {
				continue
			}
			if hint != nil {
				idx.correlation.CorrelateWord(hint.Word, hint.Synonym, hint.Closeness)
			}

			te, isNew := idx.getOrCreateTermEntry(stored)
			if isNew && observer != nil {
				observer.ObserveWord(stored)
			}

			if !seenInField[stored] {
				seenInField[stored] = true
				idx.trie.Insert(stored, docID)
				te.RegisterFirstOccurrence(propertyName, fieldName, docID)
			}
			te.AppendPosition(docID, idx.globalPosition)

			entry.TermFrequencies[stored]++
			entry.Len++
			field.TotalTokensSeen++
			idx.globalPosition++
		}

		field.RecordEntry(docID, entry)
		idx.globalPosition++
	}

	return docID, nil
}

func (idx *Index) getOrCreateTermEntry(term string) (entry *TermEntry, isNew bool) {
	if existing, ok := idx.terms[term]; ok {
		return existing, false
	}
	entry = NewTermEntry()
	idx.terms[term] = entry
	return entry, true
}

// Search runs the full query pipeline: parse, correlate, prefix-match via
// the trie, accumulate Dirichlet+ relevance per candidate, filter by
// phrase and by the query's document filter, then either sort by
// relevance or hand the root set to HITS. filter is a caller-supplied
// document predicate checked before a match is accepted; a nil filter
// accepts every doc.
func (idx *Index) Search(rawQuery string, filter query.Filter, useHits bool) ([]*Match, error) {
	q, err := query.Parse(rawQuery, idx.settings.MaxQueryTerms)
	if err != nil {
		return nil, err
	}
	q.Filter = filter
	q.Terms = idx.dropStopWords(q.Terms)
	if len(q.Terms) == 0 {
		return nil, nil
	}

	mandatoryStems := idx.mandatoryStemsFor(q.Terms)
	weights := idx.correlation.CollectCorrelations(q.Terms)
	queryLen := len(q.Terms)

	// First pass: walk the trie for every expanded term and record, per
	// candidate document, which indexed terms matched and at what weight.
	// This pass only reads the trie and writes into per-doc maps, so it
	// stays single-threaded; the second pass (below) is where the actual
	// per-field scoring work -- and the opportunity to parallelize it across
	// independent documents -- lives.
	type candidate struct {
		docID       uint32
		termWeights map[string]float64 // indexedTerm -> term weight
	}
	candidates := make(map[uint32]*candidate)
	for term, weight := range weights {
		termWeight := weight
		if _, ok := mandatoryStems[term]; ok {
			termWeight *= 1.5
		}

		for docID, indexedTerms := range idx.trie.Search(term, true) {
			c, ok := candidates[docID]
			if !ok {
				c = &candidate{docID: docID, termWeights: make(map[string]float64)}
				candidates[docID] = c
			}
			for indexedTerm := range indexedTerms {
				// Dirichlet+ scores linearly in term weight, so two
				// distinct expanded query terms that both prefix-match
				// the same indexed term accumulate their weights here,
				// matching the sum the unexpanded per-term loop produced.
				c.termWeights[indexedTerm] += termWeight
			}
		}
	}

	matches := make(map[uint32]*Match, len(candidates))
	candidateList := make([]*candidate, 0, len(candidates))
	for _, c := range candidates {
		m := idx.getOrCreateMatch(matches, c.docID)
		for indexedTerm := range c.termWeights {
			m.MatchedTerms[indexedTerm] = struct{}{}
		}
		candidateList = append(candidateList, c)
	}

	// Warm every field's cached length-weight single-threaded before
	// fanning out: LengthWeight recomputes and writes its cache lazily on
	// first access, which fieldScoresFor below would otherwise trigger
	// concurrently from multiple goroutines.
	for _, fieldName := range idx.fieldOrder {
		idx.fields[fieldName].LengthWeight()
	}

	// Second pass: every candidate document's relevance score depends only
	// on its own matched terms, so the per-field Dirichlet+ accumulation
	// across documents is embarrassingly parallel.
	hitsParallelEach(candidateList, func(c *candidate) {
		m := matches[c.docID]
		var score float64
		for indexedTerm, termWeight := range c.termWeights {
			te := idx.terms[indexedTerm]
			if te == nil {
				continue
			}
			score += idx.fieldScoresFor(c.docID, indexedTerm, te, termWeight, queryLen)
		}
		m.RelevanceScore = score
	})

	ordered := make([]*Match, 0, len(matches))
	for _, m := range matches {
		if !idx.phraseOK(m.DocID, q.Phrases) {
			continue
		}
		if !q.Accepts(m.DocID) {
			continue
		}
		ordered = append(ordered, m)
	}

	if !useHits {
		for _, m := range ordered {
			m.FinalScore = m.RelevanceScore
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].FinalScore > ordered[j].FinalScore })
		return capMatches(ordered, idx.settings.MaxMatches), nil
	}

	arena := hits.ExpandBaseSet(ordered, idx.links.Neighbors)
	iterations := hits.Run(arena)
	if idx.onHITSIterations != nil {
		idx.onHITSIterations(iterations)
	}
	return hits.FinalRank(arena, idx.settings.MaxMatches), nil
}

func capMatches(matches []*Match, max int) []*Match {
	if len(matches) > max {
		matches = matches[:max]
	}
	return matches
}

func (idx *Index) getOrCreateMatch(matches map[uint32]*Match, docID uint32) *Match {
	if m, ok := matches[docID]; ok {
		return m
	}
	m := hits.NewRootMatch(docID, 0, make(map[string]struct{}))
	matches[docID] = m
	return m
}

// fieldScoresFor sums the Dirichlet+ contribution of indexedTerm across
// every field the document actually participates in. A field the
// document has no entry for contributes nothing; a field it does have an
// entry for contributes even when indexedTerm's frequency there is 0,
// since termProb is keyed by (propertyName, field) rather than by this
// specific document.
func (idx *Index) fieldScoresFor(docID uint32, indexedTerm string, te *TermEntry, termWeight float64, queryLen int) float64 {
	total := 0.0
	for _, fieldName := range idx.fieldOrder {
		field := idx.fields[fieldName]
		entry, ok := field.Entries[docID]
		if !ok {
			continue
		}

		total += scorer.DirichletPlusFieldScore(scorer.FieldTermInput{
			TermWeight:           termWeight,
			TFInDoc:              entry.TermFrequencies[indexedTerm],
			TimesAppeared:        te.AppearanceCount(entry.PropertyName, fieldName),
			FieldTotalTokensSeen: field.TotalTokensSeen,
			DocLen:               entry.Len,
			QueryLen:             queryLen,
			FieldWeight:          field.Weight,
			FieldLengthWeight:    field.LengthWeight(),
			DocumentWeight:       idx.docWeights[docID],
		})
	}
	return total
}

// dropStopWords filters terms the same way ingest does, so a query term
// that was never indexed because it is a stop word never reaches the
// trie or the correlation store.
func (idx *Index) dropStopWords(terms []string) []string {
	kept := make([]string, 0, len(terms))
	for _, t := range terms {
		if idx.analyzer.IsStopWord(strings.ToLower(t)) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// mandatoryStemsFor checks each original (unstemmed) query term against
// the caller-supplied mandatory set and returns the stemmed forms of the
// ones that match: the original term decides membership, and the
// stemmed form becomes the lookup key used during scoring.
func (idx *Index) mandatoryStemsFor(originalTerms []string) map[string]struct{} {
	stems := make(map[string]struct{})
	for _, t := range originalTerms {
		if _, ok := idx.mandatoryTerms[t]; ok {
			stems[analyzer.Stem(strings.ToLower(t))] = struct{}{}
		}
	}
	return stems
}

// phraseOK reports whether docID satisfies at least one of the query's
// phrases. A query with no phrases trivially passes.
func (idx *Index) phraseOK(docID uint32, phrases [][]string) bool {
	if len(phrases) == 0 {
		return true
	}
	for _, phrase := range phrases {
		positions, ok := idx.phrasePositions(docID, phrase)
		if ok && scorer.PhraseMatches(positions) {
			return true
		}
	}
	return false
}

func (idx *Index) phrasePositions(docID uint32, phrase []string) ([][]int, bool) {
	positions := make([][]int, 0, len(phrase))
	for _, term := range phrase {
		stemmed := analyzer.Stem(strings.ToLower(term))
		te, ok := idx.terms[stemmed]
		if !ok {
			return nil, false
		}
		pos := te.Positions[docID]
		if len(pos) == 0 {
			return nil, false
		}
		positions = append(positions, pos)
	}
	return positions, true
}
