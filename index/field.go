// Package index implements the inverted index, link graph, and the Index
// type that orchestrates the full query pipeline. It is the heart of the
// engine.
package index

// DocumentEntry is a single document's registration within one Field: its
// caller-supplied property name, the number of non-stop tokens it
// contributed to the field, and a token -> frequency map for that
// (doc, field) pair.
type DocumentEntry struct {
	PropertyName    string
	Len             int
	TermFrequencies map[string]int
}

// Field is a named text channel with a static weight and per-document
// entries. LengthWeight is cached lazily and invalidated whenever a new
// document entry is recorded.
type Field struct {
	Name   string
	Weight float64

	Entries map[uint32]*DocumentEntry

	// TotalTokensSeen is the cumulative count of non-stop tokens ever
	// absorbed by this field, across all documents.
	TotalTokensSeen int

	lengthWeight      float64
	lengthWeightValid bool
}

// NewField creates an empty field with the given name and weight.
func NewField(name string, weight float64) *Field {
	return &Field{
		Name:    name,
		Weight:  weight,
		Entries: make(map[uint32]*DocumentEntry),
	}
}

// Invalidate clears the cached length-weight. Called once per Add before
// that field is touched.
func (f *Field) Invalidate() {
	f.lengthWeightValid = false
}

// LengthWeight returns (#docs with an entry in the field) / (sum over
// those entries of the number of distinct tokens in that entry),
// recomputing and caching on first access after invalidation.
func (f *Field) LengthWeight() float64 {
	if f.lengthWeightValid {
		return f.lengthWeight
	}

	docCount := 0
	distinctTokenSum := 0
	for _, entry := range f.Entries {
		docCount++
		distinctTokenSum += len(entry.TermFrequencies)
	}

	if distinctTokenSum == 0 {
		f.lengthWeight = 0
	} else {
		f.lengthWeight = float64(docCount) / float64(distinctTokenSum)
	}
	f.lengthWeightValid = true
	return f.lengthWeight
}

// RecordEntry stores entry for docID and invalidates the length-weight
// cache, since the cache's denominator depends on every entry.
func (f *Field) RecordEntry(docID uint32, entry *DocumentEntry) {
	f.Entries[docID] = entry
	f.lengthWeightValid = false
}
