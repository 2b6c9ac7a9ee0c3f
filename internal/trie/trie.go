// Package trie implements the term -> document-id lookup structure. Each
// terminal node stores a compact bitmap of document ids instead of a Go
// set.
package trie

import (
	"sort"

	"github.com/RoaringBitmap/roaring"
)

type node struct {
	children map[byte]*node
	// docs holds the document ids registered directly under this node's
	// term, if this node terminates a term.
	docs *roaring.Bitmap
	// term is the exact spelling stored at this node, empty if this node
	// is not a terminal.
	term string
}

func newNode() *node {
	return &node{children: make(map[byte]*node)}
}

// Trie supports insertion keyed by (term, doc-id) and both exact and
// prefix lookup.
type Trie struct {
	root *node
}

// New creates an empty Trie.
func New() *Trie {
	return &Trie{root: newNode()}
}

// Insert registers docID under term, creating intermediate nodes as
// needed. Inserting the same (term, docID) pair twice is a no-op.
func (t *Trie) Insert(term string, docID uint32) {
	if term == "" {
		return
	}
	cur := t.root
	for i := 0; i < len(term); i++ {
		b := term[i]
		child, ok := cur.children[b]
		if !ok {
			child = newNode()
			cur.children[b] = child
		}
		cur = child
	}
	if cur.docs == nil {
		cur.docs = roaring.New()
		cur.term = term
	}
	cur.docs.Add(docID)
}

// Search returns, for the given term, a mapping from document id to the
// set of indexed terms that matched. When prefix is false only the exact
// term is considered; when prefix is true every indexed term beginning
// with term contributes its own docs under its own spelling.
func (t *Trie) Search(term string, prefix bool) map[uint32]map[string]struct{} {
	result := make(map[uint32]map[string]struct{})
	if term == "" {
		return result
	}

	cur := t.root
	for i := 0; i < len(term); i++ {
		child, ok := cur.children[term[i]]
		if !ok {
			return result
		}
		cur = child
	}

	if !prefix {
		addNodeMatches(result, cur)
		return result
	}

	collect(cur, result)
	return result
}

// addNodeMatches folds a single terminal node's docs into result under its
// own spelling.
func addNodeMatches(result map[uint32]map[string]struct{}, n *node) {
	if n.docs == nil {
		return
	}
	it := n.docs.Iterator()
	for it.HasNext() {
		docID := it.Next()
		set, ok := result[docID]
		if !ok {
			set = make(map[string]struct{})
			result[docID] = set
		}
		set[n.term] = struct{}{}
	}
}

// collect walks the subtree rooted at n, folding every terminal node's
// docs into result. Order of traversal is irrelevant since result is a
// set-valued map.
func collect(n *node, result map[uint32]map[string]struct{}) {
	addNodeMatches(result, n)
	// Deterministic child order keeps behavior reproducible in tests.
	keys := make([]byte, 0, len(n.children))
	for b := range n.children {
		keys = append(keys, b)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, b := range keys {
		collect(n.children[b], result)
	}
}
