package index

import (
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// normalizeURL collapses a trailing "/index.html" to "/". Any other URL
// passes through unchanged.
func normalizeURL(url string) string {
	if strings.HasSuffix(url, "/index.html") {
		return strings.TrimSuffix(url, "index.html")
	}
	return url
}

// LinkGraph holds the forward/inverse URL adjacency (component F) plus
// the URL<->doc-id mappings needed to resolve HITS neighbors. Neighbor
// results are cached per doc-id once computed, since they depend only on
// this static graph.
type LinkGraph struct {
	forward map[string][]string
	inverse map[string][]string

	urlToID map[string]uint32
	idToURL map[uint32]string

	// neighborCache[docID] holds the previously resolved (incoming,
	// outgoing) neighbor doc-id bitmaps, computed lazily on first use.
	neighborCache map[uint32]neighborSet
}

type neighborSet struct {
	incoming *roaring.Bitmap
	outgoing *roaring.Bitmap
}

// NewLinkGraph creates an empty link graph.
func NewLinkGraph() *LinkGraph {
	return &LinkGraph{
		forward:       make(map[string][]string),
		inverse:       make(map[string][]string),
		urlToID:       make(map[string]uint32),
		idToURL:       make(map[uint32]string),
		neighborCache: make(map[uint32]neighborSet),
	}
}

// AddDocument registers docID's URL and outbound links, updating the
// forward and inverse adjacency. Called only when both url and links are
// present on the ingested document.
func (g *LinkGraph) AddDocument(docID uint32, url string, links []string) {
	url = normalizeURL(url)
	g.urlToID[url] = docID
	g.idToURL[docID] = url

	normalized := make([]string, len(links))
	for i, l := range links {
		normalized[i] = normalizeURL(l)
	}
	g.forward[url] = append(g.forward[url], normalized...)

	for _, target := range normalized {
		g.inverse[target] = append(g.inverse[target], url)
	}

	// The graph just grew; any cached neighbor sets computed before this
	// call are stale. Since neighbor resolution only ever occurs during
	// search, and ingest and search do not interleave, clearing the
	// whole cache on every ingested document is simpler and cheap enough
	// than tracking which URLs were actually affected.
	g.neighborCache = make(map[uint32]neighborSet)
}

// Neighbors resolves docID's incoming and outgoing neighbor document ids
// through its URL. Self-loops and unknown URLs are dropped. Doc id 0 is
// also dropped from results -- an acknowledged oddity preserved here to
// keep ranking parity with earlier behavior.
func (g *LinkGraph) Neighbors(docID uint32) (incoming, outgoing []uint32) {
	if cached, ok := g.neighborCache[docID]; ok {
		return bitmapToSlice(cached.incoming), bitmapToSlice(cached.outgoing)
	}

	url, ok := g.idToURL[docID]
	if !ok {
		g.neighborCache[docID] = neighborSet{incoming: roaring.New(), outgoing: roaring.New()}
		return nil, nil
	}

	inBM := roaring.New()
	for _, fromURL := range g.inverse[url] {
		if id, ok := g.urlToID[fromURL]; ok && id != docID && id != 0 {
			inBM.Add(id)
		}
	}

	outBM := roaring.New()
	for _, toURL := range g.forward[url] {
		if id, ok := g.urlToID[toURL]; ok && id != docID && id != 0 {
			outBM.Add(id)
		}
	}

	g.neighborCache[docID] = neighborSet{incoming: inBM, outgoing: outBM}
	return bitmapToSlice(inBM), bitmapToSlice(outBM)
}

func bitmapToSlice(bm *roaring.Bitmap) []uint32 {
	if bm == nil || bm.IsEmpty() {
		return nil
	}
	out := make([]uint32, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, it.Next())
	}
	return out
}
