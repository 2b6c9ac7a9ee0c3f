// Package hits implements HITS link-analysis re-ranking: base-set
// expansion over the link graph, authority/hub iteration, and the final
// combined-score ranking.
package hits

import (
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Match is the per-query, per-document record shared across the HITS
// arena. Incoming and Outgoing hold pointers into the same arena rather
// than owning copies: the arena owns every Match for the lifetime of one
// search call.
type Match struct {
	DocID          uint32
	RelevanceScore float64
	MatchedTerms   map[string]struct{}

	Authority float64
	Hub       float64

	Incoming []*Match
	Outgoing []*Match

	FinalScore float64
}

// NewRootMatch creates a Match for a document that matched the query
// directly, with HITS scores initialized to 1.0 as required before the
// first iteration.
func NewRootMatch(docID uint32, relevance float64, matchedTerms map[string]struct{}) *Match {
	return &Match{DocID: docID, RelevanceScore: relevance, MatchedTerms: matchedTerms, Authority: 1.0, Hub: 1.0}
}

// NeighborFunc resolves a document's incoming and outgoing link
// neighbors, backed by index.LinkGraph.Neighbors.
type NeighborFunc func(docID uint32) (incoming, outgoing []uint32)

// ExpandBaseSet builds the base set from a root set: every root Match,
// plus a placeholder Match (relevance 0, authority/hub 1.0) for every
// link neighbor not already present. Only the root set's own neighbors
// are resolved -- the base set is root plus one hop, not a transitive
// closure.
func ExpandBaseSet(root []*Match, neighbors NeighborFunc) map[uint32]*Match {
	arena := make(map[uint32]*Match, len(root))
	for _, m := range root {
		arena[m.DocID] = m
	}

	getOrCreate := func(docID uint32) *Match {
		if m, ok := arena[docID]; ok {
			return m
		}
		m := &Match{DocID: docID, Authority: 1.0, Hub: 1.0}
		arena[docID] = m
		return m
	}

	for _, m := range root {
		incomingIDs, outgoingIDs := neighbors(m.DocID)
		for _, id := range incomingIDs {
			m.Incoming = append(m.Incoming, getOrCreate(id))
		}
		for _, id := range outgoingIDs {
			m.Outgoing = append(m.Outgoing, getOrCreate(id))
		}
	}

	return arena
}

const (
	convergenceEpsilon = 1e-5
	maxIterations       = 200
)

// Run iterates authority and hub updates to convergence (or 200
// iterations, whichever comes first). It returns the number of
// iterations actually performed, for callers that want to observe
// convergence behavior (e.g. as a metric).
func Run(arena map[uint32]*Match) int {
	matches := values(arena)
	if len(matches) == 0 {
		return 0
	}

	prevAuthNorm, prevHubNorm := 0.0, 0.0
	for iter := 0; iter < maxIterations; iter++ {
		authNorm := updateAuthority(matches)
		hubNorm := updateHub(matches)

		if iter > 0 &&
			math.Abs(authNorm-prevAuthNorm) < convergenceEpsilon &&
			math.Abs(hubNorm-prevHubNorm) < convergenceEpsilon {
			return iter + 1
		}
		prevAuthNorm, prevHubNorm = authNorm, hubNorm
	}
	return maxIterations
}

func values(arena map[uint32]*Match) []*Match {
	out := make([]*Match, 0, len(arena))
	for _, m := range arena {
		out = append(out, m)
	}
	return out
}

// updateAuthority sets each match's authority to the sum of its incoming
// neighbors' hub scores, then L2-normalizes across the whole arena. The
// per-match sums are independent (each writes only its own Authority
// field while reading others' Hub), so they are computed concurrently via
// errgroup, sharded across GOMAXPROCS workers.
func updateAuthority(matches []*Match) float64 {
	parallelEach(matches, func(m *Match) {
		sum := 0.0
		for _, nb := range m.Incoming {
			sum += nb.Hub
		}
		m.Authority = sum
	})
	return normalize(matches, func(m *Match) float64 { return m.Authority }, func(m *Match, v float64) { m.Authority = v })
}

// updateHub mirrors updateAuthority using outgoing neighbors' authority.
func updateHub(matches []*Match) float64 {
	parallelEach(matches, func(m *Match) {
		sum := 0.0
		for _, nb := range m.Outgoing {
			sum += nb.Authority
		}
		m.Hub = sum
	})
	return normalize(matches, func(m *Match) float64 { return m.Hub }, func(m *Match, v float64) { m.Hub = v })
}

func parallelEach(matches []*Match, fn func(*Match)) {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > len(matches) {
		workers = len(matches)
	}
	if workers <= 1 {
		for _, m := range matches {
			fn(m)
		}
		return
	}

	chunkSize := (len(matches) + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < len(matches); start += chunkSize {
		end := start + chunkSize
		if end > len(matches) {
			end = len(matches)
		}
		chunk := matches[start:end]
		g.Go(func() error {
			for _, m := range chunk {
				fn(m)
			}
			return nil
		})
	}
	_ = g.Wait() // fn never errors
}

func normalize(matches []*Match, get func(*Match) float64, set func(*Match, float64)) float64 {
	sumSquares := 0.0
	for _, m := range matches {
		v := get(m)
		sumSquares += v * v
	}
	norm := math.Sqrt(sumSquares)
	if norm > 0 {
		for _, m := range matches {
			set(m, get(m)/norm)
		}
	}
	return norm
}

// FinalRank filters converged matches down to the ones worth keeping,
// combines relevance and authority into a final score with a statistical
// penalty for low-relevance outliers, and returns the result capped at
// maxMatches.
func FinalRank(arena map[uint32]*Match, maxMatches int) []*Match {
	survivors := make([]*Match, 0, len(arena))
	for _, m := range arena {
		if m.RelevanceScore <= 0 {
			continue
		}
		if math.IsNaN(m.Authority) {
			m.Authority = 1e-10
		}
		survivors = append(survivors, m)
	}

	if len(survivors) == 0 {
		return nil
	}

	tau := sampleStdDev(survivors)

	maxRel, maxAuth := 0.0, 0.0
	haveThresholdSample := false
	for _, m := range survivors {
		if m.RelevanceScore >= tau {
			haveThresholdSample = true
			if m.RelevanceScore > maxRel {
				maxRel = m.RelevanceScore
			}
			if m.Authority > maxAuth {
				maxAuth = m.Authority
			}
		}
	}
	if !haveThresholdSample {
		// Nothing cleared the threshold; fall back to the global maxima
		// so the score formula below never divides by zero.
		for _, m := range survivors {
			if m.RelevanceScore > maxRel {
				maxRel = m.RelevanceScore
			}
			if m.Authority > maxAuth {
				maxAuth = m.Authority
			}
		}
	}

	const inverseLog2Of4 = 1.0 / 2.0 // log2(4) == 2

	for _, m := range survivors {
		// Every authority is 0 when no survivor has an incoming link; the
		// authority term then adds nothing rather than 0/0.
		authRatio := 0.0
		if maxAuth > 0 {
			authRatio = m.Authority / maxAuth
		}
		score := log2(m.RelevanceScore/maxRel+1) + log2(authRatio+1)*inverseLog2Of4
		if m.RelevanceScore < 2.5*tau {
			score -= tau / m.RelevanceScore
		}
		m.FinalScore = score
	}

	sort.Slice(survivors, func(i, j int) bool { return survivors[i].FinalScore > survivors[j].FinalScore })

	if len(survivors) > maxMatches {
		survivors = survivors[:maxMatches]
	}
	return survivors
}

func sampleStdDev(matches []*Match) float64 {
	n := len(matches)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, m := range matches {
		mean += m.RelevanceScore
	}
	mean /= float64(n)

	sumSq := 0.0
	for _, m := range matches {
		d := m.RelevanceScore - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

func log2(x float64) float64 {
	return math.Log2(x)
}
