// Package engine hosts the atomic-swap concurrency wrapper around a
// single index.Index: a single-writer, single-index, non-persistent
// publish/search model.
package engine

import (
	"errors"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gcbaptista/corpussearch/config"
	"github.com/gcbaptista/corpussearch/index"
	errs "github.com/gcbaptista/corpussearch/internal/errors"
	"github.com/gcbaptista/corpussearch/internal/metrics"
	"github.com/gcbaptista/corpussearch/internal/query"
)

// Host publishes a single *index.Index for concurrent readers while
// serializing writers, via a fresh-index-then-atomic-swap pattern.
// Readers calling Search always observe a fully-built index, never a
// partially-ingested one; Rebuild builds the replacement off to the side
// and only publishes it once ingest finishes without error.
type Host struct {
	current atomic.Pointer[index.Index]
	buildMu sync.Mutex

	metrics *metrics.Metrics
}

// NewHost creates a Host with no index published yet; Search returns
// ErrStillIndexing until the first successful Rebuild.
func NewHost() *Host {
	return &Host{}
}

// SetMetrics attaches m to the host: every future Rebuild wires a fresh
// index's HITS iteration count into m, and Search records outcome counts,
// latency, and result-set size against it. Passing nil detaches metrics
// again.
func (h *Host) SetMetrics(m *metrics.Metrics) {
	h.metrics = m
}

// Search delegates to the currently published index, or fails with
// ErrStillIndexing if none has been published yet -- a host-level guard
// the core index itself never enforces.
func (h *Host) Search(rawQuery string, filter query.Filter, useHits bool) ([]*index.Match, error) {
	start := time.Now()
	results, err := h.search(rawQuery, filter, useHits)

	if h.metrics != nil {
		h.metrics.QueriesTotal.WithLabelValues(outcomeLabel(err)).Inc()
		h.metrics.QueryLatency.WithLabelValues(strconv.FormatBool(useHits)).Observe(time.Since(start).Seconds())
		if err == nil {
			h.metrics.ResultsPerQuery.Observe(float64(len(results)))
		}
	}
	return results, err
}

func (h *Host) search(rawQuery string, filter query.Filter, useHits bool) ([]*index.Match, error) {
	idx := h.current.Load()
	if idx == nil {
		return nil, errs.ErrStillIndexing
	}
	return idx.Search(rawQuery, filter, useHits)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errs.ErrQueryTooLong):
		return "query_too_long"
	case errors.Is(err, errs.ErrStillIndexing):
		return "still_indexing"
	default:
		return "error"
	}
}

// Rebuild constructs a fresh index.Index from settings, hands it to
// build for population, and publishes it atomically only on success.
// Concurrent Rebuild calls are serialized; concurrent Search calls are
// never blocked and never see a half-built index.
func (h *Host) Rebuild(settings config.EngineSettings, build func(*index.Index) error) error {
	h.buildMu.Lock()
	defer h.buildMu.Unlock()

	settings.ApplyDefaults()
	fresh, err := index.NewIndex(settings)
	if err != nil {
		return err
	}
	if h.metrics != nil {
		observer := h.metrics.HITSIterations
		fresh.SetHITSIterationsObserver(func(n int) { observer.Observe(float64(n)) })
	}
	if err := build(fresh); err != nil {
		return err
	}

	h.current.Store(fresh)
	log.Printf("engine: published a freshly built index (%d fields)", len(settings.Fields))
	return nil
}

// Ready reports whether a search-able index has been published at least
// once.
func (h *Host) Ready() bool {
	return h.current.Load() != nil
}
