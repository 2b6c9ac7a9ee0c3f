// Package metrics defines the Prometheus collectors scraped by a host
// process wrapping the engine, grounded on the Adithya platform's
// pkg/metrics package. Never required for correctness -- the core index
// and its tests have no dependency on this package.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors surfaced around ingest and query.
type Metrics struct {
	DocsIndexedTotal  prometheus.Counter
	IngestFailures    prometheus.Counter
	IngestBatchSize   prometheus.Histogram
	QueriesTotal      *prometheus.CounterVec
	QueryLatency      *prometheus.HistogramVec
	ResultsPerQuery   prometheus.Histogram
	HITSIterations    prometheus.Histogram
}

// New creates and registers the engine's collectors against the default
// Prometheus registry.
func New() *Metrics {
	m := &Metrics{
		DocsIndexedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "corpussearch_docs_indexed_total",
			Help: "Total documents successfully added to the index.",
		}),
		IngestFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "corpussearch_ingest_failures_total",
			Help: "Total documents that failed to ingest in a batch.",
		}),
		IngestBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "corpussearch_ingest_batch_size",
			Help:    "Number of documents per ingest batch.",
			Buckets: []float64{1, 10, 50, 100, 500, 1000},
		}),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "corpussearch_queries_total",
			Help: "Total search queries by outcome (ok, query_too_long, still_indexing, error).",
		}, []string{"outcome"}),
		QueryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "corpussearch_query_latency_seconds",
			Help:    "Search query latency in seconds, by whether HITS ran.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"hits"}),
		ResultsPerQuery: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "corpussearch_results_per_query",
			Help:    "Number of results returned per search query.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 150},
		}),
		HITSIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "corpussearch_hits_iterations",
			Help:    "Number of authority/hub iterations HITS ran before converging or hitting the cap.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 200},
		}),
	}

	prometheus.MustRegister(
		m.DocsIndexedTotal,
		m.IngestFailures,
		m.IngestBatchSize,
		m.QueriesTotal,
		m.QueryLatency,
		m.ResultsPerQuery,
		m.HITSIterations,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
