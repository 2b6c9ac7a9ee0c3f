package engine

import (
	"github.com/hashicorp/go-multierror"

	"github.com/gcbaptista/corpussearch/index"
	"github.com/gcbaptista/corpussearch/internal/metrics"
	"github.com/gcbaptista/corpussearch/model"
)

// IngestBatch adds every document in docs under propertyName, continuing
// past per-document failures rather than aborting the whole batch -- a
// single malformed document in a large feed should not cost every other
// document in it. Failures are collected with multierror and returned
// together once the batch is done; the caller decides whether a non-nil
// error should still count as a usable batch.
//
// m may be nil; when provided, it is given the batch size, the count of
// documents successfully indexed, and the count that failed.
func IngestBatch(idx *index.Index, propertyName string, docs []model.Document, m *metrics.Metrics) (added int, err error) {
	if m != nil {
		m.IngestBatchSize.Observe(float64(len(docs)))
	}

	var failures *multierror.Error
	for _, doc := range docs {
		if _, addErr := idx.Add(propertyName, doc); addErr != nil {
			failures = multierror.Append(failures, addErr)
			if m != nil {
				m.IngestFailures.Inc()
			}
			continue
		}
		added++
	}

	if m != nil && added > 0 {
		m.DocsIndexedTotal.Add(float64(added))
	}

	return added, failures.ErrorOrNil()
}
