package engine

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/corpussearch/config"
	"github.com/gcbaptista/corpussearch/index"
	errs "github.com/gcbaptista/corpussearch/internal/errors"
	"github.com/gcbaptista/corpussearch/internal/metrics"
	"github.com/gcbaptista/corpussearch/model"
)

func TestHostSearchBeforeRebuildFails(t *testing.T) {
	h := NewHost()
	assert.False(t, h.Ready(), "a fresh Host should not be Ready")

	_, err := h.Search("anything", nil, false)
	assert.ErrorIs(t, err, errs.ErrStillIndexing)
}

func TestHostRebuildPublishesAndBecomesReady(t *testing.T) {
	h := NewHost()
	err := h.Rebuild(config.EngineSettings{}, func(idx *index.Index) error {
		_, addErr := idx.Add("corpus", model.Document{Text: "apple"})
		return addErr
	})
	require.NoError(t, err, "Rebuild()")
	require.True(t, h.Ready(), "expected Host to be Ready after a successful Rebuild")

	results, err := h.Search("apple", nil, false)
	require.NoError(t, err, "Search()")
	assert.Len(t, results, 1)
}

func TestHostRebuildFailureLeavesPreviousIndexPublished(t *testing.T) {
	h := NewHost()
	err := h.Rebuild(config.EngineSettings{}, func(idx *index.Index) error {
		_, addErr := idx.Add("corpus", model.Document{Text: "apple"})
		return addErr
	})
	require.NoError(t, err, "first Rebuild()")

	failing := errors.New("boom")
	err = h.Rebuild(config.EngineSettings{}, func(idx *index.Index) error {
		return failing
	})
	require.ErrorIs(t, err, failing, "expected the build error to propagate")

	// The previously published index must still answer queries.
	results, searchErr := h.Search("apple", nil, false)
	require.NoError(t, searchErr, "Search()")
	assert.Len(t, results, 1, "the prior index should remain published")
}

func TestHostSearchRecordsMetrics(t *testing.T) {
	m := metrics.New()

	h := NewHost()
	h.SetMetrics(m)
	err := h.Rebuild(config.EngineSettings{}, func(idx *index.Index) error {
		_, addErr := idx.Add("corpus", model.Document{Text: "apple"})
		return addErr
	})
	require.NoError(t, err, "Rebuild()")

	_, err = h.Search("apple", nil, false)
	require.NoError(t, err, "Search()")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.QueriesTotal.WithLabelValues("ok")))

	longQuery := "one two three four five six seven eight nine ten eleven"
	_, err = h.Search(longQuery, nil, false)
	require.Error(t, err, "expected a query-too-long error")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.QueriesTotal.WithLabelValues("query_too_long")))
}
