package engine

import (
	"strings"
	"testing"

	"github.com/gcbaptista/corpussearch/config"
	"github.com/gcbaptista/corpussearch/index"
	errs "github.com/gcbaptista/corpussearch/internal/errors"
	"github.com/gcbaptista/corpussearch/model"
)

func newTestIndexForIngest(t *testing.T) *index.Index {
	t.Helper()
	idx, err := index.NewIndex(config.EngineSettings{})
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	return idx
}

func TestIngestBatchAllSucceed(t *testing.T) {
	idx := newTestIndexForIngest(t)
	docs := []model.Document{
		{Title: "apple pie"},
		{Title: "banana bread"},
		{Title: "cherry tart"},
	}

	added, err := IngestBatch(idx, "bakery", docs, nil)
	if err != nil {
		t.Fatalf("IngestBatch() error = %v", err)
	}
	if added != len(docs) {
		t.Errorf("added = %d, want %d", added, len(docs))
	}
}

func TestIngestBatchSkipsFailuresAndKeepsGoing(t *testing.T) {
	idx := newTestIndexForIngest(t)
	docs := []model.Document{
		{Title: "apple pie"},
		{}, // empty document: rejected by Index.Add
		{Title: "cherry tart"},
	}

	added, err := IngestBatch(idx, "bakery", docs, nil)
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
	if err == nil {
		t.Fatal("expected a non-nil aggregate error")
	}
	if !strings.Contains(err.Error(), errs.ErrEmptyDocument.Error()) {
		t.Errorf("aggregate error = %v, want it to mention %v", err, errs.ErrEmptyDocument)
	}

	// Both well-formed documents must still be searchable.
	results, searchErr := idx.Search("apple", nil, false)
	if searchErr != nil {
		t.Fatalf("Search() error = %v", searchErr)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result for 'apple', got %d", len(results))
	}
	results, searchErr = idx.Search("cherry", nil, false)
	if searchErr != nil {
		t.Fatalf("Search() error = %v", searchErr)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result for 'cherry', got %d", len(results))
	}
}

func TestIngestBatchAggregatesMultipleFailures(t *testing.T) {
	idx := newTestIndexForIngest(t)
	docs := []model.Document{{}, {}, {Title: "only survivor"}}

	added, err := IngestBatch(idx, "bakery", docs, nil)
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	if err == nil {
		t.Fatal("expected a non-nil aggregate error")
	}
	// multierror's default formatting lists every wrapped error.
	if count := strings.Count(err.Error(), errs.ErrEmptyDocument.Error()); count != 2 {
		t.Errorf("expected 2 occurrences of the empty-document error, got %d in %q", count, err.Error())
	}
}
