// Package errors defines the sentinel and typed errors surfaced across the
// engine's public contract, following the same sentinel-plus-typed-wrapper
// idiom as the rest of the pack.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrQueryTooLong is returned when a query's distinct term count
	// exceeds the configured maximum (10 by default).
	ErrQueryTooLong = errors.New("query-too-long")

	// ErrStillIndexing is reserved for the host-level guard that rejects
	// queries issued before the first successful sync. The core index
	// never returns it itself; engine.Host.Search returns it.
	ErrStillIndexing = errors.New("still-indexing")

	// ErrInvalidSettings is returned when engine settings fail validation.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrEmptyDocument is returned by Index.Add/AddObserved when a document
	// carries no URL and no text in any canonical field -- nothing for the
	// index to do anything with.
	ErrEmptyDocument = errors.New("empty document")
)

// QueryTooLongError reports how many distinct terms a rejected query had
// and the configured cap.
type QueryTooLongError struct {
	TermCount int
	MaxTerms  int
}

func (e *QueryTooLongError) Error() string {
	return fmt.Sprintf("query-too-long: %d distinct terms exceeds the maximum of %d", e.TermCount, e.MaxTerms)
}

func (e *QueryTooLongError) Is(target error) bool {
	return target == ErrQueryTooLong
}

// NewQueryTooLongError creates a new QueryTooLongError.
func NewQueryTooLongError(termCount, maxTerms int) *QueryTooLongError {
	return &QueryTooLongError{TermCount: termCount, MaxTerms: maxTerms}
}
