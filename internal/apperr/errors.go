// Package apperr defines the sentinel errors shared across Fehu layers.
package apperr

import "errors"

var (
	// ErrNotFound means a well-formed artifact identifier matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID means the identifier could not be parsed. It is reported
	// before any store lookup happens.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrUnavailable means the artifact store is not reachable.
	ErrUnavailable = errors.New("store unavailable")
	// ErrRenderFailed means the rendering stream aborted mid-flight.
	ErrRenderFailed = errors.New("render failed")
	// ErrTotalsMismatch is returned in strict mode when caller-supplied
	// invoice totals disagree with the recomputed ones.
	ErrTotalsMismatch = errors.New("totals mismatch")
)
