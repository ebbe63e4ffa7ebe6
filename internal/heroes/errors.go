package heroes

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload means a directory payload had a missing or
	// non-numeric identifier and cannot be normalized.
	ErrMalformedPayload = errors.New("malformed hero payload")

	// ErrNotFound means the hero exists neither locally nor upstream.
	ErrNotFound = errors.New("hero not found")

	// ErrNoImage means no image URL could be resolved for the hero.
	ErrNoImage = errors.New("no image available")

	// ErrUpstreamImage means the image asset itself could not be fetched.
	ErrUpstreamImage = errors.New("failed to fetch hero image")
)

// UpstreamError carries the status code of a failed hero directory call so
// handlers can propagate it verbatim.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("hero directory error: status %d", e.Status)
}
