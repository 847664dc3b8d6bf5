package notes

import "errors"

// Note service error sentinels. Handlers map these to HTTP statuses.
var (
	// ErrEmptyNote means the note was missing or blank.
	ErrEmptyNote = errors.New("note is required")

	// ErrRemoteService wraps any failure talking to the inference service.
	ErrRemoteService = errors.New("inference service call failed")

	// ErrUpstreamShape means categorization returned no usable categories.
	ErrUpstreamShape = errors.New("unexpected categorization response")
)
