package search

import "errors"

var (
	// ErrNoIndexers is returned when no configured indexer is eligible
	// for the search.
	ErrNoIndexers = errors.New("no indexers available")

	// ErrNoResults indicates no matching releases were found.
	// This is informational, not a failure.
	ErrNoResults = errors.New("no matching releases found")

	// ErrAlreadyGrabbed is returned when grabbing a release that was
	// already sent to the download client.
	ErrAlreadyGrabbed = errors.New("release already grabbed")
)
