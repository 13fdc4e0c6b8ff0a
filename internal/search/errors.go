package search

import "errors"

var (
	// ErrNotFound is returned when the artifact to search does not exist.
	ErrNotFound = errors.New("index file not found")
	// ErrInvalidPattern wraps a regular expression compile error.
	ErrInvalidPattern = errors.New("invalid pattern")
)
