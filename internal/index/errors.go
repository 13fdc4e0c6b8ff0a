package index

import "errors"

var (
	// ErrAlreadyExists is returned by Create when the name is taken.
	ErrAlreadyExists = errors.New("index already exists")
	// ErrNotFound is returned when no artifact exists for a name.
	ErrNotFound = errors.New("index not found")
	// ErrInvalidName is returned when a name sanitizes to the empty string.
	ErrInvalidName = errors.New("invalid index name")
	// ErrLocked is returned when another writer holds the lock for a name.
	ErrLocked = errors.New("index is locked by another process")
)
