package store

import "errors"

var (
	ErrNotFound = errors.New("store: record not found")
	// ErrStatusConflict indicates the stored status did not allow the
	// requested transition.
	ErrStatusConflict = errors.New("store: status conflict")
	ErrDuplicate      = errors.New("store: duplicate record")
)
