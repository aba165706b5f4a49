package category

import "errors"

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("category name already exists")
	// ErrInvalidName indicates a name outside the allowed length bounds.
	ErrInvalidName = errors.New("category name length is invalid")
)
