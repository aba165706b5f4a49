package lifecycle

import "errors"

var (
	ErrNotFound = errors.New("ad not found")
	// ErrStaleState indicates the ad no longer has the status the action
	// presumed, for example a second approval.
	ErrStaleState        = errors.New("ad already processed")
	ErrForbidden         = errors.New("ad belongs to another user")
	ErrInvalidTransition = errors.New("transition not allowed")
	ErrUnknownField      = errors.New("unknown ad field")
)
