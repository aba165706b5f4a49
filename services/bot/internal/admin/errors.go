package admin

import (
	"errors"
	"fmt"
)

var ErrPermissionDenied = errors.New("admin: permission denied")

// PublishError reports an approved ad that could not be posted to the
// public channel. The approval itself stays committed.
type PublishError struct {
	AdID int64
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish ad %d: %v", e.AdID, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
