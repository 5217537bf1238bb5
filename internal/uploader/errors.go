package uploader

import (
	"errors"
	"fmt"
)

// Protocol errors.
var (
	// ErrMissingPartToken marks a part PUT whose response carried no entity
	// tag. Without the tag the part can never be committed, so this is fatal
	// for the whole file task.
	ErrMissingPartToken = errors.New("part upload response missing entity tag")

	// ErrPartCountMismatch marks a bulk authorization response whose URL
	// count differs from the requested part count.
	ErrPartCountMismatch = errors.New("authorization count does not match part count")
)

// UploadError reports a failed transfer of one object or part. StatusCode is
// zero when the failure happened below HTTP (connection reset, timeout).
type UploadError struct {
	Key        string
	StatusCode int
	Err        error
}

func (e *UploadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upload of '%s' failed with HTTP %d: %v", e.Key, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upload of '%s' failed: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
