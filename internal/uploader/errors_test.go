package uploader

import (
	"errors"
	"testing"
)

func TestUploadErrorUnwrap(t *testing.T) {
	err := &UploadError{Key: "games/a.mp4", StatusCode: 500, Err: ErrMissingPartToken}
	if !errors.Is(err, ErrMissingPartToken) {
		t.Error("UploadError should unwrap to its cause")
	}
	if err.Error() == "" {
		t.Error("Error() should describe the failure")
	}
}
