package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrFilesystem, "builder", "create link", "symlink failed", cause)
	if !errors.Is(err, ErrFilesystem) {
		t.Errorf("wrapped error should match ErrFilesystem: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("wrapped error should match cause: %v", err)
	}
	want := "filesystem error: builder: create link: symlink failed: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Errorf("nil marker should default to ErrTransient: %v", err)
	}
	if err.Error() != "transient failure: service failure" {
		t.Errorf("Error() = %q", err.Error())
	}
}
