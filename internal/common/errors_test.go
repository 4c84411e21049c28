package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserError_Message(t *testing.T) {
	err := NewUserError(ErrNoActivities, "no activity history yet")
	want := "no activity history yet: no activity history to learn from"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := NewUserError(nil, "just a message")
	if bare.Error() != "just a message" {
		t.Errorf("Error() = %q, want the message alone", bare.Error())
	}
}

func TestUserError_UnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		sentinel error
		name     string
	}{
		{ErrNotFound, "not found"},
		{ErrDuplicateEntry, "duplicate"},
		{ErrDatabaseCorrupted, "corrupted"},
		{ErrNoFiles, "no files"},
		{ErrNoActivities, "no activities"},
		{ErrMissingConfig, "missing config"},
		{ErrInvalidConfig, "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUserError(tt.sentinel, "something went wrong")
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false, want true", err)
			}
			wrapped := fmt.Errorf("command failed: %w", err)
			var uerr *UserError
			if !errors.As(wrapped, &uerr) {
				t.Fatal("errors.As failed to find the UserError through wrapping")
			}
			if uerr.UserMessage != "something went wrong" {
				t.Errorf("UserMessage = %q", uerr.UserMessage)
			}
		})
	}
}
