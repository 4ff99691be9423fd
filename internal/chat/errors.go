package chat

import (
	"errors"
	"fmt"
)

// Validation errors are returned before any I/O takes place.
var (
	ErrInvalidParticipants = errors.New("a room needs two distinct, non-empty participants")
	ErrMissingJobContext   = errors.New("job context is missing")
	ErrEmptyMessage        = errors.New("message content is empty")
	ErrMessageTooLong      = errors.New("message content is too long")
)

// Lookup and backend errors.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNotParticipant = errors.New("user is not a participant of the room")

	// ErrStoreUnavailable marks a failed backend operation. The core never
	// retries it; the caller decides.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCorruptRecord marks a stored document that failed schema checks.
	// Errors carrying it also match ErrStoreUnavailable.
	ErrCorruptRecord = errors.New("corrupt record")
)

// Unavailable wraps a backend failure of op so that it matches ErrStoreUnavailable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// Corrupt reports a malformed stored document.
func Corrupt(what string, err error) error {
	return fmt.Errorf("%w: %w: %s: %v", ErrStoreUnavailable, ErrCorruptRecord, what, err)
}
