package directory

import "errors"

// Sentinel errors for room directory operations.
var (
	// ErrRoomNameRequired is returned when the room name is empty or
	// whitespace-only after trimming.
	ErrRoomNameRequired = errors.New("room name required")

	// ErrRoomNotFound is returned when no room exists for the given key.
	ErrRoomNotFound = errors.New("room not found")

	// ErrKeySpaceExhausted is returned when key generation keeps colliding
	// with existing rooms past the retry cap.
	ErrKeySpaceExhausted = errors.New("room key space exhausted")
)
