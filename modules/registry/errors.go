package registry

import "errors"

// Sentinel errors for connection membership.
var (
	// ErrAlreadyJoined is returned when a connection that already belongs
	// to a room attempts to join again.
	ErrAlreadyJoined = errors.New("already joined a room")

	// ErrUnknownClient is returned when the connection ID is not registered.
	ErrUnknownClient = errors.New("unknown client")
)
