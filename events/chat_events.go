package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/chatroom-service/domain/chat"
)

// MessageSentEvent is emitted after a message has been persisted for a room.
type MessageSentEvent struct {
	Message chat.Message `json:"message"`
}

// UserJoinedEvent is emitted when a connection joins a room. ConnectionID
// identifies the joiner so the announcement can be withheld from them.
type UserJoinedEvent struct {
	RoomKey      string    `json:"room_key"`
	ConnectionID string    `json:"connection_id"`
	Username     string    `json:"username"`
	Timestamp    time.Time `json:"timestamp"`
}

// RoomCreatedEvent is emitted when a new room is created.
type RoomCreatedEvent struct {
	RoomKey   string    `json:"room_key"`
	RoomName  string    `json:"room_name"`
	Timestamp time.Time `json:"timestamp"`
}

// Event definitions for the chat domain.
var (
	MessageSentV1 = helper.EventDefinition[MessageSentEvent](
		"api",
		"MessageSent",
		"v1",
	)

	UserJoinedV1 = helper.EventDefinition[UserJoinedEvent](
		"api",
		"UserJoined",
		"v1",
	)

	RoomCreatedV1 = helper.EventDefinition[RoomCreatedEvent](
		"directory",
		"RoomCreated",
		"v1",
	)
)
