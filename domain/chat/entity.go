package chat

import "time"

// Room is a named chat channel identified by a short unique key.
type Room struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single chat message persisted for a room.
type Message struct {
	ID       string    `json:"id"`
	RoomKey  string    `json:"room_key"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
	Ts       time.Time `json:"ts"`
}
