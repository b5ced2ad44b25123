package history

import "time"

// AppendRequest is the request for appending a message to a room's log.
type AppendRequest struct {
	RoomKey  string `json:"room_key"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// MessageResponse represents a stored message in responses.
type MessageResponse struct {
	ID       string    `json:"id"`
	RoomKey  string    `json:"room_key"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
	Ts       time.Time `json:"ts"`
}

// RecentRequest is the request for fetching recent room history.
type RecentRequest struct {
	RoomKey string `json:"room_key"`
	Limit   int    `json:"limit"`
}

// RecentResponse is the response containing recent messages, oldest
// first.
type RecentResponse struct {
	Messages []MessageResponse `json:"messages"`
}
