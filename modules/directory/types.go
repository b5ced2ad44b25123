package directory

import "time"

// CreateRoomRequest is the request for creating a room.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// CreateRoomResponse is the response after creating a room.
type CreateRoomResponse struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GetRoomRequest is the request for looking up a room by key.
type GetRoomRequest struct {
	Key string `json:"key"`
}

// RoomResponse represents a room in responses.
type RoomResponse struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
