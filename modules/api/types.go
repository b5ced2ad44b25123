package api

import "time"

// Client-to-server WebSocket message types.
const (
	WSTypeJoinRoom    = "join-room"
	WSTypeSendMessage = "send-message"
)

// WSRequest is the client-to-server WebSocket envelope. Fields are
// populated per message type: join-room carries roomKey and username,
// send-message carries text.
type WSRequest struct {
	Type     string `json:"type"`
	RoomKey  string `json:"roomKey,omitempty"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`
}

// AckResponse acknowledges a client request. Err is set only when Ok
// is false.
type AckResponse struct {
	Type string `json:"type"`
	Ok   bool   `json:"ok"`
	Err  string `json:"err,omitempty"`
}

// InitResponse is sent to a client right after a successful join. It
// carries the room identity and its recent history, oldest first.
type InitResponse struct {
	Type     string           `json:"type"`
	RoomKey  string           `json:"roomKey"`
	RoomName string           `json:"roomName"`
	Messages []MessagePayload `json:"messages"`
}

// MessagePayload is a single history entry inside an InitResponse.
type MessagePayload struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
	Ts       time.Time `json:"ts"`
}

// CreateRoomRequest is the POST /create-room body.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// CreateRoomResponse is the POST /create-room success body.
type CreateRoomResponse struct {
	RoomKey string `json:"roomKey"`
}

// RoomExistsResponse is the GET /room/:roomKey body. Name is omitted
// when the room does not exist.
type RoomExistsResponse struct {
	Exists bool   `json:"exists"`
	Name   string `json:"name,omitempty"`
}

// ErrorResponse is the REST error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
