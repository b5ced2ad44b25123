package history

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// appendMessage handles the history.append service request. Message text
// is stored as-is; content validation is not this store's concern.
func (m *HistoryModule) appendMessage(_ context.Context, req AppendRequest, _ *mono.Msg) (MessageResponse, error) {
	if req.RoomKey == "" {
		return MessageResponse{}, fmt.Errorf("room key is required")
	}

	msg := &Message{
		MessageID: uuid.New().String(),
		RoomKey:   req.RoomKey,
		Username:  req.Username,
		Text:      req.Text,
		Ts:        time.Now(),
	}

	if err := m.repo.Append(msg); err != nil {
		return MessageResponse{}, err
	}

	return toMessageResponse(msg), nil
}

// recentHistory handles the history.recent service request.
func (m *HistoryModule) recentHistory(_ context.Context, req RecentRequest, _ *mono.Msg) (RecentResponse, error) {
	if req.RoomKey == "" {
		return RecentResponse{}, fmt.Errorf("room key is required")
	}

	messages, err := m.repo.Recent(req.RoomKey, req.Limit)
	if err != nil {
		return RecentResponse{}, err
	}

	resp := RecentResponse{
		Messages: make([]MessageResponse, 0, len(messages)),
	}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, toMessageResponse(msg))
	}
	return resp, nil
}

// toMessageResponse converts a Message entity to a MessageResponse.
func toMessageResponse(msg *Message) MessageResponse {
	return MessageResponse{
		ID:       msg.MessageID,
		RoomKey:  msg.RoomKey,
		Username: msg.Username,
		Text:     msg.Text,
		Ts:       msg.Ts,
	}
}
