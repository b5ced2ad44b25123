package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/chatroom-service/domain/chat"
)

// HistoryPort exposes message store operations to other modules
// through the service container.
type HistoryPort interface {
	// Append persists a message and returns the stored record.
	Append(ctx context.Context, roomKey, username, text string) (*chat.Message, error)

	// Recent returns up to limit of the most recent messages in a room,
	// ordered oldest first. A limit of zero uses the default.
	Recent(ctx context.Context, roomKey string, limit int) ([]*chat.Message, error)
}

type historyAdapter struct {
	container mono.ServiceContainer
}

// NewHistoryAdapter creates a HistoryPort backed by the history
// module's registered services.
func NewHistoryAdapter(container mono.ServiceContainer) HistoryPort {
	if container == nil {
		panic("history adapter requires a non-nil service container")
	}
	return &historyAdapter{container: container}
}

func (a *historyAdapter) Append(ctx context.Context, roomKey, username, text string) (*chat.Message, error) {
	req := AppendRequest{
		RoomKey:  roomKey,
		Username: username,
		Text:     text,
	}

	var resp MessageResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "append", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	return toChatMessage(resp), nil
}

func (a *historyAdapter) Recent(ctx context.Context, roomKey string, limit int) ([]*chat.Message, error) {
	req := RecentRequest{
		RoomKey: roomKey,
		Limit:   limit,
	}

	var resp RecentResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "recent", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("recent history: %w", err)
	}

	messages := make([]*chat.Message, 0, len(resp.Messages))
	for _, mr := range resp.Messages {
		messages = append(messages, toChatMessage(mr))
	}
	return messages, nil
}

func toChatMessage(mr MessageResponse) *chat.Message {
	return &chat.Message{
		ID:       mr.ID,
		RoomKey:  mr.RoomKey,
		Username: mr.Username,
		Text:     mr.Text,
		Ts:       mr.Ts,
	}
}
