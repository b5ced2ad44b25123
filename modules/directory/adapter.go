package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/chatroom-service/domain/chat"
)

// DirectoryPort defines the interface for room directory operations.
// Consumers should use this interface instead of referencing the module.
type DirectoryPort interface {
	CreateRoom(ctx context.Context, name string) (*chat.Room, error)
	GetRoom(ctx context.Context, key string) (*chat.Room, error)
}

// directoryAdapter implements DirectoryPort using the service container.
type directoryAdapter struct {
	container mono.ServiceContainer
}

// NewDirectoryAdapter creates a new adapter for the directory services.
func NewDirectoryAdapter(container mono.ServiceContainer) DirectoryPort {
	if container == nil {
		panic("directory: ServiceContainer is nil")
	}
	return &directoryAdapter{container: container}
}

// CreateRoom creates a new room and returns its record with the
// allocated key.
func (a *directoryAdapter) CreateRoom(ctx context.Context, name string) (*chat.Room, error) {
	req := CreateRoomRequest{Name: name}
	var resp CreateRoomResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, mapServiceError(err)
	}
	return &chat.Room{
		Key:       resp.Key,
		Name:      resp.Name,
		CreatedAt: resp.CreatedAt,
	}, nil
}

// GetRoom resolves a room key to its record.
func (a *directoryAdapter) GetRoom(ctx context.Context, key string) (*chat.Room, error) {
	req := GetRoomRequest{Key: key}
	var resp RoomResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, mapServiceError(err)
	}
	return &chat.Room{
		Key:       resp.Key,
		Name:      resp.Name,
		CreatedAt: resp.CreatedAt,
	}, nil
}

// mapServiceError converts service errors back to sentinel errors by
// checking the error message content. Errors lose their identity when
// they cross the NATS request-reply boundary.
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "room not found") {
		return ErrRoomNotFound
	}
	if strings.Contains(msg, "room name required") {
		return ErrRoomNameRequired
	}
	if strings.Contains(msg, "key space exhausted") {
		return ErrKeySpaceExhausted
	}

	return fmt.Errorf("directory service call failed: %w", err)
}
