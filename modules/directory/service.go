package directory

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-monolith/mono"

	"github.com/example/chatroom-service/events"
)

// maxKeyAttempts bounds the collision retry loop during key generation.
// The key space is 16^6 so hitting the cap means the directory is nearly
// full or the generator is broken.
const maxKeyAttempts = 20

// createRoom handles the directory.create service request.
func (m *DirectoryModule) createRoom(_ context.Context, req CreateRoomRequest, _ *mono.Msg) (CreateRoomResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return CreateRoomResponse{}, ErrRoomNameRequired
	}

	var key string
	for attempt := 0; ; attempt++ {
		if attempt == maxKeyAttempts {
			return CreateRoomResponse{}, ErrKeySpaceExhausted
		}
		key = m.genKey()
		exists, err := m.repo.Exists(key)
		if err != nil {
			return CreateRoomResponse{}, err
		}
		if !exists {
			break
		}
	}

	room := &Room{Key: key, Name: name}
	if err := m.repo.Create(room); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to save room: %w", err)
	}

	// Event failure must not fail room creation. The bus is absent
	// when the module runs standalone.
	if m.eventBus != nil {
		if err := events.RoomCreatedV1.Publish(m.eventBus, events.RoomCreatedEvent{
			RoomKey:   room.Key,
			RoomName:  room.Name,
			Timestamp: time.Now(),
		}, nil); err != nil {
			log.Printf("[directory] Failed to publish RoomCreated event: %v", err)
		}
	}

	return CreateRoomResponse{
		Key:       room.Key,
		Name:      room.Name,
		CreatedAt: room.CreatedAt,
	}, nil
}

// getRoom handles the directory.get service request. The key is
// normalized so lookups are case-insensitive.
func (m *DirectoryModule) getRoom(_ context.Context, req GetRoomRequest, _ *mono.Msg) (RoomResponse, error) {
	key := NormalizeKey(req.Key)
	if key == "" {
		return RoomResponse{}, ErrRoomNotFound
	}

	room, err := m.repo.FindByKey(key)
	if err != nil {
		return RoomResponse{}, err
	}

	return RoomResponse{
		Key:       room.Key,
		Name:      room.Name,
		CreatedAt: room.CreatedAt,
	}, nil
}
