package registry

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/chatroom-service/events"
)

// RegistryModule owns the WebSocket hub and turns chat events into
// room-scoped broadcasts.
type RegistryModule struct {
	hub       *Hub
	cancelHub context.CancelFunc
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*RegistryModule)(nil)
	_ mono.EventConsumerModule   = (*RegistryModule)(nil)
	_ mono.HealthCheckableModule = (*RegistryModule)(nil)
)

// NewModule creates a new RegistryModule.
func NewModule() *RegistryModule {
	return &RegistryModule{
		hub: NewHub(),
	}
}

// Name returns the module name.
func (m *RegistryModule) Name() string {
	return "registry"
}

// Start launches the hub's fan-out loop.
func (m *RegistryModule) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	log.Println("[registry] Module started - WebSocket hub running")
	return nil
}

// Stop shuts down the hub and disconnects all clients.
func (m *RegistryModule) Stop(_ context.Context) error {
	clientCount := m.hub.ClientCount()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	log.Printf("[registry] Module stopped - %d clients were connected", clientCount)
	return nil
}

// Health returns the health status.
func (m *RegistryModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// RegisterEventConsumers registers event handlers.
func (m *RegistryModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.MessageSentV1, m.handleMessageSent, m,
	); err != nil {
		return fmt.Errorf("failed to register MessageSent consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserJoinedV1, m.handleUserJoined, m,
	); err != nil {
		return fmt.Errorf("failed to register UserJoined consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.RoomCreatedV1, m.handleRoomCreated, m,
	); err != nil {
		return fmt.Errorf("failed to register RoomCreated consumer: %w", err)
	}

	log.Println("[registry] Registered event consumers: MessageSent, UserJoined, RoomCreated")
	return nil
}

// Event handlers

func (m *RegistryModule) handleMessageSent(_ context.Context, event events.MessageSentEvent, _ *mono.Msg) error {
	msg := event.Message
	log.Printf("[registry] Broadcasting message from %s in room %s", msg.Username, msg.RoomKey)

	// Everyone in the room receives the message, sender included.
	m.hub.Broadcast(msg.RoomKey, "", WSBroadcast{
		Type:     "new-message",
		ID:       msg.ID,
		Username: msg.Username,
		Text:     msg.Text,
		Ts:       msg.Ts,
	})

	return nil
}

func (m *RegistryModule) handleUserJoined(_ context.Context, event events.UserJoinedEvent, _ *mono.Msg) error {
	log.Printf("[registry] Broadcasting user joined: %s in room %s", event.Username, event.RoomKey)

	// The joiner already got its init payload; announce to the rest.
	m.hub.Broadcast(event.RoomKey, event.ConnectionID, WSBroadcast{
		Type:     "user-joined",
		Username: event.Username,
	})

	return nil
}

func (m *RegistryModule) handleRoomCreated(_ context.Context, event events.RoomCreatedEvent, _ *mono.Msg) error {
	log.Printf("[registry] Broadcasting room created: %s (%s)", event.RoomName, event.RoomKey)

	// No room filter: every connected client learns about new rooms.
	m.hub.Broadcast("", "", WSBroadcast{
		Type:     "room-created",
		RoomKey:  event.RoomKey,
		RoomName: event.RoomName,
	})

	return nil
}

// GetHub returns the WebSocket hub so the API module can register
// connections against it.
func (m *RegistryModule) GetHub() *Hub {
	return m.hub
}

// WSBroadcast is the structure sent to WebSocket clients.
type WSBroadcast struct {
	Type     string    `json:"type"`
	ID       string    `json:"id,omitempty"`
	RoomKey  string    `json:"roomKey,omitempty"`
	RoomName string    `json:"roomName,omitempty"`
	Username string    `json:"username,omitempty"`
	Text     string    `json:"text,omitempty"`
	Ts       time.Time `json:"ts,omitempty"`
}
