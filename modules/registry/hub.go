package registry

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Hub tracks WebSocket connections and their room membership, and fans
// broadcasts out to room members.
type Hub struct {
	clients map[string]*Client         // clientID -> Client
	rooms   map[string]map[string]bool // roomKey -> set of clientIDs

	broadcast chan *BroadcastMessage
	done      chan struct{}
	mu        sync.RWMutex
}

// BroadcastMessage represents a payload to fan out. RoomKey selects the
// target room; empty means every connected client. ExcludeID names a
// client to skip, typically the originator of the event.
type BroadcastMessage struct {
	RoomKey   string
	ExcludeID string
	Payload   any
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		rooms:     make(map[string]map[string]bool),
		broadcast: make(chan *BroadcastMessage, 256),
		done:      make(chan struct{}),
	}
}

// Run starts the hub's fan-out loop. It accepts a context for graceful
// shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("[hub] Shutting down...")
			h.closeAllClients()
			close(h.done)
			return
		case msg := <-h.broadcast:
			h.handleBroadcast(msg)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

// closeAllClients closes all connected client connections.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		client.Close()
	}
	h.clients = make(map[string]*Client)
	h.rooms = make(map[string]map[string]bool)
}

func (h *Hub) handleBroadcast(msg *BroadcastMessage) {
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		log.Printf("[hub] Failed to marshal broadcast message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.RoomKey == "" {
		for _, client := range h.clients {
			if client.ID == msg.ExcludeID {
				continue
			}
			client.Send(data)
		}
		return
	}

	if clientIDs, ok := h.rooms[msg.RoomKey]; ok {
		for clientID := range clientIDs {
			if clientID == msg.ExcludeID {
				continue
			}
			if client, ok := h.clients[clientID]; ok {
				client.Send(data)
			}
		}
	}
}

// Register adds a client to the hub. The client is addressable for
// broadcasts as soon as this returns.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	log.Printf("[hub] Client %s registered", client.ID)
}

// Unregister removes a client and its room membership, then closes its
// outbound queue. Safe to call for an unknown client.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}

	delete(h.clients, clientID)
	h.removeFromRoomLocked(client)
	client.Close()
	log.Printf("[hub] Client %s unregistered", clientID)
}

// Join places a client in a room. A client may belong to at most one
// room; joining while already in one returns ErrAlreadyJoined.
func (h *Hub) Join(clientID, roomKey, username string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return ErrUnknownClient
	}
	if client.RoomKey != "" {
		return ErrAlreadyJoined
	}

	client.RoomKey = roomKey
	client.Username = username
	if h.rooms[roomKey] == nil {
		h.rooms[roomKey] = make(map[string]bool)
	}
	h.rooms[roomKey][clientID] = true

	log.Printf("[hub] Client %s (%s) joined room %s", clientID, username, roomKey)
	return nil
}

// Leave removes a client from its current room. Idempotent: calling it
// for a client with no room, or an unknown client, is a no-op.
func (h *Hub) Leave(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok || client.RoomKey == "" {
		return
	}

	h.removeFromRoomLocked(client)
	log.Printf("[hub] Client %s left room %s", clientID, client.RoomKey)
	client.RoomKey = ""
}

// removeFromRoomLocked drops the client from the room index. Caller
// must hold the write lock.
func (h *Hub) removeFromRoomLocked(client *Client) {
	if client.RoomKey == "" || h.rooms[client.RoomKey] == nil {
		return
	}
	delete(h.rooms[client.RoomKey], client.ID)
	if len(h.rooms[client.RoomKey]) == 0 {
		delete(h.rooms, client.RoomKey)
	}
}

// Broadcast enqueues a payload for fan-out to a room. ExcludeID may be
// empty to include every member. Enqueueing is non-blocking; if the hub
// is saturated or stopped the broadcast is dropped.
func (h *Hub) Broadcast(roomKey, excludeID string, payload any) {
	msg := &BroadcastMessage{
		RoomKey:   roomKey,
		ExcludeID: excludeID,
		Payload:   payload,
	}

	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		log.Printf("[hub] Broadcast queue full, dropping message for room %q", roomKey)
	}
}

// GetClient returns a client by ID, or nil if not registered.
func (h *Hub) GetClient(clientID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[clientID]
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomClientCount returns the number of clients in a room.
func (h *Hub) RoomClientCount(roomKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.rooms[roomKey]; ok {
		return len(clients)
	}
	return 0
}
