package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/example/chatroom-service/domain/chat"
	"github.com/example/chatroom-service/events"
	"github.com/example/chatroom-service/modules/directory"
	"github.com/example/chatroom-service/modules/registry"
)

// session tracks the state of one WebSocket connection. A connection
// starts unjoined, may join exactly one room, and holds that room until
// it disconnects.
type session struct {
	client   *registry.Client
	roomKey  string
	username string
	joined   bool
}

// handleWebSocket handles WebSocket connections at /ws.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	clientID := uuid.New().String()
	client := registry.NewClient(clientID, c)

	m.hub.Register(client)
	go client.WritePump()

	sess := &session{client: client}
	defer func() {
		// Membership is gone before the read loop returns, so no
		// broadcast can target this connection afterwards.
		m.hub.Leave(clientID)
		m.hub.Unregister(clientID)
		log.Printf("[api] WebSocket client disconnected: %s", clientID)
	}()

	log.Printf("[api] WebSocket client connected: %s", clientID)

	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[api] Client %s closed connection", clientID)
			} else {
				log.Printf("[api] Read error from %s: %v", clientID, err)
			}
			break
		}

		var req WSRequest
		if err := json.Unmarshal(msgBytes, &req); err != nil {
			m.sendAck(client, false, "Invalid message format")
			continue
		}

		switch req.Type {
		case WSTypeJoinRoom:
			m.handleJoinRoom(sess, req)
		case WSTypeSendMessage:
			m.handleSendMessage(sess, req)
		default:
			m.sendAck(client, false, "Unknown message type: "+req.Type)
		}
	}
}

func (m *APIModule) handleJoinRoom(sess *session, req WSRequest) {
	if sess.joined {
		m.sendAck(sess.client, false, "Already joined a room")
		return
	}

	username := strings.TrimSpace(req.Username)
	if strings.TrimSpace(req.RoomKey) == "" || username == "" {
		m.sendAck(sess.client, false, "Room key and username required")
		return
	}

	ctx := context.Background()

	room, err := m.directory.GetRoom(ctx, req.RoomKey)
	if err != nil {
		if errors.Is(err, directory.ErrRoomNotFound) {
			m.sendAck(sess.client, false, "Room not found")
			return
		}
		log.Printf("[api] Failed to look up room for join: %v", err)
		m.sendAck(sess.client, false, "Server error")
		return
	}

	if err := m.hub.Join(sess.client.ID, room.Key, username); err != nil {
		if errors.Is(err, registry.ErrAlreadyJoined) {
			m.sendAck(sess.client, false, "Already joined a room")
			return
		}
		log.Printf("[api] Failed to register membership for %s: %v", sess.client.ID, err)
		m.sendAck(sess.client, false, "Server error")
		return
	}

	messages, err := m.history.Recent(ctx, room.Key, 0)
	if err != nil {
		// Roll back so the session can retry from unjoined.
		m.hub.Leave(sess.client.ID)
		log.Printf("[api] Failed to load history for room %s: %v", room.Key, err)
		m.sendAck(sess.client, false, "Server error")
		return
	}

	m.sendJSON(sess.client, InitResponse{
		Type:     "init",
		RoomKey:  room.Key,
		RoomName: room.Name,
		Messages: toMessagePayloads(messages),
	})

	// The join announcement is best effort.
	if m.eventBus != nil {
		if err := events.UserJoinedV1.Publish(m.eventBus, events.UserJoinedEvent{
			RoomKey:      room.Key,
			ConnectionID: sess.client.ID,
			Username:     username,
			Timestamp:    time.Now(),
		}, nil); err != nil {
			log.Printf("[api] Failed to publish UserJoined event: %v", err)
		}
	}

	sess.joined = true
	sess.roomKey = room.Key
	sess.username = username

	m.sendAck(sess.client, true, "")
}

func (m *APIModule) handleSendMessage(sess *session, req WSRequest) {
	if !sess.joined {
		m.sendAck(sess.client, false, "Join a room first")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		m.sendAck(sess.client, false, "Message text required")
		return
	}

	ctx := context.Background()

	// The room could have been removed out of band; re-check before
	// persisting.
	if _, err := m.directory.GetRoom(ctx, sess.roomKey); err != nil {
		if errors.Is(err, directory.ErrRoomNotFound) {
			m.sendAck(sess.client, false, "Room not found")
			return
		}
		log.Printf("[api] Failed to verify room %s: %v", sess.roomKey, err)
		m.sendAck(sess.client, false, "Server error")
		return
	}

	msg, err := m.history.Append(ctx, sess.roomKey, sess.username, req.Text)
	if err != nil {
		log.Printf("[api] Failed to append message in room %s: %v", sess.roomKey, err)
		m.sendAck(sess.client, false, "Server error")
		return
	}

	// The message is persisted; fan-out failure must not fail the send.
	if m.eventBus != nil {
		if err := events.MessageSentV1.Publish(m.eventBus, events.MessageSentEvent{
			Message: *msg,
		}, nil); err != nil {
			log.Printf("[api] Failed to publish MessageSent event: %v", err)
		}
	}

	m.sendAck(sess.client, true, "")
}

// sendAck delivers an ack through the client's outbound queue.
func (m *APIModule) sendAck(client *registry.Client, ok bool, errMsg string) {
	m.sendJSON(client, AckResponse{
		Type: "ack",
		Ok:   ok,
		Err:  errMsg,
	})
}

// sendJSON marshals a payload onto the client's outbound queue so acks
// and broadcasts go through the same writer.
func (m *APIModule) sendJSON(client *registry.Client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[api] Failed to marshal payload for %s: %v", client.ID, err)
		return
	}
	client.Send(data)
}

func toMessagePayloads(messages []*chat.Message) []MessagePayload {
	payloads := make([]MessagePayload, 0, len(messages))
	for _, msg := range messages {
		payloads = append(payloads, MessagePayload{
			ID:       msg.ID,
			Username: msg.Username,
			Text:     msg.Text,
			Ts:       msg.Ts,
		})
	}
	return payloads
}
