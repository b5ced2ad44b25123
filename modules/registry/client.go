package registry

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// sendBufferSize bounds the per-client outbound queue. A client that
// cannot drain its queue has messages dropped rather than stalling the
// rest of the room.
const sendBufferSize = 64

// Client represents a connected WebSocket client. All outbound writes
// go through the send channel so the write pump is the only goroutine
// touching the connection's writer.
type Client struct {
	ID       string
	Username string
	RoomKey  string
	Conn     *websocket.Conn

	send      chan []byte
	closeOnce sync.Once
}

// NewClient wraps a WebSocket connection with a buffered outbound queue.
func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Send enqueues a payload for delivery. Delivery is best effort: if the
// client's queue is full or already closed, the payload is dropped and
// false is returned.
func (c *Client) Send(data []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	select {
	case c.send <- data:
		return true
	default:
		log.Printf("[hub] Client %s send queue full, dropping message", c.ID)
		return false
	}
}

// Outbound exposes the queue for callers that pump writes themselves
// instead of using WritePump.
func (c *Client) Outbound() <-chan []byte {
	return c.send
}

// WritePump drains the send queue onto the connection. It returns when
// the queue is closed or a write fails, and closes the connection on
// the way out.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for data := range c.send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[hub] Failed to send to client %s: %v", c.ID, err)
			return
		}
	}
}

// Close shuts the outbound queue. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
