package api

import (
	"errors"
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/example/chatroom-service/modules/directory"
)

const maxRoomNameLength = 200

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	// Health check
	m.app.Get("/health", m.healthHandler)

	// WebSocket endpoint
	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handleWebSocket))

	// Room management
	m.app.Post("/create-room", m.createRoom)
	m.app.Get("/room/:roomKey", m.getRoom)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":            "api",
			"connected_clients": m.hub.ClientCount(),
		},
	})
}

// createRoom handles POST /create-room.
func (m *APIModule) createRoom(c *fiber.Ctx) error {
	var req CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Room name required",
		})
	}

	if len(req.Name) > maxRoomNameLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Room name too long",
		})
	}

	room, err := m.directory.CreateRoom(c.UserContext(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrRoomNameRequired):
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "Room name required",
			})
		case errors.Is(err, directory.ErrKeySpaceExhausted):
			return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
				Error: "No room keys available",
			})
		default:
			log.Printf("[api] Failed to create room: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error: "Server error",
			})
		}
	}

	return c.JSON(CreateRoomResponse{
		RoomKey: room.Key,
	})
}

// getRoom handles GET /room/:roomKey. A missing room is not an error
// status: the body carries an exists flag either way.
func (m *APIModule) getRoom(c *fiber.Ctx) error {
	roomKey := c.Params("roomKey")

	room, err := m.directory.GetRoom(c.UserContext(), roomKey)
	if err != nil {
		if errors.Is(err, directory.ErrRoomNotFound) {
			return c.JSON(RoomExistsResponse{Exists: false})
		}
		log.Printf("[api] Failed to look up room %s: %v", roomKey, err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Server error",
		})
	}

	return c.JSON(RoomExistsResponse{
		Exists: true,
		Name:   room.Name,
	})
}
