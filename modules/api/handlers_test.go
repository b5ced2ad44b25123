package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/chatroom-service/domain/chat"
	"github.com/example/chatroom-service/modules/directory"
	"github.com/example/chatroom-service/modules/registry"
)

var errFakeStorage = errors.New("storage unavailable")

// fakeDirectory implements directory.DirectoryPort in memory.
type fakeDirectory struct {
	rooms     map[string]*chat.Room
	nextKey   string
	createErr error
	getErr    error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		rooms:   make(map[string]*chat.Room),
		nextKey: "A1B2C3",
	}
}

func (f *fakeDirectory) CreateRoom(_ context.Context, name string) (*chat.Room, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, directory.ErrRoomNameRequired
	}
	room := &chat.Room{Key: f.nextKey, Name: name, CreatedAt: time.Now()}
	f.rooms[room.Key] = room
	return room, nil
}

func (f *fakeDirectory) GetRoom(_ context.Context, key string) (*chat.Room, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	room, ok := f.rooms[directory.NormalizeKey(key)]
	if !ok {
		return nil, directory.ErrRoomNotFound
	}
	return room, nil
}

// fakeHistory implements history.HistoryPort in memory.
type fakeHistory struct {
	messages  map[string][]*chat.Message
	appendErr error
	recentErr error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{
		messages: make(map[string][]*chat.Message),
	}
}

func (f *fakeHistory) Append(_ context.Context, roomKey, username, text string) (*chat.Message, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	msg := &chat.Message{
		ID:       uuid.New().String(),
		RoomKey:  roomKey,
		Username: username,
		Text:     text,
		Ts:       time.Now(),
	}
	f.messages[roomKey] = append(f.messages[roomKey], msg)
	return msg, nil
}

func (f *fakeHistory) Recent(_ context.Context, roomKey string, limit int) ([]*chat.Message, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	msgs := f.messages[roomKey]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

// newTestAPI builds an APIModule with fake ports and a live hub, with
// routes mounted but no listener.
func newTestAPI(t *testing.T, dir *fakeDirectory, hist *fakeHistory) *APIModule {
	t.Helper()

	m := &APIModule{
		directory: dir,
		history:   hist,
		hub:       registry.NewHub(),
		port:      "3000",
	}
	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})
	m.setupRoutes()
	return m
}

func postJSON(t *testing.T, m *APIModule, path string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.app.Test(req)
	require.NoError(t, err)
	return resp
}

func getPath(t *testing.T, m *APIModule, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)

	resp, err := m.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestCreateRoomEndpoint(t *testing.T) {
	m := newTestAPI(t, newFakeDirectory(), newFakeHistory())

	resp := postJSON(t, m, "/create-room", CreateRoomRequest{Name: "General"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body CreateRoomResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "A1B2C3", body.RoomKey)
}

func TestCreateRoomEndpoint_NameRequired(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "empty name", body: CreateRoomRequest{Name: ""}},
		{name: "whitespace name", body: CreateRoomRequest{Name: "   "}},
		{name: "missing field", body: map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestAPI(t, newFakeDirectory(), newFakeHistory())

			resp := postJSON(t, m, "/create-room", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body ErrorResponse
			decodeBody(t, resp, &body)
			assert.Equal(t, "Room name required", body.Error)
		})
	}
}

func TestCreateRoomEndpoint_NameTooLong(t *testing.T) {
	m := newTestAPI(t, newFakeDirectory(), newFakeHistory())

	resp := postJSON(t, m, "/create-room", CreateRoomRequest{
		Name: strings.Repeat("x", maxRoomNameLength+1),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Room name too long", body.Error)
}

func TestCreateRoomEndpoint_KeySpaceExhausted(t *testing.T) {
	dir := newFakeDirectory()
	dir.createErr = directory.ErrKeySpaceExhausted
	m := newTestAPI(t, dir, newFakeHistory())

	resp := postJSON(t, m, "/create-room", CreateRoomRequest{Name: "General"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCreateRoomEndpoint_StorageError(t *testing.T) {
	dir := newFakeDirectory()
	dir.createErr = errors.New("disk on fire")
	m := newTestAPI(t, dir, newFakeHistory())

	resp := postJSON(t, m, "/create-room", CreateRoomRequest{Name: "General"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Server error", body.Error)
}

func TestGetRoomEndpoint(t *testing.T) {
	dir := newFakeDirectory()
	_, err := dir.CreateRoom(context.Background(), "General")
	require.NoError(t, err)
	m := newTestAPI(t, dir, newFakeHistory())

	tests := []struct {
		name string
		path string
	}{
		{name: "exact key", path: "/room/A1B2C3"},
		{name: "lowercase key", path: "/room/a1b2c3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := getPath(t, m, tt.path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body RoomExistsResponse
			decodeBody(t, resp, &body)
			assert.True(t, body.Exists)
			assert.Equal(t, "General", body.Name)
		})
	}
}

func TestGetRoomEndpoint_Missing(t *testing.T) {
	m := newTestAPI(t, newFakeDirectory(), newFakeHistory())

	resp := getPath(t, m, "/room/FFFFFF")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body RoomExistsResponse
	decodeBody(t, resp, &body)
	assert.False(t, body.Exists)
	assert.Empty(t, body.Name)
}

func TestHealthEndpoint(t *testing.T) {
	m := newTestAPI(t, newFakeDirectory(), newFakeHistory())

	resp := getPath(t, m, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body HealthResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body.Status)
}
