// Package hub fans events out to live WebSocket subscribers. Each
// subscriber joins a named stream; streams are independent and deliver in
// no guaranteed order relative to each other.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Stream names. The likes stream is per-identity.
const (
	StreamSettings = "settings"
	StreamMessages = "messages"
)

// LikesStream returns the stream name scoped to one visitor identity.
func LikesStream(visitorID string) string {
	return "likes:" + visitorID
}

// Event types pushed to subscribers.
const (
	EventSnapshot        = "snapshot"
	EventMessageCreated  = "message_created"
	EventMessageDeleted  = "message_deleted"
	EventMessagesCleared = "messages_cleared"
	EventMessageLiked    = "message_liked"
	EventSettingsUpdated = "settings_updated"
)

// Event is the JSON message sent to connected clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// MessageWriter is the slice of *websocket.Conn the hub writes through.
type MessageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// Conn wraps a websocket connection with a write lock so broadcasts and
// the snapshot write never interleave on the wire.
type Conn struct {
	mu sync.Mutex
	ws MessageWriter
}

func NewConn(ws MessageWriter) *Conn {
	return &Conn{ws: ws}
}

// Send writes one event to the connection.
func (c *Conn) Send(event Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, msg)
}

// Hub manages subscribers per stream.
type Hub struct {
	mu      sync.RWMutex
	streams map[string]map[*Conn]bool
	log     *zap.Logger
}

func New(log *zap.Logger) *Hub {
	return &Hub{
		streams: make(map[string]map[*Conn]bool),
		log:     log,
	}
}

// Register adds a connection to a stream.
func (h *Hub) Register(stream string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.streams[stream] == nil {
		h.streams[stream] = make(map[*Conn]bool)
	}
	h.streams[stream][conn] = true
	h.log.Debug("subscriber joined", zap.String("stream", stream), zap.Int("total", len(h.streams[stream])))
}

// Unregister removes a connection from a stream.
func (h *Hub) Unregister(stream string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.streams[stream]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.streams, stream)
		}
		h.log.Debug("subscriber left", zap.String("stream", stream), zap.Int("remaining", len(conns)))
	}
}

// Subscribers reports the current connection count for a stream.
func (h *Hub) Subscribers(stream string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[stream])
}

// Broadcast sends an event to every connection on a stream. Write errors
// are logged and otherwise ignored; a dead connection is reaped when its
// read loop exits.
func (h *Hub) Broadcast(stream string, event Event) {
	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.streams[stream]))
	for c := range h.streams[stream] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.Send(event); err != nil {
			h.log.Warn("broadcast write failed", zap.String("stream", stream), zap.Error(err))
		}
	}
}
