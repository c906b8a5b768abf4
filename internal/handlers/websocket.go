package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aurawall/aurawall-api/internal/hub"
	"github.com/aurawall/aurawall-api/internal/middleware"
	"github.com/aurawall/aurawall-api/internal/models"
)

// SocketHandler owns the live-subscription endpoint. Each connection joins
// one stream: "settings", "messages", or "likes" (scoped to the caller's
// identity). The server sends a snapshot on subscribe, then pushes
// mutation events as they occur.
type SocketHandler struct {
	db     *gorm.DB
	hub    *hub.Hub
	secret string
	log    *zap.Logger
}

func NewSocketHandler(db *gorm.DB, h *hub.Hub, secret string, log *zap.Logger) *SocketHandler {
	return &SocketHandler{db: db, hub: h, secret: secret, log: log}
}

// Upgrade checks the upgrade request and resolves the caller's identity if
// a token is present. Only the likes stream requires one; the settings and
// messages streams are public, matching the read model everywhere else.
func (h *SocketHandler) Upgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Browsers cannot set headers on WebSocket requests, so the
		// token rides in ?token=; non-browser clients may use the
		// Authorization header instead.
		tokenString := c.Query("token")
		if tokenString == "" {
			tokenString = middleware.BearerToken(c)
		}

		if tokenString != "" {
			claims, err := middleware.ParseToken(h.secret, tokenString)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid or expired token",
				})
			}
			c.Locals("visitorId", claims.VisitorID)
		}

		return c.Next()
	}
}

// streamName resolves the requested stream to a hub room. The likes
// stream is scoped to one identity: without a resolved visitor it does
// not exist.
func streamName(stream string, visitorID uuid.UUID) (string, bool) {
	switch stream {
	case "settings":
		return hub.StreamSettings, true
	case "messages":
		return hub.StreamMessages, true
	case "likes":
		if visitorID == uuid.Nil {
			return "", false
		}
		return hub.LikesStream(visitorID.String()), true
	}
	return "", false
}

// Serve handles one live subscription until the client disconnects.
func (h *SocketHandler) Serve(c *websocket.Conn) {
	stream := c.Params("stream")
	visitorID, _ := c.Locals("visitorId").(uuid.UUID)

	name, ok := streamName(stream, visitorID)
	if !ok {
		c.Close()
		return
	}

	conn := hub.NewConn(c)
	h.hub.Register(name, conn)
	WSConnectionOpened()
	defer func() {
		h.hub.Unregister(name, conn)
		WSConnectionClosed()
	}()

	if err := conn.Send(h.snapshot(stream, visitorID)); err != nil {
		h.log.Warn("snapshot write failed", zap.String("stream", name), zap.Error(err))
		return
	}

	// Keep the connection alive; clients only send pings/keepalives.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}

// snapshot builds the initial state event for a fresh subscriber.
func (h *SocketHandler) snapshot(stream string, visitorID uuid.UUID) hub.Event {
	switch stream {
	case "settings":
		var settings models.Settings
		if err := h.db.First(&settings, "id = ?", models.SettingsID).Error; err != nil {
			h.log.Error("settings snapshot failed", zap.Error(err))
			return hub.Event{Type: hub.EventSnapshot}
		}
		return hub.Event{Type: hub.EventSnapshot, Data: settings}

	case "messages":
		var messages []models.Message
		if err := h.db.Order("created_at DESC").Limit(MaxListLimit).Find(&messages).Error; err != nil {
			h.log.Error("messages snapshot failed", zap.Error(err))
			return hub.Event{Type: hub.EventSnapshot}
		}
		views := make([]models.MessageView, len(messages))
		for i, m := range messages {
			views[i] = viewOf(m)
		}
		return hub.Event{Type: hub.EventSnapshot, Data: views}

	case "likes":
		var likes []models.Like
		if err := h.db.Where("visitor_id = ?", visitorID.String()).Find(&likes).Error; err != nil {
			h.log.Error("likes snapshot failed", zap.Error(err))
			return hub.Event{Type: hub.EventSnapshot}
		}
		ids := make([]string, len(likes))
		for i, l := range likes {
			ids[i] = l.MessageID.String()
		}
		return hub.Event{Type: hub.EventSnapshot, Data: ids}
	}

	return hub.Event{Type: hub.EventSnapshot}
}
