package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aurawall/aurawall-api/internal/aura"
	"github.com/aurawall/aurawall-api/internal/classifier"
	"github.com/aurawall/aurawall-api/internal/hub"
	"github.com/aurawall/aurawall-api/internal/middleware"
	"github.com/aurawall/aurawall-api/internal/models"
)

// Default and maximum page sizes for message lists. The input view shows
// the ten most recent; the display wall asks for its card cap (20).
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// Classifier is the slice of the sentiment client the handler needs.
type Classifier interface {
	Classify(ctx context.Context, text string) classifier.Result
}

type MessageHandler struct {
	db         *gorm.DB
	hub        *hub.Hub
	classifier Classifier
	log        *zap.Logger
}

func NewMessageHandler(db *gorm.DB, h *hub.Hub, cl Classifier, log *zap.Logger) *MessageHandler {
	return &MessageHandler{db: db, hub: h, classifier: cl, log: log}
}

// Create handles a visitor submission: validate, classify, store,
// broadcast. The response is the "ticket" the client renders as its
// success confirmation; list views update through the messages stream,
// not through this response.
func (h *MessageHandler) Create(c *fiber.Ctx) error {
	visitorID := middleware.GetVisitorID(c)

	var req models.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message text is required",
		})
	}
	if len([]rune(text)) > models.MaxMessageLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message text exceeds 150 characters",
		})
	}

	// One attempt, no retry. The classifier never fails outright: a
	// broken endpoint degrades to a random vector.
	result := h.classifier.Classify(c.Context(), text)

	message := models.Message{
		Text:     text,
		Scores:   result.Scores,
		UserID:   visitorID.String(),
		Degraded: result.Degraded,
	}
	if err := h.db.Create(&message).Error; err != nil {
		h.log.Error("message create failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save message",
		})
	}

	MessagesSubmitted(result.Degraded)

	h.hub.Broadcast(hub.StreamMessages, hub.Event{
		Type: hub.EventMessageCreated,
		Data: viewOf(message),
	})

	return c.Status(fiber.StatusCreated).JSON(models.Ticket{
		ID:       message.ID,
		Text:     message.Text,
		Scores:   message.Scores,
		Aura:     aura.Hex(message.Scores),
		Degraded: message.Degraded,
	})
}

// List returns messages newest-first. ?limit=N, default 10, capped at 100.
func (h *MessageHandler) List(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultListLimit)))
	if err != nil || limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid limit",
		})
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	var messages []models.Message
	if err := h.db.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		h.log.Error("message list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch messages",
		})
	}

	views := make([]models.MessageView, len(messages))
	for i, m := range messages {
		views[i] = viewOf(m)
	}
	return c.JSON(views)
}

// Delete removes one message and its like records.
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid message ID",
		})
	}

	var message models.Message
	if err := h.db.First(&message, "id = ?", messageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Message not found",
		})
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", messageID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&message).Error
	})
	if err != nil {
		h.log.Error("message delete failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete message",
		})
	}

	h.hub.Broadcast(hub.StreamMessages, hub.Event{
		Type: hub.EventMessageDeleted,
		Data: fiber.Map{"id": messageID.String()},
	})

	return c.JSON(fiber.Map{"success": true})
}

// Clear removes every message and like record in one transaction. The
// admin panel's bulk clear is the one operation given atomicity.
func (h *MessageHandler) Clear(c *fiber.Ctx) error {
	var deleted int64
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Where("1 = 1").Delete(&models.Message{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		h.log.Error("bulk clear failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear messages",
		})
	}

	h.hub.Broadcast(hub.StreamMessages, hub.Event{
		Type: hub.EventMessagesCleared,
	})

	return c.JSON(fiber.Map{"success": true, "deleted": deleted})
}

// Export serializes the full message set as a CSV download. The sentiment
// column is the single highest-scoring axis name.
func (h *MessageHandler) Export(c *fiber.Ctx) error {
	var messages []models.Message
	if err := h.db.Order("created_at DESC").Find(&messages).Error; err != nil {
		h.log.Error("export query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch messages",
		})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"ID", "Content", "UID", "Likes", "Sentiment"})
	for _, m := range messages {
		_ = w.Write([]string{
			m.ID.String(),
			m.Text,
			m.UserID,
			strconv.Itoa(m.Likes),
			m.Scores.Dominant(),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build export",
		})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="aurawall-export.csv"`)
	return c.Send(buf.Bytes())
}

func viewOf(m models.Message) models.MessageView {
	return models.MessageView{Message: m, Aura: aura.Hex(m.Scores)}
}
