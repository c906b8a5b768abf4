package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aurawall/aurawall-api/internal/hub"
	"github.com/aurawall/aurawall-api/internal/middleware"
	"github.com/aurawall/aurawall-api/internal/models"
)

type LikeHandler struct {
	db  *gorm.DB
	hub *hub.Hub
	log *zap.Logger
}

func NewLikeHandler(db *gorm.DB, h *hub.Hub, log *zap.Logger) *LikeHandler {
	return &LikeHandler{db: db, hub: h, log: log}
}

var errCounterFloor = errors.New("like counter already at zero")

// Toggle flips the caller's like on a message. The like record and the
// counter move together inside one transaction, and the counter moves by
// a relative SQL expression, never a value read earlier in the
// transaction, so concurrent toggles from other clients cannot lose an
// increment. A decrement with the counter already at zero is refused, not
// merely skipped.
func (h *LikeHandler) Toggle(c *fiber.Ctx) error {
	visitorID := middleware.GetVisitorID(c)
	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid message ID",
		})
	}

	var liked bool
	var likes int

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var message models.Message
		if err := tx.First(&message, "id = ?", messageID).Error; err != nil {
			return err
		}

		var existing models.Like
		findErr := tx.Where("message_id = ? AND visitor_id = ?", messageID, visitorID.String()).
			First(&existing).Error

		switch {
		case findErr == nil:
			// Unlike: remove the record and decrement. The guard rides
			// in the WHERE clause so the floor holds even if another
			// client drained the counter after our read.
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			res := tx.Model(&models.Message{}).
				Where("id = ? AND likes > 0", messageID).
				UpdateColumn("likes", gorm.Expr("likes - 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errCounterFloor
			}
			liked = false
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			like := models.Like{MessageID: messageID, VisitorID: visitorID.String()}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Message{}).
				Where("id = ?", messageID).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return err
			}
			liked = true
		default:
			return findErr
		}

		var current models.Message
		if err := tx.Select("likes").First(&current, "id = ?", messageID).Error; err != nil {
			return err
		}
		likes = current.Likes
		return nil
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Message not found",
		})
	}
	if errors.Is(err, errCounterFloor) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Like counter is already zero",
		})
	}
	if err != nil {
		h.log.Error("like toggle failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to toggle like",
		})
	}

	LikesToggled()

	payload := fiber.Map{
		"id":    messageID.String(),
		"likes": likes,
		"liked": liked,
	}
	h.hub.Broadcast(hub.StreamMessages, hub.Event{Type: hub.EventMessageLiked, Data: payload})
	h.hub.Broadcast(hub.LikesStream(visitorID.String()), hub.Event{Type: hub.EventMessageLiked, Data: payload})

	return c.JSON(models.ToggleLikeResponse{Liked: liked, Likes: likes})
}

// Index returns the caller's like index: the IDs of every message this
// identity currently likes. Views use it to render toggle state.
func (h *LikeHandler) Index(c *fiber.Ctx) error {
	visitorID := middleware.GetVisitorID(c)

	var likes []models.Like
	if err := h.db.Where("visitor_id = ?", visitorID.String()).Find(&likes).Error; err != nil {
		h.log.Error("like index failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch likes",
		})
	}

	ids := make([]string, len(likes))
	for i, l := range likes {
		ids[i] = l.MessageID.String()
	}
	return c.JSON(fiber.Map{"messageIds": ids})
}
