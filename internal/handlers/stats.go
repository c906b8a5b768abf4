package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aurawall/aurawall-api/internal/models"
)

type StatsHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStatsHandler(db *gorm.DB, log *zap.Logger) *StatsHandler {
	return &StatsHandler{db: db, log: log}
}

// Mood returns the per-axis mean over all messages, the admin panel's
// aggregate mood distribution.
func (h *StatsHandler) Mood(c *fiber.Ctx) error {
	var messages []models.Message
	if err := h.db.Find(&messages).Error; err != nil {
		h.log.Error("stats query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch messages",
		})
	}

	count := len(messages)
	var sum models.Scores
	for _, m := range messages {
		sum.Positive += m.Scores.Positive
		sum.Calm += m.Scores.Calm
		sum.Energetic += m.Scores.Energetic
		sum.Deep += m.Scores.Deep
	}

	mean := models.Scores{}
	if count > 0 {
		n := float64(count)
		mean = models.Scores{
			Positive:  sum.Positive / n,
			Calm:      sum.Calm / n,
			Energetic: sum.Energetic / n,
			Deep:      sum.Deep / n,
		}
	}

	return c.JSON(fiber.Map{
		"count": count,
		"mood":  mean,
	})
}
