package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aurawall/aurawall-api/internal/hub"
	"github.com/aurawall/aurawall-api/internal/models"
)

type SettingsHandler struct {
	db  *gorm.DB
	hub *hub.Hub
	log *zap.Logger
}

func NewSettingsHandler(db *gorm.DB, h *hub.Hub, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{db: db, hub: h, log: log}
}

// Get returns the current copy document. The row is seeded at migration
// time, so a missing row is a server fault, not a 404.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	var settings models.Settings
	if err := h.db.First(&settings, "id = ?", models.SettingsID).Error; err != nil {
		h.log.Error("settings fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch settings",
		})
	}
	return c.JSON(settings)
}

// Update overwrites the whole settings document with exactly the provided
// shape. No partial-field merge, last writer wins. Callers must always
// send the full object.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req models.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	settings := models.Settings{
		ID:      models.SettingsID,
		Input:   req.Input,
		Display: req.Display,
	}
	if err := h.db.Save(&settings).Error; err != nil {
		h.log.Error("settings update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update settings",
		})
	}

	h.hub.Broadcast(hub.StreamSettings, hub.Event{
		Type: hub.EventSettingsUpdated,
		Data: settings,
	})

	return c.JSON(settings)
}
