package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aurawall/aurawall-api/internal/middleware"
	"github.com/aurawall/aurawall-api/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	secret string
	log    *zap.Logger
}

func NewAuthHandler(db *gorm.DB, secret string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, secret: secret, log: log}
}

// Anonymous establishes an anonymous per-device identity. If the caller
// already holds a valid token it is reused so a device keeps its identity
// across page loads; otherwise a fresh visitor is minted. No personal data
// is ever collected.
func (h *AuthHandler) Anonymous(c *fiber.Ctx) error {
	if tokenString := middleware.BearerToken(c); tokenString != "" {
		if claims, err := middleware.ParseToken(h.secret, tokenString); err == nil {
			var visitor models.Visitor
			if err := h.db.First(&visitor, "id = ?", claims.VisitorID).Error; err == nil {
				h.db.Model(&visitor).Update("last_seen", time.Now())
				return c.JSON(models.AuthResponse{Token: tokenString, Visitor: visitor})
			}
		}
		// Fall through: stale or foreign token, mint a new identity.
	}

	visitor := models.Visitor{LastSeen: time.Now()}
	if err := h.db.Create(&visitor).Error; err != nil {
		h.log.Error("visitor create failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create identity",
		})
	}

	token, err := middleware.GenerateToken(h.secret, visitor.ID)
	if err != nil {
		h.log.Error("token sign failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{
		Token:   token,
		Visitor: visitor,
	})
}
