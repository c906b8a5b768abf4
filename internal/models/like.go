package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like records that a visitor liked a message. Existence implies "liked";
// the pair (visitor, message) is unique.
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	MessageID uuid.UUID `json:"messageId" gorm:"type:uuid;uniqueIndex:idx_visitor_message;not null"`
	VisitorID string    `json:"visitorId" gorm:"uniqueIndex:idx_visitor_message;index;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ToggleLikeResponse reports the post-toggle state.
type ToggleLikeResponse struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}
