package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visitor is an anonymous per-device identity. It carries no personal
// data; it only namespaces like records and tags message authorship.
type Visitor struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

func (v *Visitor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Auth DTO
type AuthResponse struct {
	Token   string  `json:"token"`
	Visitor Visitor `json:"visitor"`
}
