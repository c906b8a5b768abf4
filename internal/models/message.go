package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The four fixed mood axes. These names are the wire keys for every score
// vector in the system, including the classifier response.
const (
	AxisPositive  = "POSITIVE"
	AxisCalm      = "CALM"
	AxisEnergetic = "ENERGETIC"
	AxisDeep      = "DEEP"
)

// MaxMessageLength is the client-visible limit on reflection text, in runes.
const MaxMessageLength = 150

// Scores is a four-axis mood vector. Values are nominally percentages
// summing to 100, but fallback vectors are not normalized.
type Scores struct {
	Positive  float64 `json:"POSITIVE" gorm:"column:score_positive"`
	Calm      float64 `json:"CALM" gorm:"column:score_calm"`
	Energetic float64 `json:"ENERGETIC" gorm:"column:score_energetic"`
	Deep      float64 `json:"DEEP" gorm:"column:score_deep"`
}

// Dominant returns the name of the highest-scoring axis. Ties resolve in
// the fixed axis order POSITIVE, CALM, ENERGETIC, DEEP.
func (s Scores) Dominant() string {
	axis := AxisPositive
	best := s.Positive
	if s.Calm > best {
		axis, best = AxisCalm, s.Calm
	}
	if s.Energetic > best {
		axis, best = AxisEnergetic, s.Energetic
	}
	if s.Deep > best {
		axis = AxisDeep
	}
	return axis
}

// Sum returns the total weight of the vector.
func (s Scores) Sum() float64 {
	return s.Positive + s.Calm + s.Energetic + s.Deep
}

type Message struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Scores    Scores    `json:"scores" gorm:"embedded"`
	Likes     int       `json:"likes" gorm:"default:0;check:likes >= 0"`
	UserID    string    `json:"userId" gorm:"index;not null"`
	Degraded  bool      `json:"degraded" gorm:"default:false"` // scores came from the classifier fallback
	CreatedAt time.Time `json:"timestamp"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Message DTOs
type CreateMessageRequest struct {
	Text string `json:"text"`
}

// Ticket is the success confirmation returned after a submission. The
// client renders it as the shareable artifact.
type Ticket struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Scores   Scores    `json:"scores"`
	Aura     string    `json:"aura"`
	Degraded bool      `json:"degraded"`
}

// MessageView is a message plus its derived display color.
type MessageView struct {
	Message
	Aura string `json:"aura"`
}
