package models

import "time"

// SettingsID is the primary key of the single settings row.
const SettingsID = 1

// InputSettings is the copy shown on the visitor input view.
type InputSettings struct {
	Question    string `json:"question" gorm:"column:question"`
	Subtitle    string `json:"subtitle" gorm:"column:subtitle"`
	Placeholder string `json:"placeholder" gorm:"column:placeholder"`
	ButtonText  string `json:"buttonText" gorm:"column:button_text"`
	FontFamily  string `json:"fontFamily" gorm:"column:font_family"`
}

// DisplaySettings is the copy shown on the display wall.
type DisplaySettings struct {
	Question     string `json:"question" gorm:"column:question"`
	Subtitle     string `json:"subtitle" gorm:"column:subtitle"`
	QuestionSize string `json:"questionSize" gorm:"column:question_size"` // CSS length, e.g. "72px"
	FontFamily   string `json:"fontFamily" gorm:"column:font_family"`
}

// Settings is the single per-deployment copy document. Writes replace the
// whole document: last writer wins, no partial-field semantics.
type Settings struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	Input     InputSettings   `json:"input" gorm:"embedded;embeddedPrefix:input_"`
	Display   DisplaySettings `json:"display" gorm:"embedded;embeddedPrefix:display_"`
	UpdatedAt time.Time       `json:"-"`
}

// DefaultSettings seeds a fresh deployment.
func DefaultSettings() Settings {
	return Settings{
		ID: SettingsID,
		Input: InputSettings{
			Question:    "What is on your mind today?",
			Subtitle:    "Leave a short reflection for the wall",
			Placeholder: "Write something...",
			ButtonText:  "Send",
			FontFamily:  "sans-serif",
		},
		Display: DisplaySettings{
			Question:     "What is on your mind today?",
			Subtitle:     "Reflections from our visitors",
			QuestionSize: "72px",
			FontFamily:   "sans-serif",
		},
	}
}

// Settings DTO. The full document shape, required in its entirety on
// every update.
type UpdateSettingsRequest struct {
	Input   InputSettings   `json:"input"`
	Display DisplaySettings `json:"display"`
}
