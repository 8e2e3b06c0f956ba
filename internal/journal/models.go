package journal

import "time"

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Entry records the outcome of one rename attempt. Append-only; the
// renamer never reads the journal to make decisions.
type Entry struct {
	ID string `gorm:"primaryKey;size:26" json:"id"` // ULID length

	SessionID string `gorm:"size:64;index;not null" json:"session_id"`

	// Title is the full applied title, date suffix included. Empty on
	// failure.
	Title string `gorm:"type:text" json:"title,omitempty"`

	// Model is the resolved provider/model pair, empty when the server
	// default was used.
	Model string `gorm:"size:128" json:"model,omitempty"`

	Status Status `gorm:"type:varchar(16);index;not null" json:"status"`

	// Filled when failed
	Error *string `gorm:"type:text" json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Entry) TableName() string { return "rename_journal" }
