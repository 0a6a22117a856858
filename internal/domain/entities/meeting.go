package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus represents the lifecycle state of an uploaded recording.
type MeetingStatus string

const (
	MeetingStatusPending    MeetingStatus = "pending"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusFailed     MeetingStatus = "failed"
)

// Meeting represents one uploaded recording and its transcription result.
type Meeting struct {
	ID                uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID            uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User              *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title             string        `gorm:"type:varchar(255);not null" json:"title"`
	Date              string        `gorm:"type:varchar(50);not null" json:"date"`
	Participants      string        `gorm:"type:text;not null" json:"participants"`
	FileName          string        `gorm:"type:varchar(500);not null" json:"file_name"`
	FilePath          string        `gorm:"type:varchar(500);not null" json:"file_path"`
	Duration          *int          `json:"duration,omitempty"` // seconds
	Status            MeetingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TranscriptionText *string       `gorm:"type:text" json:"transcription_text,omitempty"`
	VariantSelector   string        `gorm:"column:variant_selector;type:varchar(100);not null;default:'default'" json:"variant_selector"`
	CreatedAt         time.Time     `gorm:"default:now();index" json:"created_at"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting record for a fresh upload. Uploads enter the
// pipeline immediately, so the record starts in "processing" rather than
// "pending".
func NewMeeting(userID uuid.UUID, title, date, participants, fileName, filePath, variantSelector string) *Meeting {
	if variantSelector == "" {
		variantSelector = "default"
	}
	return &Meeting{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           title,
		Date:            date,
		Participants:    participants,
		FileName:        fileName,
		FilePath:        filePath,
		Status:          MeetingStatusProcessing,
		VariantSelector: variantSelector,
		CreatedAt:       time.Now(),
	}
}

// IsTerminal reports whether the meeting reached a final state.
func (m *Meeting) IsTerminal() bool {
	return m.Status == MeetingStatusCompleted || m.Status == MeetingStatusFailed
}

// IsValid checks if the status is one of the known lifecycle values.
func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusPending, MeetingStatusProcessing, MeetingStatusCompleted, MeetingStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo enforces the lifecycle: pending -> processing ->
// {completed, failed}. Terminal states accept no further transitions.
func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	switch s {
	case MeetingStatusPending:
		return next == MeetingStatusProcessing
	case MeetingStatusProcessing:
		return next == MeetingStatusCompleted || next == MeetingStatusFailed
	}
	return false
}
