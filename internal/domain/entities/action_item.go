package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItemPriority represents the urgency of an extracted task.
type ActionItemPriority string

const (
	PriorityLow    ActionItemPriority = "low"
	PriorityMedium ActionItemPriority = "medium"
	PriorityHigh   ActionItemPriority = "high"
)

// IsValid checks if the priority is one of the three known values.
func (p ActionItemPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// CoercePriority maps free-form extractor output onto the priority enum.
// Anything unrecognised becomes medium.
func CoercePriority(raw string) ActionItemPriority {
	p := ActionItemPriority(raw)
	if p.IsValid() {
		return p
	}
	return PriorityMedium
}

// ActionItem represents one task extracted from a meeting transcript.
type ActionItem struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"meeting_id"`
	UserID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	Assignee    *string            `gorm:"type:varchar(255)" json:"assignee,omitempty"`
	Priority    ActionItemPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DueDate     *string            `gorm:"type:varchar(20)" json:"due_date,omitempty"` // YYYY-MM-DD
	Completed   bool               `gorm:"not null;default:false" json:"completed"`
	Description *string            `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time          `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for ActionItem
func (ActionItem) TableName() string {
	return "action_items"
}

// NewActionItem creates an action item scoped to a meeting and its owner.
func NewActionItem(meetingID, userID uuid.UUID, text string) *ActionItem {
	return &ActionItem{
		ID:        uuid.New(),
		MeetingID: meetingID,
		UserID:    userID,
		Text:      text,
		Priority:  PriorityMedium,
		Completed: false,
		CreatedAt: time.Now(),
	}
}
