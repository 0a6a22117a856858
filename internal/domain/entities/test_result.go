package entities

import (
	"time"

	"github.com/google/uuid"
)

// TestResult is one measurement of a single pipeline run against an
// extraction variant. Written exactly once per completed run, never mutated.
type TestResult struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TestID           uuid.UUID `gorm:"column:test_id;type:uuid;not null;index" json:"test_id"`
	MeetingID        uuid.UUID `gorm:"type:uuid;not null;index" json:"meeting_id"`
	AccuracyRate     int       `json:"accuracy_rate"`      // percentage, heuristic
	ProcessingTime   int       `json:"processing_time"`    // seconds
	ActionItemsFound int       `json:"action_items_found"` // items per 1000 transcript chars
	CreatedAt        time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for TestResult
func (TestResult) TableName() string {
	return "test_results"
}

// NewTestResult creates a measurement row for a variant/meeting pair.
func NewTestResult(testID, meetingID uuid.UUID, accuracyRate, processingTime, actionItemsFound int) *TestResult {
	return &TestResult{
		ID:               uuid.New(),
		TestID:           testID,
		MeetingID:        meetingID,
		AccuracyRate:     accuracyRate,
		ProcessingTime:   processingTime,
		ActionItemsFound: actionItemsFound,
		CreatedAt:        time.Now(),
	}
}
