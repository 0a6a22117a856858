package entities

import (
	"time"

	"github.com/google/uuid"
)

// ExtractionVariant is a named extraction configuration compared via A/B
// testing: a model selector plus the prompt template fed to the LLM.
type ExtractionVariant struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Model       string    `gorm:"type:varchar(100);not null" json:"model"` // default, enhanced, speed
	Prompt      string    `gorm:"type:text;not null" json:"prompt"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for ExtractionVariant
func (ExtractionVariant) TableName() string {
	return "ab_tests"
}

// NewExtractionVariant creates an active variant.
func NewExtractionVariant(name, model, prompt string) *ExtractionVariant {
	return &ExtractionVariant{
		ID:        uuid.New(),
		Name:      name,
		Model:     model,
		Prompt:    prompt,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}
