package entities

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier is the billing tier gating usage.
type SubscriptionTier string

const (
	TierFree  SubscriptionTier = "Free"
	TierBasic SubscriptionTier = "Basic"
	TierPro   SubscriptionTier = "Pro"
)

// IsValid checks if the tier is one of the known values.
func (t SubscriptionTier) IsValid() bool {
	switch t {
	case TierFree, TierBasic, TierPro:
		return true
	}
	return false
}

// UnlimitedCount marks an allowance counter with no cap. Pro tier uses it;
// the gate treats any negative value as unlimited.
const UnlimitedCount = -1

// Asset holds a user's remaining allowance under their subscription tier.
type Asset struct {
	ID                     uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID                 uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CurrentTier            SubscriptionTier `gorm:"type:varchar(20);not null;default:'Free'" json:"current_tier"`
	TranscriptionCount     int              `gorm:"not null;default:5" json:"transcription_count"`
	ActionPerTime          int              `gorm:"not null;default:10" json:"action_per_time"`
	ActionDescriptionAllow bool             `gorm:"not null;default:false" json:"action_description_allow"`
	CreatedAt              time.Time        `gorm:"default:now()" json:"created_at"`
	UpdatedAt              time.Time        `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Asset
func (Asset) TableName() string {
	return "assets"
}

// NewAsset creates the default Free-tier allowance for a fresh user.
func NewAsset(userID uuid.UUID) *Asset {
	a := &Asset{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	a.ApplyTier(TierFree)
	return a
}

// ApplyTier resets the allowance counters to the template for a tier.
func (a *Asset) ApplyTier(tier SubscriptionTier) {
	a.CurrentTier = tier
	switch tier {
	case TierBasic:
		a.TranscriptionCount = 15
		a.ActionPerTime = 15
		a.ActionDescriptionAllow = true
	case TierPro:
		a.TranscriptionCount = UnlimitedCount
		a.ActionPerTime = UnlimitedCount
		a.ActionDescriptionAllow = true
	default:
		a.CurrentTier = TierFree
		a.TranscriptionCount = 5
		a.ActionPerTime = 10
		a.ActionDescriptionAllow = false
	}
	a.UpdatedAt = time.Now()
}

// HasTranscriptionAllowance reports whether a new pipeline run may start.
// Only an exactly exhausted counter blocks; negative means unlimited.
func (a *Asset) HasTranscriptionAllowance() bool {
	return a.TranscriptionCount != 0
}
