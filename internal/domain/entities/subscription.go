package entities

import (
	"time"

	"github.com/google/uuid"
)

// Subscription records one billing-provider subscription event for a user.
type Subscription struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID      string           `gorm:"type:varchar(255);not null" json:"product_id"`
	SubscriptionID string           `gorm:"type:varchar(255);not null;index" json:"subscription_id"`
	Tier           SubscriptionTier `gorm:"type:varchar(20);not null" json:"tier"`
	CreatedAt      time.Time        `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}

// NewSubscription creates a subscription record.
func NewSubscription(userID uuid.UUID, productID, subscriptionID string, tier SubscriptionTier) *Subscription {
	return &Subscription{
		ID:             uuid.New(),
		UserID:         userID,
		ProductID:      productID,
		SubscriptionID: subscriptionID,
		Tier:           tier,
		CreatedAt:      time.Now(),
	}
}
