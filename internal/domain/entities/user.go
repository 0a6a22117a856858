package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderEmail  AuthProvider = "email"
	ProviderGoogle AuthProvider = "google"
)

// User represents a user in the system
type User struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`

	// Auth
	PasswordHash *string      `json:"-" gorm:"column:password_hash;type:text"` // Never expose in JSON
	Provider     AuthProvider `json:"provider" gorm:"type:varchar(50);default:'email';not null"`
	ProviderID   *string      `json:"provider_id,omitempty" gorm:"column:provider_id;type:varchar(255);index:idx_provider"`

	// Profile
	FirstName *string `json:"first_name,omitempty" gorm:"type:varchar(255)"`
	LastName  *string `json:"last_name,omitempty" gorm:"type:varchar(255)"`
	AvatarURL *string `json:"avatar_url,omitempty" gorm:"type:varchar(500)"`

	// Status
	IsEmailVerified bool       `json:"is_email_verified" gorm:"default:false;not null"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty" gorm:"type:timestamp"`

	// Preferences (stored as JSONB in PostgreSQL)
	NotificationPreferences datatypes.JSON `json:"notification_preferences" gorm:"type:jsonb;default:'{}'"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// NewUser creates a new email/password user with default values
func NewUser(email string) *User {
	now := time.Now()

	// Default notification preferences
	notifPrefs, _ := json.Marshal(map[string]interface{}{
		"email":            true,
		"pipeline_updates": true,
	})

	return &User{
		ID:                      uuid.New(),
		Email:                   email,
		Provider:                ProviderEmail,
		IsEmailVerified:         false,
		NotificationPreferences: notifPrefs,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// NewOAuthUser creates a new user from an OAuth provider
func NewOAuthUser(email string, provider AuthProvider, providerID string) *User {
	user := NewUser(email)
	user.Provider = provider
	user.ProviderID = &providerID
	user.IsEmailVerified = true // OAuth providers verify emails
	return user
}

// UpdateLastLogin updates the last login timestamp
func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Validate validates user data
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidEmail
	}
	return nil
}

// PublicUser returns a user with sensitive fields removed
type PublicUser struct {
	ID              uuid.UUID    `json:"id"`
	Email           string       `json:"email"`
	FirstName       *string      `json:"first_name,omitempty"`
	LastName        *string      `json:"last_name,omitempty"`
	AvatarURL       *string      `json:"avatar_url,omitempty"`
	Provider        AuthProvider `json:"provider"`
	IsEmailVerified bool         `json:"is_email_verified"`
	CreatedAt       time.Time    `json:"created_at"`
}

// ToPublic converts User to PublicUser
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		AvatarURL:       u.AvatarURL,
		Provider:        u.Provider,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}
