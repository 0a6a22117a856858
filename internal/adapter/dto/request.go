package dto

// SignUpRequest is the payload for email/password registration.
type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// LoginRequest is the payload for email/password login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token when it is not sent as a cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateActionItemRequest is a partial update; nil fields are left untouched.
type UpdateActionItemRequest struct {
	Text      *string `json:"text" validate:"omitempty,min=1"`
	Assignee  *string `json:"assignee"`
	Priority  *string `json:"priority" validate:"omitempty,oneof=high medium low"`
	DueDate   *string `json:"dueDate" validate:"omitempty,dateonly"`
	Completed *bool   `json:"completed"`
}

// CreateVariantRequest defines a new extraction variant.
type CreateVariantRequest struct {
	Name        string  `json:"name" validate:"required"`
	Model       string  `json:"model" validate:"required"`
	Prompt      string  `json:"prompt" validate:"required"`
	Description *string `json:"description"`
}
