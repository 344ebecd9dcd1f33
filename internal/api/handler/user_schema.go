package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type loginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// createUserRequest is the public registration payload. Roles are not
// accepted here; new accounts always get the default role set.
type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Gender   string `json:"gender"   validate:"required,oneof=male female"`
	Active   *bool  `json:"active,omitempty"`
}

type updateUserRequest struct {
	Gender string   `json:"gender" validate:"required,oneof=male female"`
	Active bool     `json:"active"`
	Roles  []string `json:"roles"  validate:"omitempty,dive,oneof=admin user"`
}

// --- Response types ---

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Gender    string    `json:"gender"`
	Active    bool      `json:"active"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
