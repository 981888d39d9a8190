package model

import "time"

// User represents a user account
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Hash      *string   `json:"-"` // Never expose password hash
	Profile   Profile   `json:"profile"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Profile holds the user-editable display fields.
type Profile struct {
	FullName string `json:"full_name,omitempty"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
}

// SignupRequest represents a registration request
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful signup or login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// UpdateProfileRequest represents a profile edit. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty"`
	City     *string `json:"city,omitempty"`
	Region   *string `json:"region,omitempty"`
}
