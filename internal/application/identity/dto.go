package identity

import "time"

// LoginInput holds login credentials. Username is the user's email.
type LoginInput struct {
	Username string `json:"username" binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

// RefreshTokenInput holds the refresh token to exchange
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RegisterInput creates a user
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	IsStaff  bool   `json:"is_staff"`
}

// TokenResult is returned by login and refresh
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  *UserInfo `json:"user,omitempty"`
}

// UserInfo describes the signed-in user
type UserInfo struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	IsStaff     bool       `json:"is_staff"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
