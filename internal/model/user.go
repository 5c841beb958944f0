package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a teacher account. Google OAuth tokens are stored per user so the
// server can drive the Docs and Forms APIs on the teacher's behalf.
type User struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	GoogleTokens *GoogleTokens `json:"google_linked,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// GoogleTokens holds the OAuth2 credentials obtained by the frontend's
// consent flow. Refresh token presence determines long-term usability.
type GoogleTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

// RegisterRequest is the payload for creating a teacher account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the payload for teacher login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleTokensRequest stores the OAuth2 tokens delivered by the frontend
// after the Google consent flow completes.
type GoogleTokensRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
	TokenType    string `json:"token_type" binding:"omitempty"`
	ExpiresAt    int64  `json:"expires_at" binding:"omitempty"` // Unix seconds
}
