package models

import "time"

// Account is a registered user of the remote variant
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PasswordReset is a single-use token allowing a password change
type PasswordReset struct {
	Token     string
	AccountID string
	ExpiresAt time.Time
	UsedAt    *time.Time
}
