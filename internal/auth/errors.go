package auth

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitlit/internal/constants"
)

var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrEmailInUse       = errors.New("email already in use")
	ErrWeakPassword     = errors.New("password too short")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrResetInvalid     = errors.New("reset token invalid or already used")
	ErrResetExpired     = errors.New("reset token expired")
	ErrNotSignedIn      = errors.New("not signed in")
	ErrSessionInvalid   = errors.New("session invalid or expired")
	ErrMissingSecret    = errors.New("no session signing secret configured")
)

// FriendlyMessage maps an auth error to text suitable for the user. Unknown errors get a
// generic message; the detail belongs in the log.
func FriendlyMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidEmail):
		return "Please enter a valid email address."
	case errors.Is(err, ErrUserNotFound):
		return "No account found with this email."
	case errors.Is(err, ErrWrongPassword):
		return "Incorrect password. Please try again."
	case errors.Is(err, ErrEmailInUse):
		return "An account with this email already exists."
	case errors.Is(err, ErrWeakPassword):
		return fmt.Sprintf("Password must be at least %d characters.", constants.MinPasswordLength)
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, ErrResetExpired):
		return "This reset link has expired. Please request a new one."
	case errors.Is(err, ErrResetInvalid):
		return "This reset link is invalid or has already been used."
	case errors.Is(err, ErrNotSignedIn), errors.Is(err, ErrSessionInvalid):
		return "Please sign in again."
	case errors.Is(err, ErrMissingSecret):
		return "Sign-in is not configured. Set HABITLIT_AUTH_JWT_SECRET."
	default:
		return "Something went wrong. Please try again."
	}
}
