package entity

import "time"

// Session is the authenticated operator of this console. A zero ExpiresAt means the token
// carried no expiry claim.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the token's expiry has passed at now
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// PasswordReset is the second step of password recovery
type PasswordReset struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// MinPasswordLength is the shortest password accepted on reset
const MinPasswordLength = 6
