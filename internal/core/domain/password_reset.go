package domain

import "time"

// PasswordReset is a single-use token allowing a password change.
type PasswordReset struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Usable reports whether the token can still be redeemed at now.
func (r *PasswordReset) Usable(now time.Time) bool {
	return r != nil && !r.Used && now.Before(r.ExpiresAt)
}
