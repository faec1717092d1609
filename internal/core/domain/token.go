package domain

import (
	"errors"
	"time"
)

// Refresh failures carry the exact client-facing wording.
var ErrTokenNotFound = errors.New("User ID not found")
var ErrTokenInactive = errors.New("Invalid token or Inactive token")

// RefreshToken is a long-lived opaque credential. Tokens are never deleted,
// only marked revoked, so the full issuance history is kept.
type RefreshToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Token     string     `json:"token"`
	ExpiresOn time.Time  `json:"expires_on"`
	CreatedOn time.Time  `json:"created_on"`
	RevokedOn *time.Time `json:"revoked_on,omitempty"`
}

// IsExpired reports whether the token has passed its expiry.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresOn)
}

// IsActive reports whether the token can still be presented: not revoked and
// not expired.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return t.RevokedOn == nil && !t.IsExpired(now)
}
