package ports

import (
	"context"
	"time"
)

// TokenResult is returned by successful Login and Refresh calls.
type TokenResult struct {
	AccessToken           string
	ExpiresOn             time.Time
	Username              string
	Email                 string
	Roles                 []string
	RefreshToken          string
	RefreshTokenExpiresOn time.Time
}

// AuthService authenticates credentials and manages token sessions.
//
// Login reuses the user's active refresh token when one exists; Refresh always
// rotates. The asymmetry is deliberate: reuse avoids token churn on repeated
// logins, rotation on refresh limits the replay window.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResult, error)
	// Revoke marks a refresh token revoked. Returns false when the token is
	// unknown or already inactive; a second call on the same token is a clean
	// false, never an error.
	Revoke(ctx context.Context, token string) (bool, error)
}
