package ports

import (
	"context"
	"time"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
)

// TokenRepository persists refresh tokens. Tokens are append-only: revocation
// stamps RevokedOn, nothing is ever deleted.
type TokenRepository interface {
	Save(ctx context.Context, token *domain.RefreshToken) error
	// FindActiveByUserID returns the user's active (non-expired, non-revoked)
	// refresh token, or domain.ErrTokenNotFound when none exists.
	FindActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.RefreshToken, error)
	// FindUserIDByToken resolves the owning user of an opaque token string.
	FindUserIDByToken(ctx context.Context, token string) (string, error)
	// Revoke marks the token revoked if it is currently active. Returns false
	// when the token is unknown, already revoked, or expired.
	Revoke(ctx context.Context, token string, now time.Time) (bool, error)
}
