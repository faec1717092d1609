package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

const refreshTokenLifetime = 10 * 24 * time.Hour

// JWTOptions configures access-token minting.
type JWTOptions struct {
	Issuer     string
	Audience   string
	SigningKey string
	Lifetime   time.Duration
}

// AuthService implements credential authentication, access-token minting, and
// refresh-token session management.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenRepository
	jwt    JWTOptions
	now    func() time.Time
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenRepository, jwt JWTOptions, logger zerolog.Logger) *AuthService {
	if jwt.Lifetime <= 0 {
		jwt.Lifetime = 30 * time.Minute
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		jwt:    jwt,
		now:    time.Now,
		logger: logger,
	}
}

// Login verifies the credentials and returns a fresh access token. An active
// refresh token is reused when present; a new one is generated and persisted
// otherwise.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn().Str("email", email).Msg("login failed: unknown email")
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn().Str("email", email).Msg("login failed: wrong password")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Warn().Str("user_id", user.ID).Msg("login failed: inactive account")
		return nil, domain.ErrUserInactive
	}

	access, expiresOn, err := s.mintAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	now := s.now().UTC()
	refresh, err := s.tokens.FindActiveByUserID(ctx, user.ID, now)
	if err != nil {
		refresh = s.generateRefreshToken(user.ID)
		// A failed token save is a hard failure: without a persisted refresh
		// token the session cannot be renewed.
		if err := s.tokens.Save(ctx, refresh); err != nil {
			return nil, fmt.Errorf("save refresh token: %w", err)
		}
		s.logger.Debug().Str("user_id", user.ID).Msg("issued new refresh token")
	} else {
		s.logger.Debug().Str("user_id", user.ID).Msg("reusing active refresh token")
	}

	return &ports.TokenResult{
		AccessToken:           access,
		ExpiresOn:             expiresOn,
		Username:              user.Username,
		Email:                 user.Email,
		Roles:                 user.Roles,
		RefreshToken:          refresh.Token,
		RefreshTokenExpiresOn: refresh.ExpiresOn,
	}, nil
}

// Refresh rotates the presented refresh token and mints a new access token.
// Unlike Login, a new refresh token is always generated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenResult, error) {
	userID, err := s.tokens.FindUserIDByToken(ctx, refreshToken)
	if err != nil {
		s.logger.Warn().Msg("refresh failed: token does not resolve to a user")
		return nil, domain.ErrTokenNotFound
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn().Str("user_id", userID).Msg("refresh failed: owning user is gone")
		return nil, domain.ErrUserNotFound
	}

	revoked, err := s.tokens.Revoke(ctx, refreshToken, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	if !revoked {
		s.logger.Warn().Str("user_id", userID).Msg("refresh failed: token revoked or expired")
		return nil, domain.ErrTokenInactive
	}

	next := s.generateRefreshToken(user.ID)
	if err := s.tokens.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	access, expiresOn, err := s.mintAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("session refreshed")

	return &ports.TokenResult{
		AccessToken:           access,
		ExpiresOn:             expiresOn,
		Username:              user.Username,
		Email:                 user.Email,
		Roles:                 user.Roles,
		RefreshToken:          next.Token,
		RefreshTokenExpiresOn: next.ExpiresOn,
	}, nil
}

// Revoke marks a refresh token revoked. The second call on the same token
// returns false.
func (s *AuthService) Revoke(ctx context.Context, token string) (bool, error) {
	revoked, err := s.tokens.Revoke(ctx, token, s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	return revoked, nil
}

func (s *AuthService) mintAccessToken(user *domain.User) (string, time.Time, error) {
	now := s.now().UTC()
	expiresOn := now.Add(s.jwt.Lifetime)

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Username,
		"email": user.Email,
		"roles": user.Roles,
		"iss":   s.jwt.Issuer,
		"aud":   s.jwt.Audience,
		"iat":   now.Unix(),
		"exp":   expiresOn.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwt.SigningKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresOn, nil
}

// generateRefreshToken returns an opaque token built from 256 bits of
// cryptographically secure randomness, valid for 10 days.
func (s *AuthService) generateRefreshToken(userID string) *domain.RefreshToken {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)

	now := s.now().UTC()
	return &domain.RefreshToken{
		UserID:    userID,
		Token:     base64.StdEncoding.EncodeToString(buf),
		ExpiresOn: now.Add(refreshTokenLifetime),
		CreatedOn: now,
	}
}
