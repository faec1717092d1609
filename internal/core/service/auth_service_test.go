package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

type stubUserRepo struct {
	findByEmailFn       func(ctx context.Context, email string) (*domain.User, error)
	findByIDFn          func(ctx context.Context, id string) (*domain.User, error)
	emailExistsFn       func(ctx context.Context, email string) (bool, error)
	usernameExistsFn    func(ctx context.Context, username string) (bool, error)
	updatePasswordFn    func(ctx context.Context, userID, hash string) error
	setActiveFn         func(ctx context.Context, userID string, active bool) error
	doctorIDByUserIDFn  func(ctx context.Context, userID string) (string, error)
	patientIDByUserIDFn func(ctx context.Context, userID string) (string, error)
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findByEmailFn(ctx, email)
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if s.emailExistsFn == nil {
		return false, nil
	}
	return s.emailExistsFn(ctx, email)
}

func (s *stubUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	if s.usernameExistsFn == nil {
		return false, nil
	}
	return s.usernameExistsFn(ctx, username)
}

func (s *stubUserRepo) UpdatePassword(ctx context.Context, userID, hash string) error {
	return s.updatePasswordFn(ctx, userID, hash)
}

func (s *stubUserRepo) SetActive(ctx context.Context, userID string, active bool) error {
	return s.setActiveFn(ctx, userID, active)
}

func (s *stubUserRepo) DoctorIDByUserID(ctx context.Context, userID string) (string, error) {
	return s.doctorIDByUserIDFn(ctx, userID)
}

func (s *stubUserRepo) PatientIDByUserID(ctx context.Context, userID string) (string, error) {
	return s.patientIDByUserIDFn(ctx, userID)
}

type stubTokenRepo struct {
	saveFn             func(ctx context.Context, token *domain.RefreshToken) error
	findActiveFn       func(ctx context.Context, userID string, now time.Time) (*domain.RefreshToken, error)
	findUserIDFn       func(ctx context.Context, token string) (string, error)
	revokeFn           func(ctx context.Context, token string, now time.Time) (bool, error)
}

func (s *stubTokenRepo) Save(ctx context.Context, token *domain.RefreshToken) error {
	return s.saveFn(ctx, token)
}

func (s *stubTokenRepo) FindActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.RefreshToken, error) {
	return s.findActiveFn(ctx, userID, now)
}

func (s *stubTokenRepo) FindUserIDByToken(ctx context.Context, token string) (string, error) {
	return s.findUserIDFn(ctx, token)
}

func (s *stubTokenRepo) Revoke(ctx context.Context, token string, now time.Time) (bool, error) {
	return s.revokeFn(ctx, token, now)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func activeUser(t *testing.T) *domain.User {
	return &domain.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "secret"),
		IsActive:     true,
		Roles:        []string{domain.RolePatient},
	}
}

func newTestAuthService(users ports.UserRepository, tokens ports.TokenRepository) *AuthService {
	return NewAuthService(users, tokens, JWTOptions{
		Issuer:     "test",
		Audience:   "test",
		SigningKey: "test-key",
		Lifetime:   30 * time.Minute,
	}, zerolog.Nop())
}

func TestAuthService_Login_ReusesActiveRefreshToken(t *testing.T) {
	user := activeUser(t)
	existing := &domain.RefreshToken{
		UserID:    user.ID,
		Token:     "existing-token",
		ExpiresOn: time.Now().Add(24 * time.Hour),
	}

	saved := false
	svc := newTestAuthService(
		&stubUserRepo{findByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		}},
		&stubTokenRepo{
			findActiveFn: func(ctx context.Context, userID string, now time.Time) (*domain.RefreshToken, error) {
				return existing, nil
			},
			saveFn: func(ctx context.Context, token *domain.RefreshToken) error {
				saved = true
				return nil
			},
		},
	)

	result, err := svc.Login(context.Background(), user.Email, "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.RefreshToken != "existing-token" {
		t.Fatalf("expected existing token reused, got %q", result.RefreshToken)
	}
	if saved {
		t.Fatalf("should not save a new token when an active one exists")
	}
	if result.AccessToken == "" {
		t.Fatalf("expected an access token")
	}
}

func TestAuthService_Login_GeneratesTokenWhenNoneActive(t *testing.T) {
	user := activeUser(t)

	var savedToken *domain.RefreshToken
	svc := newTestAuthService(
		&stubUserRepo{findByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		}},
		&stubTokenRepo{
			findActiveFn: func(ctx context.Context, userID string, now time.Time) (*domain.RefreshToken, error) {
				return nil, domain.ErrTokenNotFound
			},
			saveFn: func(ctx context.Context, token *domain.RefreshToken) error {
				savedToken = token
				return nil
			},
		},
	)

	result, err := svc.Login(context.Background(), user.Email, "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if savedToken == nil {
		t.Fatalf("expected a new refresh token to be saved")
	}
	if result.RefreshToken != savedToken.Token {
		t.Fatalf("result token %q does not match saved token %q", result.RefreshToken, savedToken.Token)
	}
	wantExpiry := time.Now().Add(10 * 24 * time.Hour)
	if savedToken.ExpiresOn.Before(wantExpiry.Add(-time.Minute)) || savedToken.ExpiresOn.After(wantExpiry.Add(time.Minute)) {
		t.Fatalf("expected 10-day expiry, got %v", savedToken.ExpiresOn)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	user := activeUser(t)
	svc := newTestAuthService(
		&stubUserRepo{findByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		}},
		&stubTokenRepo{},
	)

	_, err := svc.Login(context.Background(), user.Email, "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err.Error() != "Email or Password is incorrect!" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestAuthService_Login_UnknownEmailSameMessage(t *testing.T) {
	svc := newTestAuthService(
		&stubUserRepo{findByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		}},
		&stubTokenRepo{},
	)

	_, err := svc.Login(context.Background(), "nobody@example.com", "secret")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	user := activeUser(t)
	user.IsActive = false
	svc := newTestAuthService(
		&stubUserRepo{findByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		}},
		&stubTokenRepo{},
	)

	_, err := svc.Login(context.Background(), user.Email, "secret")
	if !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
	if err.Error() != "User Is Inactive!" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestAuthService_Login_TokenSaveFailurePropagates(t *testing.T) {
	user := activeUser(t)
	svc := newTestAuthService(
		&stubUserRepo{findByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		}},
		&stubTokenRepo{
			findActiveFn: func(ctx context.Context, userID string, now time.Time) (*domain.RefreshToken, error) {
				return nil, domain.ErrTokenNotFound
			},
			saveFn: func(ctx context.Context, token *domain.RefreshToken) error {
				return errors.New("write failed")
			},
		},
	)

	_, err := svc.Login(context.Background(), user.Email, "secret")
	if err == nil {
		t.Fatalf("expected token-save failure to propagate")
	}
}

func TestAuthService_Refresh_AlwaysRotates(t *testing.T) {
	user := activeUser(t)

	var savedToken *domain.RefreshToken
	revoked := false
	svc := newTestAuthService(
		&stubUserRepo{findByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return user, nil
		}},
		&stubTokenRepo{
			findUserIDFn: func(ctx context.Context, token string) (string, error) {
				return user.ID, nil
			},
			revokeFn: func(ctx context.Context, token string, now time.Time) (bool, error) {
				revoked = true
				return true, nil
			},
			saveFn: func(ctx context.Context, token *domain.RefreshToken) error {
				savedToken = token
				return nil
			},
		},
	)

	result, err := svc.Refresh(context.Background(), "old-token")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if !revoked {
		t.Fatalf("expected the presented token to be revoked")
	}
	if savedToken == nil {
		t.Fatalf("expected a replacement token to be saved")
	}
	if result.RefreshToken == "old-token" {
		t.Fatalf("refresh must rotate the token")
	}
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	user := activeUser(t)
	svc := newTestAuthService(
		&stubUserRepo{findByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return user, nil
		}},
		&stubTokenRepo{
			findUserIDFn: func(ctx context.Context, token string) (string, error) {
				return user.ID, nil
			},
			revokeFn: func(ctx context.Context, token string, now time.Time) (bool, error) {
				return false, nil
			},
		},
	)

	_, err := svc.Refresh(context.Background(), "revoked-token")
	if !errors.Is(err, domain.ErrTokenInactive) {
		t.Fatalf("expected ErrTokenInactive, got %v", err)
	}
	if err.Error() != "Invalid token or Inactive token" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	svc := newTestAuthService(
		&stubUserRepo{},
		&stubTokenRepo{
			findUserIDFn: func(ctx context.Context, token string) (string, error) {
				return "", domain.ErrTokenNotFound
			},
		},
	)

	_, err := svc.Refresh(context.Background(), "never-issued")
	if !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestAuthService_Revoke_SecondCallReturnsFalse(t *testing.T) {
	calls := 0
	svc := newTestAuthService(
		&stubUserRepo{},
		&stubTokenRepo{
			revokeFn: func(ctx context.Context, token string, now time.Time) (bool, error) {
				calls++
				return calls == 1, nil
			},
		},
	)

	first, err := svc.Revoke(context.Background(), "token")
	if err != nil || !first {
		t.Fatalf("first revoke: got (%v, %v), want (true, nil)", first, err)
	}
	second, err := svc.Revoke(context.Background(), "token")
	if err != nil || second {
		t.Fatalf("second revoke: got (%v, %v), want (false, nil)", second, err)
	}
}
