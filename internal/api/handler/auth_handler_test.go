package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

type stubAuthService struct {
	loginFn   func(ctx context.Context, email, password string) (*ports.TokenResult, error)
	refreshFn func(ctx context.Context, refreshToken string) (*ports.TokenResult, error)
	revokeFn  func(ctx context.Context, token string) (bool, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.TokenResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenResult, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Revoke(ctx context.Context, token string) (bool, error) {
	return s.revokeFn(ctx, token)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.TokenResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"wrong"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["is_authenticated"] != false {
		t.Fatalf("expected is_authenticated false, got %v", body["is_authenticated"])
	}
	if body["message"] != "Email or Password is incorrect!" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestAuthHandler_Login_SetsRefreshCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.TokenResult, error) {
			return &ports.TokenResult{
				AccessToken:           "access-token",
				ExpiresOn:             time.Now().Add(30 * time.Minute),
				Username:              "alice",
				Email:                 email,
				Roles:                 []string{domain.RolePatient},
				RefreshToken:          "refresh-token",
				RefreshTokenExpiresOn: time.Now().Add(240 * time.Hour),
			}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["is_authenticated"] != true {
		t.Fatalf("expected is_authenticated true, got %v", body["is_authenticated"])
	}
	if body["access_token"] != "access-token" {
		t.Fatalf("unexpected access token: %v", body["access_token"])
	}

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refresh_token" {
			cookie = ck
		}
	}
	if cookie == nil {
		t.Fatalf("refresh_token cookie not set")
	}
	if cookie.Value != "refresh-token" {
		t.Fatalf("unexpected cookie value: %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatalf("refresh cookie must be HttpOnly")
	}
	if cookie.Path != "/api/auth" {
		t.Fatalf("refresh cookie must be scoped to /api/auth, got %q", cookie.Path)
	}
}

func TestAuthHandler_Login_RejectsBadEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.TokenResult, error) {
			t.Fatalf("service must not be reached on a validation failure")
			return nil, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", `{"email":"not-an-email","password":"secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_MissingCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.TokenResult, error) {
			t.Fatalf("service must not be reached without a cookie")
			return nil, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/refresh", "")
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_RotatesCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.TokenResult, error) {
			if refreshToken != "old-token" {
				t.Fatalf("unexpected token %q", refreshToken)
			}
			return &ports.TokenResult{
				AccessToken:           "new-access",
				RefreshToken:          "new-token",
				RefreshTokenExpiresOn: time.Now().Add(240 * time.Hour),
			}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/refresh", "")
	c.Request().AddCookie(&http.Cookie{Name: "refresh_token", Value: "old-token"})

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refresh_token" {
			cookie = ck
		}
	}
	if cookie == nil || cookie.Value != "new-token" {
		t.Fatalf("expected rotated cookie, got %+v", cookie)
	}
}

func TestAuthHandler_Revoke_InactiveToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		revokeFn: func(ctx context.Context, token string) (bool, error) {
			return false, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/revoke", `{"token":"already-revoked"}`)
	if err := h.Revoke(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Invalid token or Inactive token" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	revokedToken := ""
	h := NewAuthHandler(&stubAuthService{
		revokeFn: func(ctx context.Context, token string) (bool, error) {
			revokedToken = token
			return true, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: "refresh_token", Value: "session-token"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if revokedToken != "session-token" {
		t.Fatalf("expected the cookie token to be revoked, got %q", revokedToken)
	}

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refresh_token" {
			cookie = ck
		}
	}
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected an expired refresh cookie, got %+v", cookie)
	}
}
