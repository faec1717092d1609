package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/api/metrics"
	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

const refreshCookieName = "refresh_token"

// refreshCookiePath scopes the cookie so it is only sent to auth endpoints.
const refreshCookiePath = "/api/auth"

// AuthHandler handles login, refresh, revoke and logout.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type revokeRequest struct {
	Token string `json:"token" validate:"required"`
}

type authResponse struct {
	IsAuthenticated bool      `json:"is_authenticated"`
	Message         string    `json:"message,omitempty"`
	AccessToken     string    `json:"access_token,omitempty"`
	ExpiresOn       time.Time `json:"expires_on,omitempty"`
	Username        string    `json:"username,omitempty"`
	Email           string    `json:"email,omitempty"`
	Roles           []string  `json:"roles,omitempty"`
}

// Login authenticates a user, returns an access token, and sets the refresh
// token cookie.
//
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{Message: err.Error()})
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return c.JSON(http.StatusBadRequest, authResponse{Message: err.Error()})
		case errors.Is(err, domain.ErrUserInactive):
			metrics.LoginsTotal.WithLabelValues("inactive").Inc()
			return c.JSON(http.StatusBadRequest, authResponse{Message: err.Error()})
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	setRefreshCookie(c, result.RefreshToken, result.RefreshTokenExpiresOn)
	return c.JSON(http.StatusOK, tokenResponse(result))
}

// Refresh exchanges the refresh-token cookie for a new access token and
// rotates the cookie.
//
// @Summary      Refresh the session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      400  {object}  authResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid_token").Inc()
		return c.JSON(http.StatusBadRequest, authResponse{Message: domain.ErrTokenNotFound.Error()})
	}

	result, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenNotFound),
			errors.Is(err, domain.ErrUserNotFound),
			errors.Is(err, domain.ErrTokenInactive):
			metrics.TokenRefreshesTotal.WithLabelValues("invalid_token").Inc()
			return c.JSON(http.StatusBadRequest, authResponse{Message: err.Error()})
		}
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	setRefreshCookie(c, result.RefreshToken, result.RefreshTokenExpiresOn)
	return c.JSON(http.StatusOK, tokenResponse(result))
}

// Revoke invalidates a refresh token passed in the body.
//
// @Summary      Revoke a refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      revokeRequest  true  "Token to revoke"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  authResponse
// @Router       /api/auth/revoke [post]
func (h *AuthHandler) Revoke(c echo.Context) error {
	var req revokeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{Message: err.Error()})
	}

	revoked, err := h.authService.Revoke(c.Request().Context(), req.Token)
	if err != nil {
		return err
	}
	if !revoked {
		return c.JSON(http.StatusBadRequest, authResponse{Message: domain.ErrTokenInactive.Error()})
	}
	return c.JSON(http.StatusOK, map[string]bool{"revoked": true})
}

// Logout revokes the cookie's refresh token and deletes the cookie. The
// revoke result is ignored; logout always succeeds for the client.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		_, _ = h.authService.Revoke(c.Request().Context(), cookie.Value)
	}
	clearRefreshCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

func tokenResponse(r *ports.TokenResult) authResponse {
	return authResponse{
		IsAuthenticated: true,
		AccessToken:     r.AccessToken,
		ExpiresOn:       r.ExpiresOn,
		Username:        r.Username,
		Email:           r.Email,
		Roles:           r.Roles,
	}
}

func setRefreshCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
