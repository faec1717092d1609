package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// AccountHandler covers self-service account operations plus admin
// deactivation.
type AccountHandler struct {
	users ports.UserService
}

func NewAccountHandler(users ports.UserService) *AccountHandler {
	return &AccountHandler{users: users}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword updates the caller's own password after verifying the
// current one.
//
// @Summary      Change own password
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Password change"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/account/password [put]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.users.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "password changed"})
}

// Deactivate disables a user account without deleting it.
//
// @Summary      Deactivate a user
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id}/deactivate [post]
func (h *AccountHandler) Deactivate(c echo.Context) error {
	if err := h.users.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deactivated"})
}
