package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

const RouteGetAdmin = "get-admin"

// AdminHandler handles HTTP requests for admin accounts.
type AdminHandler struct {
	users ports.UserService
}

func NewAdminHandler(users ports.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// Register creates an admin account.
//
// @Summary      Register an admin
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerAdminRequest  true  "Admin registration"
// @Success      201   {object}  adminResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admins [post]
func (h *AdminHandler) Register(c echo.Context) error {
	var req registerAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	admin, err := h.users.RegisterAdmin(c.Request().Context(), ports.RegisterAdminInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		AccessLevel: req.AccessLevel,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, c.Echo().Reverse(RouteGetAdmin, admin.ID))
	return c.JSON(http.StatusCreated, toAdminResponse(*admin))
}

// Get returns one admin with its account fields.
//
// @Summary      Get an admin
// @Tags         admins
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Admin id"
// @Success      200  {object}  adminResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/admins/{id} [get]
func (h *AdminHandler) Get(c echo.Context) error {
	admin, err := h.users.GetAdmin(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminResponse(*admin))
}

// Update applies a partial update to an admin profile.
//
// @Summary      Update an admin
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Admin id"
// @Param        body  body      updateAdminRequest  true  "Fields to update"
// @Success      200   {object}  adminResponse
// @Failure      404   {object}  map[string]string
// @Router       /api/admins/{id} [put]
func (h *AdminHandler) Update(c echo.Context) error {
	var req updateAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	admin, err := h.users.UpdateAdmin(c.Request().Context(), c.Param("id"), ports.UpdateAdminInput{
		AccessLevel: req.AccessLevel,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminResponse(*admin))
}

// Delete removes an admin profile.
//
// @Summary      Delete an admin
// @Tags         admins
// @Security     BearerAuth
// @Param        id  path  string  true  "Admin id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/admins/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	if err := h.users.DeleteAdmin(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "admin not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns a page of admins. An empty page renders 204.
//
// @Summary      List admins
// @Tags         admins
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number (>=1)"
// @Param        page_size  query     int  false  "Page size (1-100)"
// @Success      200        {object}  pageResponse[adminResponse]
// @Success      204
// @Router       /api/admins [get]
func (h *AdminHandler) List(c echo.Context) error {
	page, err := h.users.ListAdmins(c.Request().Context(), bindPagination(c))
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toAdminResponse))
}
