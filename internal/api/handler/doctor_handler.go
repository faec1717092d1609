package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// RouteGetDoctor names the get-by-id route so Register can build a Location
// header from it.
const RouteGetDoctor = "get-doctor"

// DoctorHandler handles HTTP requests for doctor accounts.
type DoctorHandler struct {
	users ports.UserService
}

func NewDoctorHandler(users ports.UserService) *DoctorHandler {
	return &DoctorHandler{users: users}
}

// Register creates a doctor account.
//
// @Summary      Register a doctor
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerDoctorRequest  true  "Doctor registration"
// @Success      201   {object}  doctorResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/doctors [post]
func (h *DoctorHandler) Register(c echo.Context) error {
	var req registerDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doctor, err := h.users.RegisterDoctor(c.Request().Context(), ports.RegisterDoctorInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, c.Echo().Reverse(RouteGetDoctor, doctor.ID))
	return c.JSON(http.StatusCreated, toDoctorResponse(*doctor))
}

// Get returns one doctor with its account fields.
//
// @Summary      Get a doctor
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Doctor id"
// @Success      200  {object}  doctorResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/doctors/{id} [get]
func (h *DoctorHandler) Get(c echo.Context) error {
	doctor, err := h.users.GetDoctor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDoctorResponse(*doctor))
}

// Update applies a partial update to a doctor profile.
//
// @Summary      Update a doctor
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Doctor id"
// @Param        body  body      updateDoctorRequest  true  "Fields to update"
// @Success      200   {object}  doctorResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/doctors/{id} [put]
func (h *DoctorHandler) Update(c echo.Context) error {
	var req updateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	doctor, err := h.users.UpdateDoctor(c.Request().Context(), c.Param("id"), ports.UpdateDoctorInput{
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDoctorResponse(*doctor))
}

// Delete removes a doctor profile.
//
// @Summary      Delete a doctor
// @Tags         doctors
// @Security     BearerAuth
// @Param        id  path  string  true  "Doctor id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/doctors/{id} [delete]
func (h *DoctorHandler) Delete(c echo.Context) error {
	if err := h.users.DeleteDoctor(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAvailable returns the doctors open for booking, i.e. those whose user
// account is active.
//
// @Summary      List doctors available for booking
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  doctorResponse
// @Success      204
// @Router       /api/doctors/available [get]
func (h *DoctorHandler) ListAvailable(c echo.Context) error {
	doctors, err := h.users.ListActiveDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	if len(doctors) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	out := make([]doctorResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, toDoctorResponse(d))
	}
	return c.JSON(http.StatusOK, out)
}

// List returns a page of doctors. An empty page renders 204.
//
// @Summary      List doctors
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number (>=1)"
// @Param        page_size  query     int  false  "Page size (1-100)"
// @Success      200        {object}  pageResponse[doctorResponse]
// @Success      204
// @Router       /api/doctors [get]
func (h *DoctorHandler) List(c echo.Context) error {
	page, err := h.users.ListDoctors(c.Request().Context(), bindPagination(c))
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toDoctorResponse))
}
