package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

const RouteGetPatient = "get-patient"

// PatientHandler handles HTTP requests for patient accounts.
type PatientHandler struct {
	users ports.UserService
}

func NewPatientHandler(users ports.UserService) *PatientHandler {
	return &PatientHandler{users: users}
}

// Register creates a patient account.
//
// @Summary      Register a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        body  body      registerPatientRequest  true  "Patient registration"
// @Success      201   {object}  patientResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/patients [post]
func (h *PatientHandler) Register(c echo.Context) error {
	var req registerPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patient, err := h.users.RegisterPatient(c.Request().Context(), ports.RegisterPatientInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		DateOfBirth:     req.DateOfBirth,
		InsuranceNumber: req.InsuranceNumber,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, c.Echo().Reverse(RouteGetPatient, patient.ID))
	return c.JSON(http.StatusCreated, toPatientResponse(*patient))
}

// Get returns one patient with its account fields.
//
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  patientResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/patients/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	patient, err := h.users.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPatientResponse(*patient))
}

// Update applies a partial update to a patient profile.
//
// @Summary      Update a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Patient id"
// @Param        body  body      updatePatientRequest  true  "Fields to update"
// @Success      200   {object}  patientResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/patients/{id} [put]
func (h *PatientHandler) Update(c echo.Context) error {
	var req updatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	patient, err := h.users.UpdatePatient(c.Request().Context(), c.Param("id"), ports.UpdatePatientInput{
		DateOfBirth:     req.DateOfBirth,
		InsuranceNumber: req.InsuranceNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPatientResponse(*patient))
}

// Delete removes a patient profile.
//
// @Summary      Delete a patient
// @Tags         patients
// @Security     BearerAuth
// @Param        id  path  string  true  "Patient id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/patients/{id} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	if err := h.users.DeletePatient(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAvailable returns the patients open for booking, i.e. those whose user
// account is active.
//
// @Summary      List patients available for booking
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  patientResponse
// @Success      204
// @Router       /api/patients/available [get]
func (h *PatientHandler) ListAvailable(c echo.Context) error {
	patients, err := h.users.ListActivePatients(c.Request().Context())
	if err != nil {
		return err
	}
	if len(patients) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	out := make([]patientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, toPatientResponse(p))
	}
	return c.JSON(http.StatusOK, out)
}

// List returns a page of patients. An empty page renders 204.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number (>=1)"
// @Param        page_size  query     int  false  "Page size (1-100)"
// @Success      200        {object}  pageResponse[patientResponse]
// @Success      204
// @Router       /api/patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	page, err := h.users.ListPatients(c.Request().Context(), bindPagination(c))
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toPatientResponse))
}
