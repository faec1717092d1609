package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// StatsHandler exposes the read-only reporting endpoints.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// AppointmentsByStatus returns appointment counts grouped by status.
//
// @Summary      Appointment counts by status
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.StatusCount
// @Router       /api/stats/appointments/by-status [get]
func (h *StatsHandler) AppointmentsByStatus(c echo.Context) error {
	out, err := h.service.AppointmentCountByStatus(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// AppointmentsByDoctor returns per-doctor appointment counts. Pass
// current_month=true to restrict to the current calendar month.
//
// @Summary      Appointment counts by doctor
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        current_month  query  boolean  false  "Restrict to the current month"
// @Success      200  {array}  ports.DoctorAppointmentCount
// @Router       /api/stats/appointments/by-doctor [get]
func (h *StatsHandler) AppointmentsByDoctor(c echo.Context) error {
	currentMonth, _ := strconv.ParseBool(c.QueryParam("current_month"))
	out, err := h.service.DoctorAppointmentStats(c.Request().Context(), currentMonth)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// DoctorsByRating returns doctors ranked into rating tiers.
//
// @Summary      Doctors by rating tier
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.DoctorRatingTier
// @Router       /api/stats/doctors/by-rating [get]
func (h *StatsHandler) DoctorsByRating(c echo.Context) error {
	out, err := h.service.DoctorsByRatingTier(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// PatientsByAgeGroup returns patient counts per age bracket.
//
// @Summary      Patients by age group
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.AgeGroupCount
// @Router       /api/stats/patients/by-age-group [get]
func (h *StatsHandler) PatientsByAgeGroup(c echo.Context) error {
	out, err := h.service.PatientCountByAgeGroup(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
