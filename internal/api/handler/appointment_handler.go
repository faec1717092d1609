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

const RouteGetAppointment = "get-appointment"

// AppointmentHandler handles the appointment booking and lifecycle endpoints.
// Create and Update are parameterized by the acting role; the lifecycle
// transitions are role-agnostic.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// createAppointmentRequest carries a booking. DoctorID and PatientID are
// optional at the schema level because the acting profile supplies its own
// side; the service resolves and validates ownership.
type createAppointmentRequest struct {
	DoctorID  string    `json:"doctor_id"`
	PatientID string    `json:"patient_id"`
	DateTime  time.Time `json:"date_time" validate:"required,gt"`
	Notes     string    `json:"notes,omitempty" validate:"max=1000"`
}

type updateAppointmentRequest struct {
	DoctorID  string    `json:"doctor_id"`
	PatientID string    `json:"patient_id"`
	DateTime  time.Time `json:"date_time" validate:"required,gt"`
	Notes     string    `json:"notes,omitempty" validate:"max=1000"`
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type appointmentResponse struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctor_id"`
	PatientID string    `json:"patient_id"`
	DateTime  time.Time `json:"date_time"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
}

func toAppointmentResponse(a *domain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		PatientID: a.PatientID,
		DateTime:  a.DateTime,
		Status:    string(a.Status),
		Notes:     a.Notes,
	}
}

// Create returns the booking handler for one actor kind.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppointmentRequest  true  "Booking details"
// @Success      201   {object}  appointmentResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/appointments/{actor} [post]
func (h *AppointmentHandler) Create(kind domain.ActorKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := ctxUserID(c)
		if err != nil {
			return err
		}

		var req createAppointmentRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		created, err := h.service.Create(c.Request().Context(),
			ports.AppointmentActor{Kind: kind, UserID: userID},
			ports.CreateAppointmentInput{
				DoctorID:  req.DoctorID,
				PatientID: req.PatientID,
				DateTime:  req.DateTime,
				Notes:     req.Notes,
			})
		if err != nil {
			return err
		}

		metrics.AppointmentsCreatedTotal.WithLabelValues(string(kind)).Inc()
		c.Response().Header().Set(echo.HeaderLocation, c.Echo().Reverse(RouteGetAppointment, created.ID))
		return c.JSON(http.StatusCreated, toAppointmentResponse(created))
	}
}

// Update returns the rebooking handler for one actor kind. Status is never
// changed through this path.
//
// @Summary      Update an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Appointment id"
// @Param        body  body      updateAppointmentRequest  true  "New booking details"
// @Success      200   {object}  appointmentResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/appointments/{actor}/{id} [put]
func (h *AppointmentHandler) Update(kind domain.ActorKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := ctxUserID(c)
		if err != nil {
			return err
		}

		var req updateAppointmentRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		updated, err := h.service.Update(c.Request().Context(),
			ports.AppointmentActor{Kind: kind, UserID: userID},
			c.Param("id"),
			ports.UpdateAppointmentInput{
				DoctorID:  req.DoctorID,
				PatientID: req.PatientID,
				DateTime:  req.DateTime,
				Notes:     req.Notes,
			})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toAppointmentResponse(updated))
	}
}

// Get returns one appointment.
//
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  appointmentResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	appointment, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(appointment))
}

// Confirm moves a pending appointment to confirmed.
//
// @Summary      Confirm an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/appointments/{id}/confirm [post]
func (h *AppointmentHandler) Confirm(c echo.Context) error {
	return h.transition(c, "confirm", func(ctx echo.Context) error {
		return h.service.Confirm(ctx.Request().Context(), ctx.Param("id"))
	})
}

// Cancel moves a pending or confirmed appointment to cancelled.
//
// @Summary      Cancel an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Appointment id"
// @Param        body  body      cancelAppointmentRequest  true  "Cancellation reason"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	var req cancelAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.transition(c, "cancel", func(ctx echo.Context) error {
		return h.service.Cancel(ctx.Request().Context(), ctx.Param("id"), req.Reason)
	})
}

// Complete moves a confirmed appointment to completed.
//
// @Summary      Complete an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/appointments/{id}/complete [post]
func (h *AppointmentHandler) Complete(c echo.Context) error {
	return h.transition(c, "complete", func(ctx echo.Context) error {
		return h.service.Complete(ctx.Request().Context(), ctx.Param("id"))
	})
}

func (h *AppointmentHandler) transition(c echo.Context, action string, op func(echo.Context) error) error {
	if err := op(c); err != nil {
		if isLifecycleRejection(err) {
			metrics.AppointmentTransitionsTotal.WithLabelValues(action, "rejected").Inc()
		}
		return err
	}
	metrics.AppointmentTransitionsTotal.WithLabelValues(action, "success").Inc()
	return c.JSON(http.StatusOK, map[string]string{"status": action + "ed"})
}

func isLifecycleRejection(err error) bool {
	return errors.Is(err, domain.ErrAlreadyCompleted) ||
		errors.Is(err, domain.ErrAlreadyCancelled) ||
		errors.Is(err, domain.ErrAlreadyConfirmed) ||
		errors.Is(err, domain.ErrNotConfirmed) ||
		errors.Is(err, domain.ErrCancelReasonRequired)
}

// ListMine returns the appointments of the acting doctor or patient.
//
// @Summary      List own appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  appointmentResponse
// @Success      204
// @Router       /api/appointments/{actor} [get]
func (h *AppointmentHandler) ListMine(kind domain.ActorKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := ctxUserID(c)
		if err != nil {
			return err
		}

		var items []*domain.Appointment
		if kind == domain.ActorDoctor {
			items, err = h.service.ListForDoctorUser(c.Request().Context(), userID)
		} else {
			items, err = h.service.ListForPatientUser(c.Request().Context(), userID)
		}
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return c.NoContent(http.StatusNoContent)
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		return c.JSON(http.StatusOK, out)
	}
}

// List returns a page of all appointments (admin view).
//
// @Summary      List all appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number (>=1)"
// @Param        page_size  query     int  false  "Page size (1-100)"
// @Success      200        {object}  pageResponse[appointmentResponse]
// @Success      204
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), bindPagination(c))
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toAppointmentResponse))
}

// Delete removes an appointment.
//
// @Summary      Delete an appointment
// @Tags         appointments
// @Security     BearerAuth
// @Param        id  path  string  true  "Appointment id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Availability reports whether a doctor is free at the given time.
//
// @Summary      Check doctor availability
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        doctor_id  query     string  true  "Doctor id"
// @Param        date_time  query     string  true  "RFC 3339 timestamp"
// @Success      200        {object}  map[string]bool
// @Failure      400        {object}  map[string]string
// @Router       /api/appointments/availability [get]
func (h *AppointmentHandler) Availability(c echo.Context) error {
	doctorID := c.QueryParam("doctor_id")
	if doctorID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "doctor_id is required")
	}
	at, err := time.Parse(time.RFC3339, c.QueryParam("date_time"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date_time must be RFC 3339")
	}

	available, err := h.service.IsDoctorAvailable(c.Request().Context(), doctorID, at)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"available": available})
}
