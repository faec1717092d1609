package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

type stubAppointmentService struct {
	createFn             func(ctx context.Context, actor ports.AppointmentActor, in ports.CreateAppointmentInput) (*domain.Appointment, error)
	updateFn             func(ctx context.Context, actor ports.AppointmentActor, id string, in ports.UpdateAppointmentInput) (*domain.Appointment, error)
	confirmFn            func(ctx context.Context, id string) error
	cancelFn             func(ctx context.Context, id, reason string) error
	completeFn           func(ctx context.Context, id string) error
	getByIDFn            func(ctx context.Context, id string) (*domain.Appointment, error)
	listForDoctorUserFn  func(ctx context.Context, userID string) ([]*domain.Appointment, error)
	listForPatientUserFn func(ctx context.Context, userID string) ([]*domain.Appointment, error)
	listFn               func(ctx context.Context, p ports.Pagination) (*ports.Page[*domain.Appointment], error)
	deleteFn             func(ctx context.Context, id string) error
	isAvailableFn        func(ctx context.Context, doctorID string, at time.Time) (bool, error)
}

func (s *stubAppointmentService) Create(ctx context.Context, actor ports.AppointmentActor, in ports.CreateAppointmentInput) (*domain.Appointment, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubAppointmentService) Update(ctx context.Context, actor ports.AppointmentActor, id string, in ports.UpdateAppointmentInput) (*domain.Appointment, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubAppointmentService) Confirm(ctx context.Context, id string) error {
	return s.confirmFn(ctx, id)
}

func (s *stubAppointmentService) Cancel(ctx context.Context, id, reason string) error {
	return s.cancelFn(ctx, id, reason)
}

func (s *stubAppointmentService) Complete(ctx context.Context, id string) error {
	return s.completeFn(ctx, id)
}

func (s *stubAppointmentService) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubAppointmentService) ListForDoctorUser(ctx context.Context, userID string) ([]*domain.Appointment, error) {
	return s.listForDoctorUserFn(ctx, userID)
}

func (s *stubAppointmentService) ListForPatientUser(ctx context.Context, userID string) ([]*domain.Appointment, error) {
	return s.listForPatientUserFn(ctx, userID)
}

func (s *stubAppointmentService) List(ctx context.Context, p ports.Pagination) (*ports.Page[*domain.Appointment], error) {
	return s.listFn(ctx, p)
}

func (s *stubAppointmentService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubAppointmentService) IsDoctorAvailable(ctx context.Context, doctorID string, at time.Time) (bool, error) {
	return s.isAvailableFn(ctx, doctorID, at)
}

func TestAppointmentHandler_Create_RejectsPastDate(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentService{
		createFn: func(ctx context.Context, actor ports.AppointmentActor, in ports.CreateAppointmentInput) (*domain.Appointment, error) {
			t.Fatalf("service must not be reached for a past booking")
			return nil, nil
		},
	})

	past := time.Now().Add(-time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{"doctor_id":"doctor-1","patient_id":"patient-1","date_time":%q}`, past)
	c, _ := newTestContext(t, http.MethodPost, "/api/appointments/admin", body)
	c.Set("user_id", "user-1")

	err := h.Create(domain.ActorAdmin)(c)
	if err == nil {
		t.Fatalf("expected a validation error")
	}
	if he, ok := err.(*echo.HTTPError); ok && he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", he.Code)
	}
}

func TestAppointmentHandler_Create_RequiresAuthClaims(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentService{})

	future := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{"doctor_id":"doctor-1","patient_id":"patient-1","date_time":%q}`, future)
	c, _ := newTestContext(t, http.MethodPost, "/api/appointments/patient", body)

	err := h.Create(domain.ActorPatient)(c)
	if err == nil {
		t.Fatalf("expected an error without auth claims")
	}
	if he, ok := err.(*echo.HTTPError); ok && he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
}

func TestAppointmentHandler_Create_PassesActor(t *testing.T) {
	var gotActor ports.AppointmentActor
	h := NewAppointmentHandler(&stubAppointmentService{
		createFn: func(ctx context.Context, actor ports.AppointmentActor, in ports.CreateAppointmentInput) (*domain.Appointment, error) {
			gotActor = actor
			return &domain.Appointment{
				ID:        "appointment-1",
				DoctorID:  in.DoctorID,
				PatientID: "patient-1",
				DateTime:  in.DateTime,
				Status:    domain.StatusPending,
			}, nil
		},
	})

	future := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{"doctor_id":"doctor-1","date_time":%q}`, future)
	c, rec := newTestContext(t, http.MethodPost, "/api/appointments/patient", body)
	c.Set("user_id", "user-7")

	if err := h.Create(domain.ActorPatient)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if gotActor.Kind != domain.ActorPatient || gotActor.UserID != "user-7" {
		t.Fatalf("unexpected actor: %+v", gotActor)
	}
}

func TestAppointmentHandler_Create_SetsLocation(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentService{
		createFn: func(ctx context.Context, actor ports.AppointmentActor, in ports.CreateAppointmentInput) (*domain.Appointment, error) {
			return &domain.Appointment{
				ID:        "appointment-9",
				DoctorID:  in.DoctorID,
				PatientID: in.PatientID,
				DateTime:  in.DateTime,
				Status:    domain.StatusPending,
			}, nil
		},
	})

	future := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{"doctor_id":"doctor-1","patient_id":"patient-1","date_time":%q}`, future)
	c, rec := newTestContext(t, http.MethodPost, "/api/appointments/admin", body)
	c.Set("user_id", "user-1")
	c.Echo().GET("/api/appointments/:id", h.Get).Name = RouteGetAppointment

	if err := h.Create(domain.ActorAdmin)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != "/api/appointments/appointment-9" {
		t.Fatalf("Location = %q", got)
	}
}

func TestAppointmentHandler_Cancel_RequiresReason(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentService{
		cancelFn: func(ctx context.Context, id, reason string) error {
			t.Fatalf("service must not be reached without a reason")
			return nil
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/api/appointments/appointment-1/cancel", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("appointment-1")

	err := h.Cancel(c)
	if err == nil {
		t.Fatalf("expected a validation error")
	}
}

func TestAppointmentHandler_Confirm_Success(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentService{
		confirmFn: func(ctx context.Context, id string) error {
			if id != "appointment-1" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/appointments/appointment-1/confirm", "")
	c.SetParamNames("id")
	c.SetParamValues("appointment-1")

	if err := h.Confirm(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "confirmed" {
		t.Fatalf("unexpected status: %v", body["status"])
	}
}

func TestAppointmentHandler_ListMine_EmptyIsNoContent(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentService{
		listForPatientUserFn: func(ctx context.Context, userID string) ([]*domain.Appointment, error) {
			return nil, nil
		},
	})

	c, rec := newTestContext(t, http.MethodGet, "/api/appointments/patient", "")
	c.Set("user_id", "user-1")

	if err := h.ListMine(domain.ActorPatient)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAppointmentHandler_Availability_BadTimestamp(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentService{
		isAvailableFn: func(ctx context.Context, doctorID string, at time.Time) (bool, error) {
			t.Fatalf("service must not be reached with a bad timestamp")
			return false, nil
		},
	})

	c, _ := newTestContext(t, http.MethodGet, "/api/appointments/availability?doctor_id=doctor-1&date_time=tomorrow", "")

	if err := h.Availability(c); err == nil {
		t.Fatalf("expected an error for a malformed timestamp")
	}
}

func TestAppointmentHandler_Availability_OK(t *testing.T) {
	at := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	h := NewAppointmentHandler(&stubAppointmentService{
		isAvailableFn: func(ctx context.Context, doctorID string, got time.Time) (bool, error) {
			if doctorID != "doctor-1" || !got.Equal(at) {
				t.Fatalf("unexpected lookup: %s at %v", doctorID, got)
			}
			return true, nil
		},
	})

	target := "/api/appointments/availability?doctor_id=doctor-1&date_time=" + at.Format(time.RFC3339)
	c, rec := newTestContext(t, http.MethodGet, target, "")

	if err := h.Availability(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	body := decodeBody(t, rec)
	if body["available"] != true {
		t.Fatalf("expected available true, got %v", body["available"])
	}
}
