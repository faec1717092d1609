package ports

import (
	"context"
	"time"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
)

// AppointmentActor identifies who initiates an appointment operation. For
// doctor and patient actors the acting profile is resolved from UserID before
// any lifecycle check; admins act on behalf of both sides.
type AppointmentActor struct {
	Kind   domain.ActorKind
	UserID string
}

// CreateAppointmentInput carries the fields an actor may set when booking.
// Doctor actors have DoctorID derived from their own profile; patient actors
// have PatientID derived likewise.
type CreateAppointmentInput struct {
	DoctorID  string
	PatientID string
	DateTime  time.Time
	Notes     string
}

// UpdateAppointmentInput overwrites appointment fields; status is never
// touched by an update.
type UpdateAppointmentInput struct {
	DoctorID  string
	PatientID string
	DateTime  time.Time
	Notes     string
}

// AppointmentService enforces the appointment state machine and the
// double-booking rule.
type AppointmentService interface {
	Create(ctx context.Context, actor AppointmentActor, in CreateAppointmentInput) (*domain.Appointment, error)
	Update(ctx context.Context, actor AppointmentActor, id string, in UpdateAppointmentInput) (*domain.Appointment, error)
	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id, reason string) error
	Complete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	// ListForDoctorUser lists appointments of the doctor profile owned by the
	// given user; ListForPatientUser is the patient-side equivalent.
	ListForDoctorUser(ctx context.Context, userID string) ([]*domain.Appointment, error)
	ListForPatientUser(ctx context.Context, userID string) ([]*domain.Appointment, error)
	List(ctx context.Context, p Pagination) (*Page[*domain.Appointment], error)
	Delete(ctx context.Context, id string) error
	// IsDoctorAvailable exposes the double-booking check for slot lookups.
	IsDoctorAvailable(ctx context.Context, doctorID string, at time.Time) (bool, error)
}
