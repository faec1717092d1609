package domain

import (
	"errors"
	"time"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// completed and cancelled are terminal.
var validTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ActorKind identifies which role-context initiated an appointment operation.
// It determines the initial status of a created appointment and which fields
// the actor may set.
type ActorKind string

const (
	ActorAdmin   ActorKind = "admin"
	ActorDoctor  ActorKind = "doctor"
	ActorPatient ActorKind = "patient"
)

// InitialStatus returns the status a newly created appointment starts in.
// Doctor-created bookings are pre-confirmed; everyone else starts pending.
func (a ActorKind) InitialStatus() AppointmentStatus {
	if a == ActorDoctor {
		return StatusConfirmed
	}
	return StatusPending
}

var ErrAppointmentNotFound = errors.New("appointment not found")
var ErrDoctorUnavailable = errors.New("doctor is not available at the requested time")
var ErrAlreadyCompleted = errors.New("appointment is already completed")
var ErrAlreadyCancelled = errors.New("appointment is already cancelled")
var ErrAlreadyConfirmed = errors.New("appointment is already confirmed")
var ErrNotConfirmed = errors.New("appointment must be confirmed before completion")
var ErrCancelReasonRequired = errors.New("cancellation reason is required")

// Appointment is the core scheduling aggregate. At most one Review may
// reference it.
type Appointment struct {
	ID        string            `json:"id"`
	DoctorID  string            `json:"doctor_id"`
	PatientID string            `json:"patient_id"`
	DateTime  time.Time         `json:"date_time"`
	Status    AppointmentStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
}
