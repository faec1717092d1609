package domain

import (
	"errors"
	"time"
)

var ErrReviewNotFound = errors.New("review not found")
var ErrReviewExists = errors.New("appointment already has a review")

// ErrNotEligible carries the client-facing wording of the eligibility gate.
var ErrNotEligible = errors.New("you cannot review this appointment: either the appointment isn't completed or doesn't belong to you")

// Review is a patient's rating of a doctor, tied 1:1 to a completed
// appointment. DoctorID is denormalized from the appointment at creation and
// must match it.
type Review struct {
	ID               string     `json:"id"`
	AppointmentID    string     `json:"appointment_id"`
	PatientID        string     `json:"patient_id"`
	DoctorID         string     `json:"doctor_id"`
	Rating           float64    `json:"rating"`
	Text             string     `json:"text,omitempty"`
	Date             time.Time  `json:"date"`
	LastModifiedDate *time.Time `json:"last_modified_date,omitempty"`
}
