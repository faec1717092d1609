package ports

import (
	"context"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
)

// CreateReviewInput carries a patient's review submission.
type CreateReviewInput struct {
	AppointmentID string
	Rating        float64
	Comment       string
}

// UpdateReviewInput overwrites rating and comment on an existing review.
type UpdateReviewInput struct {
	Rating  float64
	Comment string
}

// ReviewService gates review creation on appointment completion and ownership.
type ReviewService interface {
	// CanReview is true iff an appointment exists with this id, this patient,
	// and status completed.
	CanReview(ctx context.Context, patientID, appointmentID string) (bool, error)
	// AddForUser resolves the patient profile from userID, re-checks the
	// eligibility gate, and denormalizes the doctor id from the appointment.
	AddForUser(ctx context.Context, userID string, in CreateReviewInput) (*domain.Review, error)
	Update(ctx context.Context, reviewID string, in UpdateReviewInput) (*domain.Review, error)
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Review, error)
	ListForPatientUser(ctx context.Context, userID string) ([]*domain.Review, error)
	Filter(ctx context.Context, f ReviewFilter) ([]*domain.Review, error)
	Delete(ctx context.Context, id string) error
	// DoctorAverageRating returns the arithmetic mean of the doctor's ratings,
	// 0 when the doctor has no reviews.
	DoctorAverageRating(ctx context.Context, doctorID string) (float64, error)
}
