package ports

import (
	"context"
	"time"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
)

// ReviewFilter carries the optional criteria for the filtered review listing.
// Zero values mean "no filter" for that field.
type ReviewFilter struct {
	DoctorID  string
	PatientID string
	MinRating float64
	MaxRating float64
	Date      time.Time // matches reviews created on this calendar day
	SortBy    string    // "rating", "date" (default)
}

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Add(ctx context.Context, r *domain.Review) (*domain.Review, error)
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	Update(ctx context.Context, r *domain.Review) error
	Delete(ctx context.Context, id string) (bool, error)
	// CanPatientReview reports whether an appointment exists with this id,
	// this patient, and status completed.
	CanPatientReview(ctx context.Context, patientID, appointmentID string) (bool, error)
	HasReviewForAppointment(ctx context.Context, appointmentID string) (bool, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Review, error)
	ListByPatient(ctx context.Context, patientID string) ([]*domain.Review, error)
	Filter(ctx context.Context, f ReviewFilter) ([]*domain.Review, error)
	// AverageRatingForDoctor returns 0 when the doctor has no reviews.
	AverageRatingForDoctor(ctx context.Context, doctorID string) (float64, error)
}
