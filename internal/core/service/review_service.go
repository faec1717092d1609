package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// ReviewService gates review creation on appointment completion and ownership.
type ReviewService struct {
	reviews      ports.ReviewRepository
	appointments ports.AppointmentRepository
	users        ports.UserRepository
	now          func() time.Time
	logger       zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, appointments ports.AppointmentRepository, users ports.UserRepository, logger zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviews:      reviews,
		appointments: appointments,
		users:        users,
		now:          time.Now,
		logger:       logger,
	}
}

// CanReview is true iff an appointment exists with this id, this patient, and
// status completed.
func (s *ReviewService) CanReview(ctx context.Context, patientID, appointmentID string) (bool, error) {
	return s.reviews.CanPatientReview(ctx, patientID, appointmentID)
}

// AddForUser creates a review for the patient profile owned by userID. The
// gate is re-checked and the doctor id is denormalized from the appointment.
// The appointment fetch after the gate check can still miss if the
// appointment vanished in between; that branch surfaces as
// domain.ErrAppointmentNotFound.
func (s *ReviewService) AddForUser(ctx context.Context, userID string, in ports.CreateReviewInput) (*domain.Review, error) {
	patientID, err := s.users.PatientIDByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn().Str("user_id", userID).Msg("no patient profile for reviewing user")
		return nil, domain.ErrProfileNotFound
	}

	eligible, err := s.CanReview(ctx, patientID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		s.logger.Warn().
			Str("patient_id", patientID).
			Str("appointment_id", in.AppointmentID).
			Msg("review rejected by eligibility gate")
		return nil, domain.ErrNotEligible
	}

	appointment, err := s.appointments.GetByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}

	exists, err := s.reviews.HasReviewForAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrReviewExists
	}

	review := &domain.Review{
		AppointmentID: in.AppointmentID,
		PatientID:     patientID,
		DoctorID:      appointment.DoctorID,
		Rating:        in.Rating,
		Text:          strings.TrimSpace(in.Comment),
		Date:          s.now().UTC(),
	}

	created, err := s.reviews.Add(ctx, review)
	if err != nil {
		s.logger.Error().Err(err).Str("appointment_id", in.AppointmentID).Msg("failed to save review")
		return nil, err
	}

	s.logger.Info().
		Str("review_id", created.ID).
		Str("appointment_id", in.AppointmentID).
		Str("patient_id", patientID).
		Msg("review created")

	return created, nil
}

// Update overwrites rating and comment and stamps LastModifiedDate. It does
// not re-check completion or ownership; access control for this operation is
// the outer role filter only.
func (s *ReviewService) Update(ctx context.Context, reviewID string, in ports.UpdateReviewInput) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	modified := s.now().UTC()
	review.Rating = in.Rating
	review.Text = strings.TrimSpace(in.Comment)
	review.LastModifiedDate = &modified

	if err := s.reviews.Update(ctx, review); err != nil {
		s.logger.Error().Err(err).Str("review_id", reviewID).Msg("failed to update review")
		return nil, err
	}

	s.logger.Info().Str("review_id", reviewID).Msg("review updated")
	return review, nil
}

func (s *ReviewService) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

func (s *ReviewService) ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Review, error) {
	return s.reviews.ListByDoctor(ctx, doctorID)
}

func (s *ReviewService) ListForPatientUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	patientID, err := s.users.PatientIDByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return s.reviews.ListByPatient(ctx, patientID)
}

func (s *ReviewService) Filter(ctx context.Context, f ports.ReviewFilter) ([]*domain.Review, error) {
	return s.reviews.Filter(ctx, f)
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	deleted, err := s.reviews.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrReviewNotFound
	}
	s.logger.Info().Str("review_id", id).Msg("review deleted")
	return nil
}

// DoctorAverageRating returns 0 for a doctor with no reviews.
func (s *ReviewService) DoctorAverageRating(ctx context.Context, doctorID string) (float64, error) {
	return s.reviews.AverageRatingForDoctor(ctx, doctorID)
}
