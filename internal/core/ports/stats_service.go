package ports

import "context"

// StatsService exposes the read-only statistics endpoints.
type StatsService interface {
	AppointmentCountByStatus(ctx context.Context) ([]StatusCount, error)
	DoctorAppointmentStats(ctx context.Context, currentMonthOnly bool) ([]DoctorAppointmentCount, error)
	DoctorsByRatingTier(ctx context.Context) ([]DoctorRatingTier, error)
	PatientCountByAgeGroup(ctx context.Context) ([]AgeGroupCount, error)
}
