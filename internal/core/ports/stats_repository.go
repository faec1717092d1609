package ports

import "context"

// StatusCount is an appointment count grouped by status.
type StatusCount struct {
	Status string `json:"status" bson:"_id"`
	Count  int64  `json:"count" bson:"count"`
}

// DoctorAppointmentCount is an appointment count grouped by doctor and status.
type DoctorAppointmentCount struct {
	DoctorID string `json:"doctor_id" bson:"doctor_id"`
	Username string `json:"username" bson:"username"`
	Status   string `json:"status" bson:"status"`
	Count    int64  `json:"count" bson:"count"`
}

// DoctorRatingTier ranks a doctor by average review rating.
type DoctorRatingTier struct {
	DoctorID      string  `json:"doctor_id" bson:"doctor_id"`
	Username      string  `json:"username" bson:"username"`
	AverageRating float64 `json:"average_rating" bson:"average_rating"`
	Tier          string  `json:"tier" bson:"tier"`
}

// AgeGroupCount is a patient count per age bracket.
type AgeGroupCount struct {
	AgeGroup string `json:"age_group" bson:"_id"`
	Count    int64  `json:"count" bson:"count"`
}

// StatsRepository exposes the read-only reporting queries.
// Implementations log failures and return empty results instead of errors.
type StatsRepository interface {
	AppointmentCountByStatus(ctx context.Context) ([]StatusCount, error)
	DoctorAppointmentStats(ctx context.Context, currentMonthOnly bool) ([]DoctorAppointmentCount, error)
	DoctorsByRatingTier(ctx context.Context) ([]DoctorRatingTier, error)
	PatientCountByAgeGroup(ctx context.Context) ([]AgeGroupCount, error)
}
