package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// StatsService serves the read-only reporting endpoints.
type StatsService struct {
	stats  ports.StatsRepository
	logger zerolog.Logger
}

func NewStatsService(stats ports.StatsRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{stats: stats, logger: logger}
}

func (s *StatsService) AppointmentCountByStatus(ctx context.Context) ([]ports.StatusCount, error) {
	counts, err := s.stats.AppointmentCountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		s.logger.Warn().Msg("appointment status stats returned no rows")
	}
	return counts, nil
}

func (s *StatsService) DoctorAppointmentStats(ctx context.Context, currentMonthOnly bool) ([]ports.DoctorAppointmentCount, error) {
	return s.stats.DoctorAppointmentStats(ctx, currentMonthOnly)
}

func (s *StatsService) DoctorsByRatingTier(ctx context.Context) ([]ports.DoctorRatingTier, error) {
	return s.stats.DoctorsByRatingTier(ctx)
}

func (s *StatsService) PatientCountByAgeGroup(ctx context.Context) ([]ports.AgeGroupCount, error) {
	return s.stats.PatientCountByAgeGroup(ctx)
}
