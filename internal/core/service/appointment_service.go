package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// AppointmentService enforces the appointment state machine and the
// double-booking rule. All three actor kinds go through the same code path;
// the actor only decides the initial status and which side of the booking is
// resolved from the caller's own profile.
type AppointmentService struct {
	appointments ports.AppointmentRepository
	users        ports.UserRepository
	logger       zerolog.Logger
}

func NewAppointmentService(appointments ports.AppointmentRepository, users ports.UserRepository, logger zerolog.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		logger:       logger,
	}
}

// resolveActor fills in the side of the booking owned by the acting profile.
// Resolution failure surfaces as domain.ErrProfileNotFound, which is a
// data-integrity error distinct from any lifecycle failure.
func (s *AppointmentService) resolveActor(ctx context.Context, actor ports.AppointmentActor, doctorID, patientID string) (string, string, error) {
	switch actor.Kind {
	case domain.ActorDoctor:
		id, err := s.users.DoctorIDByUserID(ctx, actor.UserID)
		if err != nil {
			s.logger.Warn().Str("user_id", actor.UserID).Msg("no doctor profile for acting user")
			return "", "", domain.ErrProfileNotFound
		}
		return id, patientID, nil
	case domain.ActorPatient:
		id, err := s.users.PatientIDByUserID(ctx, actor.UserID)
		if err != nil {
			s.logger.Warn().Str("user_id", actor.UserID).Msg("no patient profile for acting user")
			return "", "", domain.ErrProfileNotFound
		}
		return doctorID, id, nil
	default:
		return doctorID, patientID, nil
	}
}

// Create books a new appointment. Admin- and patient-created bookings start
// pending; doctor-created bookings start confirmed. The doctor must have no
// confirmed appointment at the exact requested time.
func (s *AppointmentService) Create(ctx context.Context, actor ports.AppointmentActor, in ports.CreateAppointmentInput) (*domain.Appointment, error) {
	doctorID, patientID, err := s.resolveActor(ctx, actor, in.DoctorID, in.PatientID)
	if err != nil {
		return nil, err
	}

	available, err := s.appointments.IsDoctorAvailable(ctx, doctorID, in.DateTime)
	if err != nil {
		return nil, fmt.Errorf("availability check: %w", err)
	}
	if !available {
		s.logger.Warn().Str("doctor_id", doctorID).Time("date_time", in.DateTime).Msg("doctor not available at requested time")
		return nil, domain.ErrDoctorUnavailable
	}

	appointment := &domain.Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		DateTime:  in.DateTime,
		Status:    actor.Kind.InitialStatus(),
		Notes:     in.Notes,
	}

	created, err := s.appointments.Create(ctx, appointment)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create appointment")
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", created.ID).
		Str("doctor_id", created.DoctorID).
		Str("patient_id", created.PatientID).
		Str("status", string(created.Status)).
		Str("actor", string(actor.Kind)).
		Msg("appointment created")

	return created, nil
}

// Update overwrites the booking fields the actor owns and re-validates the
// availability rule against the new doctor+time. Status is never changed.
func (s *AppointmentService) Update(ctx context.Context, actor ports.AppointmentActor, id string, in ports.UpdateAppointmentInput) (*domain.Appointment, error) {
	doctorID, patientID, err := s.resolveActor(ctx, actor, in.DoctorID, in.PatientID)
	if err != nil {
		return nil, err
	}

	available, err := s.appointments.IsDoctorAvailable(ctx, doctorID, in.DateTime)
	if err != nil {
		return nil, fmt.Errorf("availability check: %w", err)
	}
	if !available {
		return nil, domain.ErrDoctorUnavailable
	}

	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appointment.DoctorID = doctorID
	appointment.PatientID = patientID
	appointment.DateTime = in.DateTime
	appointment.Notes = in.Notes

	if err := s.appointments.Update(ctx, appointment); err != nil {
		s.logger.Error().Err(err).Str("appointment_id", id).Msg("failed to update appointment")
		return nil, err
	}

	s.logger.Info().Str("appointment_id", id).Str("actor", string(actor.Kind)).Msg("appointment updated")
	return appointment, nil
}

// Confirm moves a pending appointment to confirmed.
func (s *AppointmentService) Confirm(ctx context.Context, id string) error {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch appointment.Status {
	case domain.StatusCompleted:
		return domain.ErrAlreadyCompleted
	case domain.StatusCancelled:
		return domain.ErrAlreadyCancelled
	case domain.StatusConfirmed:
		return domain.ErrAlreadyConfirmed
	}

	appointment.Status = domain.StatusConfirmed
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return err
	}

	s.logger.Info().Str("appointment_id", id).Msg("appointment confirmed")
	return nil
}

// Cancel moves a pending or confirmed appointment to cancelled. The reason
// must contain something other than whitespace and overwrites the notes.
func (s *AppointmentService) Cancel(ctx context.Context, id, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.ErrCancelReasonRequired
	}

	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch appointment.Status {
	case domain.StatusCompleted:
		return domain.ErrAlreadyCompleted
	case domain.StatusCancelled:
		return domain.ErrAlreadyCancelled
	}

	appointment.Status = domain.StatusCancelled
	appointment.Notes = "Cancellation Reason: " + reason
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return err
	}

	s.logger.Info().Str("appointment_id", id).Msg("appointment cancelled")
	return nil
}

// Complete moves a confirmed appointment to completed. Pending appointments
// must be confirmed first.
func (s *AppointmentService) Complete(ctx context.Context, id string) error {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch appointment.Status {
	case domain.StatusPending:
		return domain.ErrNotConfirmed
	case domain.StatusCancelled:
		return domain.ErrAlreadyCancelled
	case domain.StatusCompleted:
		return domain.ErrAlreadyCompleted
	}

	appointment.Status = domain.StatusCompleted
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return err
	}

	s.logger.Info().Str("appointment_id", id).Msg("appointment completed")
	return nil
}

func (s *AppointmentService) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *AppointmentService) ListForDoctorUser(ctx context.Context, userID string) ([]*domain.Appointment, error) {
	doctorID, err := s.users.DoctorIDByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return s.appointments.ListByDoctor(ctx, doctorID)
}

func (s *AppointmentService) ListForPatientUser(ctx context.Context, userID string) ([]*domain.Appointment, error) {
	patientID, err := s.users.PatientIDByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return s.appointments.ListByPatient(ctx, patientID)
}

func (s *AppointmentService) List(ctx context.Context, p ports.Pagination) (*ports.Page[*domain.Appointment], error) {
	p = p.Normalize()
	items, total, err := s.appointments.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return ports.NewPage(items, total, p), nil
}

func (s *AppointmentService) IsDoctorAvailable(ctx context.Context, doctorID string, at time.Time) (bool, error) {
	return s.appointments.IsDoctorAvailable(ctx, doctorID, at)
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	deleted, err := s.appointments.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrAppointmentNotFound
	}
	s.logger.Info().Str("appointment_id", id).Msg("appointment deleted")
	return nil
}
