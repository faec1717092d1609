package ports

import (
	"context"
	"time"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
)

// AppointmentRepository defines persistence operations for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) error
	Delete(ctx context.Context, id string) (bool, error)
	// IsDoctorAvailable reports whether the doctor has no confirmed
	// appointment at exactly the given time. Pending appointments at the same
	// slot do not block.
	IsDoctorAvailable(ctx context.Context, doctorID string, at time.Time) (bool, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*domain.Appointment, error)
	List(ctx context.Context, p Pagination) ([]*domain.Appointment, int64, error)
}
