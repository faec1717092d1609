package ports

import (
	"context"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
)

// DoctorWithUser is the doctor view joined with its owning user.
type DoctorWithUser struct {
	domain.Doctor
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// PatientWithUser is the patient view joined with its owning user.
type PatientWithUser struct {
	domain.Patient
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// AdminWithUser is the admin view joined with its owning user.
type AdminWithUser struct {
	domain.Admin
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// DoctorRepository persists doctor profiles. Create inserts the user, the
// profile, and the role assignment in a single transaction.
type DoctorRepository interface {
	Create(ctx context.Context, user *domain.User, doctor *domain.Doctor) (*domain.Doctor, error)
	GetByID(ctx context.Context, id string) (*domain.Doctor, error)
	GetWithUser(ctx context.Context, id string) (*DoctorWithUser, error)
	Update(ctx context.Context, doctor *domain.Doctor) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, p Pagination) ([]DoctorWithUser, int64, error)
	// ListActive returns the doctors whose user account is active, for
	// booking pickers.
	ListActive(ctx context.Context) ([]DoctorWithUser, error)
	LicenseNumberExists(ctx context.Context, licenseNumber string) (bool, error)
}

// PatientRepository persists patient profiles; same transactional contract as
// DoctorRepository.
type PatientRepository interface {
	Create(ctx context.Context, user *domain.User, patient *domain.Patient) (*domain.Patient, error)
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
	GetWithUser(ctx context.Context, id string) (*PatientWithUser, error)
	Update(ctx context.Context, patient *domain.Patient) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, p Pagination) ([]PatientWithUser, int64, error)
	ListActive(ctx context.Context) ([]PatientWithUser, error)
	InsuranceNumberExists(ctx context.Context, insuranceNumber string) (bool, error)
}

// AdminRepository persists admin profiles; same transactional contract as
// DoctorRepository.
type AdminRepository interface {
	Create(ctx context.Context, user *domain.User, admin *domain.Admin) (*domain.Admin, error)
	GetWithUser(ctx context.Context, id string) (*AdminWithUser, error)
	Update(ctx context.Context, admin *domain.Admin) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, p Pagination) ([]AdminWithUser, int64, error)
}
