package ports

import (
	"context"
	"time"
)

// RegisterDoctorInput carries a new doctor registration.
type RegisterDoctorInput struct {
	Username       string
	Email          string
	Password       string
	Specialization string
	LicenseNumber  string
}

// RegisterPatientInput carries a new patient registration.
type RegisterPatientInput struct {
	Username        string
	Email           string
	Password        string
	DateOfBirth     time.Time
	InsuranceNumber string
}

// RegisterAdminInput carries a new admin registration.
type RegisterAdminInput struct {
	Username    string
	Email       string
	Password    string
	AccessLevel int
}

// UpdateDoctorInput carries a partial doctor update; nil fields are left
// untouched.
type UpdateDoctorInput struct {
	Specialization *string
	LicenseNumber  *string
}

// UpdatePatientInput carries a partial patient update.
type UpdatePatientInput struct {
	DateOfBirth     *time.Time
	InsuranceNumber *string
}

// UpdateAdminInput carries a partial admin update.
type UpdateAdminInput struct {
	AccessLevel *int
}

// UserService manages accounts and role profiles. Every Register operation
// creates the user, its profile, and its role assignment all-or-nothing.
type UserService interface {
	RegisterDoctor(ctx context.Context, in RegisterDoctorInput) (*DoctorWithUser, error)
	RegisterPatient(ctx context.Context, in RegisterPatientInput) (*PatientWithUser, error)
	RegisterAdmin(ctx context.Context, in RegisterAdminInput) (*AdminWithUser, error)

	GetDoctor(ctx context.Context, id string) (*DoctorWithUser, error)
	GetPatient(ctx context.Context, id string) (*PatientWithUser, error)
	GetAdmin(ctx context.Context, id string) (*AdminWithUser, error)

	UpdateDoctor(ctx context.Context, id string, in UpdateDoctorInput) (*DoctorWithUser, error)
	UpdatePatient(ctx context.Context, id string, in UpdatePatientInput) (*PatientWithUser, error)
	UpdateAdmin(ctx context.Context, id string, in UpdateAdminInput) (*AdminWithUser, error)

	DeleteDoctor(ctx context.Context, id string) error
	DeletePatient(ctx context.Context, id string) error
	DeleteAdmin(ctx context.Context, id string) error

	ListDoctors(ctx context.Context, p Pagination) (*Page[DoctorWithUser], error)
	ListPatients(ctx context.Context, p Pagination) (*Page[PatientWithUser], error)
	ListAdmins(ctx context.Context, p Pagination) (*Page[AdminWithUser], error)

	// ListActiveDoctors and ListActivePatients back the booking pickers: all
	// profiles whose user account is active, unpaged.
	ListActiveDoctors(ctx context.Context) ([]DoctorWithUser, error)
	ListActivePatients(ctx context.Context) ([]PatientWithUser, error)

	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Deactivate(ctx context.Context, userID string) error
}
