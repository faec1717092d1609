package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// UserService manages accounts and role profiles. Each Register operation
// builds a user with a hashed password and hands it to the repository, which
// inserts user, profile, and role assignment in one transaction.
type UserService struct {
	users    ports.UserRepository
	doctors  ports.DoctorRepository
	patients ports.PatientRepository
	admins   ports.AdminRepository
	mail     ports.MailEnqueuer
	logger   zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	doctors ports.DoctorRepository,
	patients ports.PatientRepository,
	admins ports.AdminRepository,
	mail ports.MailEnqueuer,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		doctors:  doctors,
		patients: patients,
		admins:   admins,
		mail:     mail,
		logger:   logger,
	}
}

// sendWelcome queues the registration notice. A nil enqueuer disables mail.
func (s *UserService) sendWelcome(username, email string) {
	if s.mail == nil {
		return
	}
	s.mail.Enqueue(ports.MailMessage{
		To:      email,
		Subject: "Welcome to the hospital portal",
		Body:    "Hello " + username + ",\n\nYour account has been created. You can now sign in with your email address.",
	})
}

func (s *UserService) newUser(ctx context.Context, username, email, password, role string) (*domain.User, error) {
	if taken, err := s.users.EmailExists(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrUserExists
	}
	if taken, err := s.users.UsernameExists(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		Roles:        []string{role},
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (s *UserService) RegisterDoctor(ctx context.Context, in ports.RegisterDoctorInput) (*ports.DoctorWithUser, error) {
	if taken, err := s.doctors.LicenseNumberExists(ctx, in.LicenseNumber); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrLicenseNumberExists
	}

	user, err := s.newUser(ctx, in.Username, in.Email, in.Password, domain.RoleDoctor)
	if err != nil {
		return nil, err
	}

	doctor, err := s.doctors.Create(ctx, user, &domain.Doctor{
		Specialization: in.Specialization,
		LicenseNumber:  in.LicenseNumber,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("username", in.Username).Msg("failed to register doctor")
		return nil, err
	}

	s.logger.Info().Str("doctor_id", doctor.ID).Str("username", in.Username).Msg("doctor registered")
	s.sendWelcome(user.Username, user.Email)
	return &ports.DoctorWithUser{Doctor: *doctor, Username: user.Username, Email: user.Email, IsActive: true}, nil
}

func (s *UserService) RegisterPatient(ctx context.Context, in ports.RegisterPatientInput) (*ports.PatientWithUser, error) {
	if in.InsuranceNumber != "" {
		if taken, err := s.patients.InsuranceNumberExists(ctx, in.InsuranceNumber); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrInsuranceNumberExists
		}
	}

	user, err := s.newUser(ctx, in.Username, in.Email, in.Password, domain.RolePatient)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.Create(ctx, user, &domain.Patient{
		DateOfBirth:     in.DateOfBirth,
		InsuranceNumber: in.InsuranceNumber,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("username", in.Username).Msg("failed to register patient")
		return nil, err
	}

	s.logger.Info().Str("patient_id", patient.ID).Str("username", in.Username).Msg("patient registered")
	s.sendWelcome(user.Username, user.Email)
	return &ports.PatientWithUser{Patient: *patient, Username: user.Username, Email: user.Email, IsActive: true}, nil
}

func (s *UserService) RegisterAdmin(ctx context.Context, in ports.RegisterAdminInput) (*ports.AdminWithUser, error) {
	accessLevel := in.AccessLevel
	if accessLevel != domain.AccessLevelFullAccess {
		accessLevel = domain.AccessLevelBasic
	}

	user, err := s.newUser(ctx, in.Username, in.Email, in.Password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	admin, err := s.admins.Create(ctx, user, &domain.Admin{AccessLevel: accessLevel})
	if err != nil {
		s.logger.Error().Err(err).Str("username", in.Username).Msg("failed to register admin")
		return nil, err
	}

	s.logger.Info().Str("admin_id", admin.ID).Str("username", in.Username).Msg("admin registered")
	s.sendWelcome(user.Username, user.Email)
	return &ports.AdminWithUser{Admin: *admin, Username: user.Username, Email: user.Email, IsActive: true}, nil
}

func (s *UserService) GetDoctor(ctx context.Context, id string) (*ports.DoctorWithUser, error) {
	return s.doctors.GetWithUser(ctx, id)
}

func (s *UserService) GetPatient(ctx context.Context, id string) (*ports.PatientWithUser, error) {
	return s.patients.GetWithUser(ctx, id)
}

func (s *UserService) GetAdmin(ctx context.Context, id string) (*ports.AdminWithUser, error) {
	return s.admins.GetWithUser(ctx, id)
}

func (s *UserService) UpdateDoctor(ctx context.Context, id string, in ports.UpdateDoctorInput) (*ports.DoctorWithUser, error) {
	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.LicenseNumber != nil && *in.LicenseNumber != doctor.LicenseNumber {
		if taken, err := s.doctors.LicenseNumberExists(ctx, *in.LicenseNumber); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrLicenseNumberExists
		}
		doctor.LicenseNumber = *in.LicenseNumber
	}
	if in.Specialization != nil {
		doctor.Specialization = *in.Specialization
	}
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return s.doctors.GetWithUser(ctx, id)
}

func (s *UserService) UpdatePatient(ctx context.Context, id string, in ports.UpdatePatientInput) (*ports.PatientWithUser, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.InsuranceNumber != nil && *in.InsuranceNumber != patient.InsuranceNumber {
		if *in.InsuranceNumber != "" {
			if taken, err := s.patients.InsuranceNumberExists(ctx, *in.InsuranceNumber); err != nil {
				return nil, err
			} else if taken {
				return nil, domain.ErrInsuranceNumberExists
			}
		}
		patient.InsuranceNumber = *in.InsuranceNumber
	}
	if in.DateOfBirth != nil {
		patient.DateOfBirth = *in.DateOfBirth
	}
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return s.patients.GetWithUser(ctx, id)
}

func (s *UserService) UpdateAdmin(ctx context.Context, id string, in ports.UpdateAdminInput) (*ports.AdminWithUser, error) {
	admin, err := s.admins.GetWithUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.AccessLevel != nil {
		admin.AccessLevel = *in.AccessLevel
		if err := s.admins.Update(ctx, &admin.Admin); err != nil {
			return nil, err
		}
	}
	return admin, nil
}

func (s *UserService) DeleteDoctor(ctx context.Context, id string) error {
	deleted, err := s.doctors.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrProfileNotFound
	}
	s.logger.Info().Str("doctor_id", id).Msg("doctor deleted")
	return nil
}

func (s *UserService) DeletePatient(ctx context.Context, id string) error {
	deleted, err := s.patients.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrProfileNotFound
	}
	s.logger.Info().Str("patient_id", id).Msg("patient deleted")
	return nil
}

func (s *UserService) DeleteAdmin(ctx context.Context, id string) error {
	deleted, err := s.admins.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrProfileNotFound
	}
	s.logger.Info().Str("admin_id", id).Msg("admin deleted")
	return nil
}

func (s *UserService) ListDoctors(ctx context.Context, p ports.Pagination) (*ports.Page[ports.DoctorWithUser], error) {
	p = p.Normalize()
	items, total, err := s.doctors.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return ports.NewPage(items, total, p), nil
}

func (s *UserService) ListPatients(ctx context.Context, p ports.Pagination) (*ports.Page[ports.PatientWithUser], error) {
	p = p.Normalize()
	items, total, err := s.patients.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return ports.NewPage(items, total, p), nil
}

func (s *UserService) ListAdmins(ctx context.Context, p ports.Pagination) (*ports.Page[ports.AdminWithUser], error) {
	p = p.Normalize()
	items, total, err := s.admins.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return ports.NewPage(items, total, p), nil
}

func (s *UserService) ListActiveDoctors(ctx context.Context) ([]ports.DoctorWithUser, error) {
	return s.doctors.ListActive(ctx)
}

func (s *UserService) ListActivePatients(ctx context.Context) ([]ports.PatientWithUser, error) {
	return s.patients.ListActive(ctx)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// Deactivate flips IsActive off; the account is kept, login is refused.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if err := s.users.SetActive(ctx, userID, false); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("user deactivated")
	return nil
}
