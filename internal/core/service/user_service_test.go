package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

type stubDoctorRepo struct {
	createFn        func(ctx context.Context, user *domain.User, doctor *domain.Doctor) (*domain.Doctor, error)
	getByIDFn       func(ctx context.Context, id string) (*domain.Doctor, error)
	getWithUserFn   func(ctx context.Context, id string) (*ports.DoctorWithUser, error)
	updateFn        func(ctx context.Context, doctor *domain.Doctor) error
	deleteFn        func(ctx context.Context, id string) (bool, error)
	listFn          func(ctx context.Context, p ports.Pagination) ([]ports.DoctorWithUser, int64, error)
	listActiveFn    func(ctx context.Context) ([]ports.DoctorWithUser, error)
	licenseExistsFn func(ctx context.Context, licenseNumber string) (bool, error)
}

func (s *stubDoctorRepo) Create(ctx context.Context, user *domain.User, doctor *domain.Doctor) (*domain.Doctor, error) {
	return s.createFn(ctx, user, doctor)
}

func (s *stubDoctorRepo) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubDoctorRepo) GetWithUser(ctx context.Context, id string) (*ports.DoctorWithUser, error) {
	return s.getWithUserFn(ctx, id)
}

func (s *stubDoctorRepo) Update(ctx context.Context, doctor *domain.Doctor) error {
	return s.updateFn(ctx, doctor)
}

func (s *stubDoctorRepo) Delete(ctx context.Context, id string) (bool, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubDoctorRepo) List(ctx context.Context, p ports.Pagination) ([]ports.DoctorWithUser, int64, error) {
	return s.listFn(ctx, p)
}

func (s *stubDoctorRepo) ListActive(ctx context.Context) ([]ports.DoctorWithUser, error) {
	if s.listActiveFn == nil {
		return nil, nil
	}
	return s.listActiveFn(ctx)
}

func (s *stubDoctorRepo) LicenseNumberExists(ctx context.Context, licenseNumber string) (bool, error) {
	if s.licenseExistsFn == nil {
		return false, nil
	}
	return s.licenseExistsFn(ctx, licenseNumber)
}

type stubPatientRepo struct {
	createFn          func(ctx context.Context, user *domain.User, patient *domain.Patient) (*domain.Patient, error)
	getByIDFn         func(ctx context.Context, id string) (*domain.Patient, error)
	getWithUserFn     func(ctx context.Context, id string) (*ports.PatientWithUser, error)
	updateFn          func(ctx context.Context, patient *domain.Patient) error
	deleteFn          func(ctx context.Context, id string) (bool, error)
	listFn            func(ctx context.Context, p ports.Pagination) ([]ports.PatientWithUser, int64, error)
	listActiveFn      func(ctx context.Context) ([]ports.PatientWithUser, error)
	insuranceExistsFn func(ctx context.Context, insuranceNumber string) (bool, error)
}

func (s *stubPatientRepo) Create(ctx context.Context, user *domain.User, patient *domain.Patient) (*domain.Patient, error) {
	return s.createFn(ctx, user, patient)
}

func (s *stubPatientRepo) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubPatientRepo) GetWithUser(ctx context.Context, id string) (*ports.PatientWithUser, error) {
	return s.getWithUserFn(ctx, id)
}

func (s *stubPatientRepo) Update(ctx context.Context, patient *domain.Patient) error {
	return s.updateFn(ctx, patient)
}

func (s *stubPatientRepo) Delete(ctx context.Context, id string) (bool, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubPatientRepo) List(ctx context.Context, p ports.Pagination) ([]ports.PatientWithUser, int64, error) {
	return s.listFn(ctx, p)
}

func (s *stubPatientRepo) ListActive(ctx context.Context) ([]ports.PatientWithUser, error) {
	if s.listActiveFn == nil {
		return nil, nil
	}
	return s.listActiveFn(ctx)
}

func (s *stubPatientRepo) InsuranceNumberExists(ctx context.Context, insuranceNumber string) (bool, error) {
	if s.insuranceExistsFn == nil {
		return false, nil
	}
	return s.insuranceExistsFn(ctx, insuranceNumber)
}

type stubAdminRepo struct {
	createFn      func(ctx context.Context, user *domain.User, admin *domain.Admin) (*domain.Admin, error)
	getWithUserFn func(ctx context.Context, id string) (*ports.AdminWithUser, error)
	updateFn      func(ctx context.Context, admin *domain.Admin) error
	deleteFn      func(ctx context.Context, id string) (bool, error)
	listFn        func(ctx context.Context, p ports.Pagination) ([]ports.AdminWithUser, int64, error)
}

func (s *stubAdminRepo) Create(ctx context.Context, user *domain.User, admin *domain.Admin) (*domain.Admin, error) {
	return s.createFn(ctx, user, admin)
}

func (s *stubAdminRepo) GetWithUser(ctx context.Context, id string) (*ports.AdminWithUser, error) {
	return s.getWithUserFn(ctx, id)
}

func (s *stubAdminRepo) Update(ctx context.Context, admin *domain.Admin) error {
	return s.updateFn(ctx, admin)
}

func (s *stubAdminRepo) Delete(ctx context.Context, id string) (bool, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubAdminRepo) List(ctx context.Context, p ports.Pagination) ([]ports.AdminWithUser, int64, error) {
	return s.listFn(ctx, p)
}

type stubMailQueue struct {
	messages []ports.MailMessage
}

func (s *stubMailQueue) Enqueue(msg ports.MailMessage) {
	s.messages = append(s.messages, msg)
}

func TestUserService_RegisterDoctor_DuplicateEmail(t *testing.T) {
	users := &stubUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(users, &stubDoctorRepo{}, &stubPatientRepo{}, &stubAdminRepo{}, nil, zerolog.Nop())

	_, err := svc.RegisterDoctor(context.Background(), ports.RegisterDoctorInput{
		Username:      "drwho",
		Email:         "taken@example.com",
		Password:      "password123",
		LicenseNumber: "LIC-1",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_RegisterDoctor_DuplicateLicense(t *testing.T) {
	doctors := &stubDoctorRepo{
		licenseExistsFn: func(ctx context.Context, licenseNumber string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(&stubUserRepo{}, doctors, &stubPatientRepo{}, &stubAdminRepo{}, nil, zerolog.Nop())

	_, err := svc.RegisterDoctor(context.Background(), ports.RegisterDoctorInput{
		Username:      "drwho",
		Email:         "new@example.com",
		Password:      "password123",
		LicenseNumber: "LIC-1",
	})
	if !errors.Is(err, domain.ErrLicenseNumberExists) {
		t.Fatalf("expected ErrLicenseNumberExists, got %v", err)
	}
}

func TestUserService_RegisterPatient_SendsWelcomeMail(t *testing.T) {
	patients := &stubPatientRepo{
		createFn: func(ctx context.Context, user *domain.User, patient *domain.Patient) (*domain.Patient, error) {
			if user.PasswordHash == "" || user.PasswordHash == "password123" {
				t.Fatalf("expected a hashed password, got %q", user.PasswordHash)
			}
			if !user.IsActive {
				t.Fatalf("new users must start active")
			}
			patient.ID = "patient-1"
			patient.UserID = "user-1"
			return patient, nil
		},
	}
	mailQueue := &stubMailQueue{}
	svc := NewUserService(&stubUserRepo{}, &stubDoctorRepo{}, patients, &stubAdminRepo{}, mailQueue, zerolog.Nop())

	result, err := svc.RegisterPatient(context.Background(), ports.RegisterPatientInput{
		Username:    "alice",
		Email:       "alice@example.com",
		Password:    "password123",
		DateOfBirth: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.ID != "patient-1" {
		t.Fatalf("unexpected patient id %q", result.ID)
	}
	if len(mailQueue.messages) != 1 {
		t.Fatalf("expected one welcome mail, got %d", len(mailQueue.messages))
	}
	if mailQueue.messages[0].To != "alice@example.com" {
		t.Fatalf("welcome mail sent to %q", mailQueue.messages[0].To)
	}
}

func TestUserService_RegisterPatient_DuplicateInsurance(t *testing.T) {
	patients := &stubPatientRepo{
		insuranceExistsFn: func(ctx context.Context, insuranceNumber string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(&stubUserRepo{}, &stubDoctorRepo{}, patients, &stubAdminRepo{}, nil, zerolog.Nop())

	_, err := svc.RegisterPatient(context.Background(), ports.RegisterPatientInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "password123",
		InsuranceNumber: "INS-1",
	})
	if !errors.Is(err, domain.ErrInsuranceNumberExists) {
		t.Fatalf("expected ErrInsuranceNumberExists, got %v", err)
	}
}

func TestUserService_RegisterAdmin_ClampsAccessLevel(t *testing.T) {
	var created *domain.Admin
	admins := &stubAdminRepo{
		createFn: func(ctx context.Context, user *domain.User, admin *domain.Admin) (*domain.Admin, error) {
			created = admin
			admin.ID = "admin-1"
			return admin, nil
		},
	}
	svc := NewUserService(&stubUserRepo{}, &stubDoctorRepo{}, &stubPatientRepo{}, admins, nil, zerolog.Nop())

	_, err := svc.RegisterAdmin(context.Background(), ports.RegisterAdminInput{
		Username:    "root",
		Email:       "root@example.com",
		Password:    "password123",
		AccessLevel: 9,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.AccessLevel != domain.AccessLevelBasic {
		t.Fatalf("expected unknown access level clamped to basic, got %d", created.AccessLevel)
	}
}

func TestUserService_ChangePassword_WrongCurrent(t *testing.T) {
	users := &stubUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, PasswordHash: hashPassword(t, "correct")}, nil
		},
		updatePasswordFn: func(ctx context.Context, userID, hash string) error {
			t.Fatalf("password must not be updated on a failed check")
			return nil
		},
	}
	svc := NewUserService(users, &stubDoctorRepo{}, &stubPatientRepo{}, &stubAdminRepo{}, nil, zerolog.Nop())

	err := svc.ChangePassword(context.Background(), "user-1", "wrong", "newpassword1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_UpdateDoctor_LicenseConflict(t *testing.T) {
	doctors := &stubDoctorRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Doctor, error) {
			return &domain.Doctor{ID: id, LicenseNumber: "LIC-OLD"}, nil
		},
		licenseExistsFn: func(ctx context.Context, licenseNumber string) (bool, error) {
			return licenseNumber == "LIC-TAKEN", nil
		},
	}
	svc := NewUserService(&stubUserRepo{}, doctors, &stubPatientRepo{}, &stubAdminRepo{}, nil, zerolog.Nop())

	taken := "LIC-TAKEN"
	_, err := svc.UpdateDoctor(context.Background(), "doctor-1", ports.UpdateDoctorInput{LicenseNumber: &taken})
	if !errors.Is(err, domain.ErrLicenseNumberExists) {
		t.Fatalf("expected ErrLicenseNumberExists, got %v", err)
	}
}

func TestUserService_DeleteDoctor_NotFound(t *testing.T) {
	doctors := &stubDoctorRepo{
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc := NewUserService(&stubUserRepo{}, doctors, &stubPatientRepo{}, &stubAdminRepo{}, nil, zerolog.Nop())

	if err := svc.DeleteDoctor(context.Background(), "missing"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
