package ports

import (
	"context"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
)

// UserRepository handles user documents and user-to-profile lookups.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetActive(ctx context.Context, userID string, active bool) error
	// DoctorIDByUserID resolves the doctor profile owned by a user.
	// Returns domain.ErrProfileNotFound when the user has no doctor profile.
	DoctorIDByUserID(ctx context.Context, userID string) (string, error)
	// PatientIDByUserID resolves the patient profile owned by a user.
	PatientIDByUserID(ctx context.Context, userID string) (string, error)
}
