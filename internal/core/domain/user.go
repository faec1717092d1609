package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// Admin access levels.
const (
	AccessLevelBasic      = 1
	AccessLevelFullAccess = 2
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrLicenseNumberExists = errors.New("license number already registered")
var ErrInsuranceNumberExists = errors.New("insurance number already registered")

// ErrProfileNotFound indicates a user exists but its role profile document is
// missing. This is a data-integrity failure, not a business-rule one.
var ErrProfileNotFound = errors.New("profile not found for user")

// Login failures carry the exact client-facing wording.
var ErrInvalidCredentials = errors.New("Email or Password is incorrect!")
var ErrUserInactive = errors.New("User Is Inactive!")

// User models an authenticated actor in the system. A user owns at most one
// role profile (Doctor, Patient or Admin); Roles holds the assigned role names.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Doctor is the role profile for medical staff.
type Doctor struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`
}

// Patient is the role profile for patients.
type Patient struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	DateOfBirth     time.Time `json:"date_of_birth"`
	InsuranceNumber string    `json:"insurance_number,omitempty"`
}

// Admin is the role profile for administrators.
type Admin struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	AccessLevel int    `json:"access_level"`
}
