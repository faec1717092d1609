package handler

import (
	"time"

	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// --- Shared paged envelope ---

type pageResponse[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

func toPageResponse[T, R any](page *ports.Page[T], mapItem func(T) R) pageResponse[R] {
	items := make([]R, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, mapItem(it))
	}
	return pageResponse[R]{
		Items:       items,
		TotalCount:  page.TotalCount,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
	}
}

// --- Doctor ---

type registerDoctorRequest struct {
	Username       string `json:"username" validate:"required,min=3"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Specialization string `json:"specialization" validate:"required"`
	LicenseNumber  string `json:"license_number" validate:"required"`
}

type updateDoctorRequest struct {
	Specialization *string `json:"specialization,omitempty"`
	LicenseNumber  *string `json:"license_number,omitempty"`
}

type doctorResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	IsActive       bool   `json:"is_active"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`
}

func toDoctorResponse(d ports.DoctorWithUser) doctorResponse {
	return doctorResponse{
		ID:             d.ID,
		UserID:         d.UserID,
		Username:       d.Username,
		Email:          d.Email,
		IsActive:       d.IsActive,
		Specialization: d.Specialization,
		LicenseNumber:  d.LicenseNumber,
	}
}

// --- Patient ---

type registerPatientRequest struct {
	Username        string    `json:"username" validate:"required,min=3"`
	Email           string    `json:"email" validate:"required,email"`
	Password        string    `json:"password" validate:"required,min=8"`
	DateOfBirth     time.Time `json:"date_of_birth" validate:"required"`
	InsuranceNumber string    `json:"insurance_number,omitempty"`
}

type updatePatientRequest struct {
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	InsuranceNumber *string    `json:"insurance_number,omitempty"`
}

type patientResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	IsActive        bool      `json:"is_active"`
	DateOfBirth     time.Time `json:"date_of_birth"`
	InsuranceNumber string    `json:"insurance_number,omitempty"`
}

func toPatientResponse(p ports.PatientWithUser) patientResponse {
	return patientResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		Username:        p.Username,
		Email:           p.Email,
		IsActive:        p.IsActive,
		DateOfBirth:     p.DateOfBirth,
		InsuranceNumber: p.InsuranceNumber,
	}
}

// --- Admin ---

type registerAdminRequest struct {
	Username    string `json:"username" validate:"required,min=3"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	AccessLevel int    `json:"access_level" validate:"omitempty,oneof=1 2"`
}

type updateAdminRequest struct {
	AccessLevel *int `json:"access_level,omitempty" validate:"omitempty,oneof=1 2"`
}

type adminResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	AccessLevel int    `json:"access_level"`
}

func toAdminResponse(a ports.AdminWithUser) adminResponse {
	return adminResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Username:    a.Username,
		Email:       a.Email,
		IsActive:    a.IsActive,
		AccessLevel: a.AccessLevel,
	}
}
