package handler

import (
	"time"

	"orgdesk/internal/staff/models"
)

// StaffResponse is the public view of a staff record. The password hash is
// never serialized.
type StaffResponse struct {
	ID           string              `json:"id"`
	Username     string              `json:"username"`
	Profile      models.Profile      `json:"profile"`
	Verification models.Verification `json:"verification"`
	IsActive     bool                `json:"is_active"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func FromStaff(s *models.Staff) StaffResponse {
	return StaffResponse{
		ID:           s.ID.String(),
		Username:     s.Username,
		Profile:      s.Profile,
		Verification: s.Verification,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type AvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}
