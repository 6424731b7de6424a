package models

import id "orgdesk/pkg/domain"

// CreateRequest carries a new staff record from the onboarding flow.
// Password is plaintext and hashed by the service.
type CreateRequest struct {
	TenantID     id.TenantID
	ActorID      id.UserID
	Username     string
	Password     string
	Profile      Profile
	Verification Verification
	IsActive     bool
}

// UpdateRequest replaces an existing record. A blank Password keeps the
// current credential.
type UpdateRequest struct {
	TenantID     id.TenantID
	ActorID      id.UserID
	StaffID      id.StaffID
	Username     string
	Password     string
	Profile      Profile
	Verification Verification
	IsActive     bool
}
