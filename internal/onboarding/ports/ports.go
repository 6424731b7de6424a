// Package ports defines the collaborators the onboarding core consumes.
package ports

import (
	"context"

	"orgdesk/internal/onboarding/models"
	id "orgdesk/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks

// EmailVerifier sends and confirms email challenges.
type EmailVerifier interface {
	SendChallenge(ctx context.Context, email string) error
	Confirm(ctx context.Context, email, code string) error
}

// PhoneVerifier sends and confirms SMS challenges.
type PhoneVerifier interface {
	SendChallenge(ctx context.Context, phone string) error
	Confirm(ctx context.Context, phone, code string) error
}

// DocumentVerifier checks identity documents against registries.
type DocumentVerifier interface {
	// VerifyPAN returns the registered holder name, possibly empty.
	VerifyPAN(ctx context.Context, pan string) (string, error)
	VerifyAadhaar(ctx context.Context, aadhaar string) error
}

// UsernameLookup reports whether a username is free within the caller's
// tenant. excludeID, when set, names the record being edited.
type UsernameLookup interface {
	UsernameAvailable(ctx context.Context, tenantID id.TenantID, candidate string, excludeID id.StaffID) (bool, error)
}

// StaffDirectory persists the assembled payload.
type StaffDirectory interface {
	Create(ctx context.Context, payload models.Payload, principal models.Principal) (*models.SubmitResult, error)
	Update(ctx context.Context, staffID id.StaffID, payload models.Payload, principal models.Principal) (*models.SubmitResult, error)
}

// StaffReader loads an existing record to seed an edit session.
type StaffReader interface {
	LoadForEdit(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.EditTarget, error)
}
