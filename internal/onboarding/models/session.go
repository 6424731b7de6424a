package models

import (
	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
)

// Mode distinguishes onboarding a new member from editing an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCreate, "":
		return ModeCreate, nil
	case ModeEdit:
		return ModeEdit, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "mode must be create or edit")
}

// Lifecycle is the coarse state of a session.
type Lifecycle string

const (
	LifecycleOpen       Lifecycle = "open"
	LifecycleSubmitting Lifecycle = "submitting"
	LifecycleSubmitted  Lifecycle = "submitted"
	LifecycleClosed     Lifecycle = "closed"
)

// Terminal lifecycles accept no further operations.
func (l Lifecycle) Terminal() bool {
	return l == LifecycleSubmitted || l == LifecycleClosed
}

// AvailabilityStatus is the username availability as last observed.
type AvailabilityStatus string

const (
	AvailabilityUnknown     AvailabilityStatus = "unknown"
	AvailabilityChecking    AvailabilityStatus = "checking"
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
	AvailabilityFailed      AvailabilityStatus = "failed"
)

// AvailabilityState ties a status to the candidate and request ticket that
// produced it.
type AvailabilityState struct {
	Candidate string             `json:"candidate"`
	Ticket    uint64             `json:"ticket"`
	Status    AvailabilityStatus `json:"status"`
}

// Principal is the authenticated operator driving the wizard.
type Principal struct {
	UserID      id.UserID
	TenantID    id.TenantID
	Role        string
	BearerToken string
}

// EditTarget seeds an edit-mode session from an existing staff record.
type EditTarget struct {
	StaffID id.StaffID
	Draft   DraftRecord
	// Verified carries channels verified at original onboarding, keyed by the
	// value that was verified.
	Verified VerificationState
}
