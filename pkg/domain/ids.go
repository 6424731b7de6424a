package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "orgdesk/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so that a StaffID can never be passed
// where a TenantID is expected.
type (
	UserID    uuid.UUID
	TenantID  uuid.UUID
	StaffID   uuid.UUID
	SessionID uuid.UUID
)

const maxIDLength = 36

func parseUUID(kind, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return u, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user_id", s)
	return UserID(u), err
}

func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID("tenant_id", s)
	return TenantID(u), err
}

func ParseStaffID(s string) (StaffID, error) {
	u, err := parseUUID("staff_id", s)
	return StaffID(u), err
}

func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID("session_id", s)
	return SessionID(u), err
}

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id TenantID) String() string  { return uuid.UUID(id).String() }
func (id StaffID) String() string   { return uuid.UUID(id).String() }
func (id SessionID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id TenantID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id StaffID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs serialize as plain UUID strings in JSON.
func (id StaffID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id SessionID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id TenantID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
