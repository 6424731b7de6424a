package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
)

// Profile holds the descriptive fields of a staff record.
type Profile struct {
	FirstName                string `json:"first_name"`
	LastName                 string `json:"last_name"`
	Email                    string `json:"email"`
	Phone                    string `json:"phone"`
	AlternatePhone           string `json:"alternate_phone,omitempty"`
	DateOfBirth              string `json:"date_of_birth,omitempty"`
	Gender                   string `json:"gender,omitempty"`
	EmergencyContactName     string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone    string `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelation string `json:"emergency_contact_relation,omitempty"`
	AddressLine1             string `json:"address_line1,omitempty"`
	AddressLine2             string `json:"address_line2,omitempty"`
	City                     string `json:"city,omitempty"`
	State                    string `json:"state,omitempty"`
	PostalCode               string `json:"postal_code,omitempty"`
	Country                  string `json:"country,omitempty"`
	PANNumber                string `json:"pan_number,omitempty"`
	AadhaarNumber            string `json:"aadhaar_number,omitempty"`
	Role                     string `json:"role"`
	Designation              string `json:"designation"`
	Department               string `json:"department,omitempty"`
	BranchID                 string `json:"branch_id,omitempty"`
	JoiningDate              string `json:"joining_date,omitempty"`
	EmploymentType           string `json:"employment_type,omitempty"`
}

// Verification records which identity channels were confirmed at onboarding.
type Verification struct {
	EmailVerified   bool   `json:"email_verified"`
	PhoneVerified   bool   `json:"phone_verified"`
	PANVerified     bool   `json:"pan_verified"`
	AadhaarVerified bool   `json:"aadhaar_verified"`
	PANHolderName   string `json:"pan_holder_name,omitempty"`
}

// Staff is the aggregate root for a tenant's staff member.
//
// Invariants:
//   - Username is non-empty and unique per tenant, compared case-insensitively
//   - PasswordHash is always set; plaintext passwords never reach the aggregate
//   - Email and Role are non-empty
type Staff struct {
	ID           id.StaffID   `json:"id"`
	TenantID     id.TenantID  `json:"tenant_id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Profile      Profile      `json:"profile"`
	Verification Verification `json:"verification"`
	IsActive     bool         `json:"is_active"`
	CreatedBy    id.UserID    `json:"created_by"`
	UpdatedBy    id.UserID    `json:"updated_by"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// UsernameKey is the uniqueness key for a username: NFC-normalized,
// trimmed and case-folded.
func UsernameKey(username string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(username)))
}

// UsernameKey returns the uniqueness key of s.Username.
func (s *Staff) UsernameKey() string {
	return UsernameKey(s.Username)
}

func NewStaff(
	staffID id.StaffID,
	tenantID id.TenantID,
	username string,
	passwordHash string,
	profile Profile,
	verification Verification,
	active bool,
	actor id.UserID,
	now time.Time,
) (*Staff, error) {
	s := &Staff{
		ID:           staffID,
		TenantID:     tenantID,
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		Profile:      profile,
		Verification: verification,
		IsActive:     active,
		CreatedBy:    actor,
		UpdatedBy:    actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.checkInvariants(); err != nil {
		return nil, err
	}
	return s, nil
}

// Changes is an update to an existing record. A blank PasswordHash keeps the
// current credential.
type Changes struct {
	Username     string
	PasswordHash string
	Profile      Profile
	Verification Verification
	IsActive     bool
}

// ApplyChanges replaces the mutable state of s, leaving identity and creation
// metadata untouched.
func (s *Staff) ApplyChanges(c Changes, actor id.UserID, now time.Time) error {
	next := *s
	next.Username = strings.TrimSpace(c.Username)
	if c.PasswordHash != "" {
		next.PasswordHash = c.PasswordHash
	}
	next.Profile = c.Profile
	next.Verification = c.Verification
	next.IsActive = c.IsActive
	next.UpdatedBy = actor
	next.UpdatedAt = now
	if err := next.checkInvariants(); err != nil {
		return err
	}
	*s = next
	return nil
}

func (s *Staff) checkInvariants() error {
	if s.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is required")
	}
	if s.Username == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "username cannot be empty")
	}
	if s.PasswordHash == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "password hash cannot be empty")
	}
	if strings.TrimSpace(s.Profile.Email) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "email cannot be empty")
	}
	if strings.TrimSpace(s.Profile.Role) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "role cannot be empty")
	}
	return nil
}
