package audit

import (
	"context"
	"time"

	id "orgdesk/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// Stores and sinks may route or retain categories differently.
type EventCategory string

const (
	// CategoryCompliance covers staff record creation and changes.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers identity verification outcomes.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers wizard session lifecycle and routine activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	TenantID  id.TenantID
	// ActorID is the operator driving the wizard.
	ActorID id.UserID
	// StaffID is set once a staff record exists (edit flows, successful creation).
	StaffID   id.StaffID
	SessionID string
	Subject   string
	Action    string
	Decision  string
	Reason    string
	// Channels lists verification channels relevant to the event.
	Channels  []string
	RequestID string
	ClientIP  string
	// Device is a short user-agent description, never the raw header.
	Device string
}

type AuditEvent string

const (
	// Wizard session lifecycle
	EventSessionOpened    AuditEvent = "onboarding_session_opened"
	EventSessionCancelled AuditEvent = "onboarding_session_cancelled"
	EventSessionExpired   AuditEvent = "onboarding_session_expired"
	EventStepBlocked      AuditEvent = "onboarding_step_blocked"

	// Verification
	EventChallengeSent        AuditEvent = "verification_challenge_sent"
	EventVerificationPassed   AuditEvent = "verification_succeeded"
	EventVerificationRejected AuditEvent = "verification_failed"

	// Staff directory
	EventStaffOnboarded    AuditEvent = "staff_onboarded"
	EventStaffUpdated      AuditEvent = "staff_updated"
	EventSubmissionFailed  AuditEvent = "staff_submission_failed"
	EventUsernameCollision AuditEvent = "staff_username_collision"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventStaffOnboarded:    CategoryCompliance,
	EventStaffUpdated:      CategoryCompliance,
	EventSubmissionFailed:  CategoryCompliance,
	EventUsernameCollision: CategoryCompliance,

	EventVerificationPassed:   CategorySecurity,
	EventVerificationRejected: CategorySecurity,
	EventChallengeSent:        CategorySecurity,

	EventSessionOpened:    CategoryOperations,
	EventSessionCancelled: CategoryOperations,
	EventSessionExpired:   CategoryOperations,
	EventStepBlocked:      CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events and answers tenant-scoped queries.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]Event, error)
}

// Sink receives a copy of every stored event. Sinks are write-only.
type Sink interface {
	Append(ctx context.Context, event Event) error
}
