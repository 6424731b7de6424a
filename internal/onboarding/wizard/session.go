package wizard

import (
	"orgdesk/internal/onboarding/models"
	id "orgdesk/pkg/domain"
)

// StepView is a step with its current advance verdict.
type StepView struct {
	Step       models.Step `json:"step"`
	Label      string      `json:"label"`
	CanAdvance bool        `json:"can_advance"`
}

// Session is a point-in-time copy of a wizard's state. The password never
// appears; PasswordSet and the strength fields describe it.
type Session struct {
	Mode             models.Mode              `json:"mode"`
	TenantID         id.TenantID              `json:"tenant_id"`
	EditingStaffID   *id.StaffID              `json:"editing_staff_id,omitempty"`
	Lifecycle        models.Lifecycle         `json:"lifecycle"`
	CurrentStep      models.Step              `json:"current_step"`
	StepLabel        string                   `json:"step_label"`
	Steps            []StepView               `json:"steps"`
	Draft            models.DraftRecord       `json:"draft"`
	PasswordSet      bool                     `json:"password_set"`
	PasswordStrength int                      `json:"password_strength"`
	StrengthLabel    string                   `json:"password_strength_label"`
	Errors           models.ValidationErrors  `json:"validation_errors"`
	Verification     models.VerificationState `json:"verification"`
	Availability     models.AvailabilityState `json:"username_availability"`
	Completion       int                      `json:"completion_percentage"`
	LastGateError    *models.GateError        `json:"last_gate_error,omitempty"`
	SubmitError      string                   `json:"submit_error,omitempty"`
	Result           *models.SubmitResult     `json:"result,omitempty"`
}
