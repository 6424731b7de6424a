package models

// Reason enumerates why a wizard move was refused.
type Reason string

const (
	ReasonInvalidField         Reason = "invalid_field"
	ReasonEmailUnverified      Reason = "email_verification_required"
	ReasonPhoneUnverified      Reason = "phone_verification_required"
	ReasonPANUnverified        Reason = "pan_verification_required"
	ReasonAadhaarUnverified    Reason = "aadhaar_verification_required"
	ReasonRoleRequired         Reason = "role_required"
	ReasonDesignationRequired  Reason = "designation_required"
	ReasonUsernameCheckPending Reason = "username_check_pending"
	ReasonUsernameUnavailable  Reason = "username_unavailable"
	ReasonUsernameCheckFailed  Reason = "username_check_failed"
	ReasonPasswordRequired     Reason = "password_required"
	ReasonPasswordTooWeak      Reason = "password_too_weak"
	ReasonAtFirstStep          Reason = "at_first_step"
	ReasonAtLastStep           Reason = "at_last_step"
	ReasonNotFinalStep         Reason = "not_final_step"
	ReasonSubmissionInFlight   Reason = "submission_in_flight"
	ReasonSessionClosed        Reason = "session_closed"
)

// GateError is a refused move. It is an ordinary result, not a fault: the
// session is unchanged and Message is shown to the operator.
type GateError struct {
	Step    Step   `json:"step"`
	Reason  Reason `json:"reason"`
	Field   Field  `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *GateError) Error() string { return e.Message }

func NewGateError(step Step, reason Reason, message string) *GateError {
	return &GateError{Step: step, Reason: reason, Message: message}
}

// FieldGateError wraps a field validation failure as a gate refusal.
func FieldGateError(step Step, verr ValidationError) *GateError {
	return &GateError{Step: step, Reason: ReasonInvalidField, Field: verr.Field, Message: verr.Message}
}

// SubmissionError is a creation collaborator failure. Message is the
// collaborator's text, surfaced verbatim.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string { return e.Message }
func (e *SubmissionError) Unwrap() error { return e.Err }
