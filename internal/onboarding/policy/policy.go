// Package policy decides whether the wizard may move past a step. It is pure:
// every input arrives as an argument.
package policy

import (
	"strings"

	"orgdesk/internal/onboarding/models"
	"orgdesk/internal/onboarding/validation"
)

// GateChecker reports channel satisfaction for the current field value.
type GateChecker interface {
	Satisfied(ch models.Channel, current string) bool
}

// FieldValidator validates a single field.
type FieldValidator interface {
	Validate(field models.Field, value string) *models.ValidationError
}

// Input is everything a step predicate may look at.
type Input struct {
	Mode         models.Mode
	Draft        *models.DraftRecord
	Errors       models.ValidationErrors
	Validator    FieldValidator
	Gate         GateChecker
	Availability models.AvailabilityState
}

// Evaluate returns nil when step k may be left forward (or submitted, for the
// last step), otherwise the first unmet reason.
func Evaluate(step models.Step, in Input) *models.GateError {
	switch step {
	case models.StepPersonalInfo:
		return evaluatePersonalInfo(in)
	case models.StepContact:
		return evaluateContact(in)
	case models.StepEmergencyAddress:
		return nil
	case models.StepIdentityDocuments:
		return evaluateIdentityDocuments(in)
	case models.StepProfessional:
		return evaluateProfessional(in)
	case models.StepAccountSetup:
		return evaluateAccountSetup(in)
	}
	return models.NewGateError(step, models.ReasonSessionClosed, "unknown step")
}

// fieldError returns the recorded error for f, or the result of validating
// its current value when f has not been touched yet.
func fieldError(step models.Step, f models.Field, in Input) *models.GateError {
	if verr, ok := in.Errors[f]; ok {
		return models.FieldGateError(step, verr)
	}
	if verr := in.Validator.Validate(f, in.Draft.Value(f)); verr != nil {
		return models.FieldGateError(step, *verr)
	}
	return nil
}

// evaluatePersonalInfo requires valid first and last names.
func evaluatePersonalInfo(in Input) *models.GateError {
	step := models.StepPersonalInfo
	for _, f := range []models.Field{models.FieldFirstName, models.FieldLastName} {
		if err := fieldError(step, f, in); err != nil {
			return err
		}
	}
	return nil
}

// evaluateContact rule priority (fail-fast):
//  1. email and phone pass field validation
//  2. email verified for the current address
//  3. phone verified for the current number
func evaluateContact(in Input) *models.GateError {
	step := models.StepContact
	for _, f := range []models.Field{models.FieldEmail, models.FieldPhone} {
		if err := fieldError(step, f, in); err != nil {
			return err
		}
	}
	if !in.Gate.Satisfied(models.ChannelEmail, in.Draft.Email) {
		return models.NewGateError(step, models.ReasonEmailUnverified, "Email verification required")
	}
	if !in.Gate.Satisfied(models.ChannelPhone, in.Draft.Phone) {
		return models.NewGateError(step, models.ReasonPhoneUnverified, "Phone verification required")
	}
	return nil
}

// evaluateIdentityDocuments requires each filled document to be verified.
func evaluateIdentityDocuments(in Input) *models.GateError {
	step := models.StepIdentityDocuments
	if !in.Gate.Satisfied(models.ChannelPAN, in.Draft.PANNumber) {
		return models.NewGateError(step, models.ReasonPANUnverified, "PAN verification required")
	}
	if !in.Gate.Satisfied(models.ChannelAadhaar, in.Draft.AadhaarNumber) {
		return models.NewGateError(step, models.ReasonAadhaarUnverified, "Aadhaar verification required")
	}
	return nil
}

func evaluateProfessional(in Input) *models.GateError {
	step := models.StepProfessional
	if strings.TrimSpace(in.Draft.Role) == "" {
		return models.NewGateError(step, models.ReasonRoleRequired, "Please select a role")
	}
	if strings.TrimSpace(in.Draft.Designation) == "" {
		return models.NewGateError(step, models.ReasonDesignationRequired, "Designation is required")
	}
	return nil
}

// evaluateAccountSetup rule priority (fail-fast):
//  1. username passes field validation
//  2. availability confirmed for exactly the current username
//  3. password present (edit mode: blank keeps the credential, skip 3-5)
//  4. password passes field validation
//  5. password scores at least Fair
func evaluateAccountSetup(in Input) *models.GateError {
	step := models.StepAccountSetup
	if err := fieldError(step, models.FieldUsername, in); err != nil {
		return err
	}
	if err := availability(step, in); err != nil {
		return err
	}

	password := in.Draft.Password
	if password == "" {
		if in.Mode == models.ModeEdit {
			return nil
		}
		return models.NewGateError(step, models.ReasonPasswordRequired, "Password is required")
	}
	if err := fieldError(step, models.FieldPassword, in); err != nil {
		return err
	}
	if validation.Score(password) < validation.MinSubmitStrength {
		return models.NewGateError(step, models.ReasonPasswordTooWeak,
			"Password is too weak; use at least "+validation.StrengthLabel(validation.MinSubmitStrength)+" strength")
	}
	return nil
}

func availability(step models.Step, in Input) *models.GateError {
	a := in.Availability
	if a.Candidate != strings.TrimSpace(in.Draft.Username) {
		return models.NewGateError(step, models.ReasonUsernameCheckPending, "Checking username availability")
	}
	switch a.Status {
	case models.AvailabilityAvailable:
		return nil
	case models.AvailabilityUnavailable:
		return models.NewGateError(step, models.ReasonUsernameUnavailable, "Username is already taken")
	case models.AvailabilityFailed:
		return models.NewGateError(step, models.ReasonUsernameCheckFailed, "Could not confirm username availability; try again")
	}
	return models.NewGateError(step, models.ReasonUsernameCheckPending, "Checking username availability")
}
