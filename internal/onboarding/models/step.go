package models

import "fmt"

// Step is a wizard stage, 1-based.
type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepContact
	StepEmergencyAddress
	StepIdentityDocuments
	StepProfessional
	StepAccountSetup
)

const (
	FirstStep = StepPersonalInfo
	LastStep  = StepAccountSetup
	StepCount = int(LastStep)
)

// AllSteps in order.
var AllSteps = []Step{
	StepPersonalInfo, StepContact, StepEmergencyAddress,
	StepIdentityDocuments, StepProfessional, StepAccountSetup,
}

func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) Label() string {
	switch s {
	case StepPersonalInfo:
		return "Personal Info"
	case StepContact:
		return "Contact & Verification"
	case StepEmergencyAddress:
		return "Emergency & Address"
	case StepIdentityDocuments:
		return "Identity Documents"
	case StepProfessional:
		return "Professional"
	case StepAccountSetup:
		return "Account Setup"
	}
	return fmt.Sprintf("Step %d", int(s))
}

// Fields lists the draft fields the step edits.
func (s Step) Fields() []Field {
	switch s {
	case StepPersonalInfo:
		return []Field{FieldFirstName, FieldLastName, FieldDateOfBirth, FieldGender}
	case StepContact:
		return []Field{FieldEmail, FieldPhone, FieldAlternatePhone}
	case StepEmergencyAddress:
		return []Field{
			FieldEmergencyContactName, FieldEmergencyContactPhone, FieldEmergencyContactRelation,
			FieldAddressLine1, FieldAddressLine2, FieldCity, FieldState, FieldPostalCode, FieldCountry,
		}
	case StepIdentityDocuments:
		return []Field{FieldPANNumber, FieldAadhaarNumber}
	case StepProfessional:
		return []Field{FieldRole, FieldDesignation, FieldDepartment, FieldBranchID, FieldJoiningDate, FieldEmploymentType}
	case StepAccountSetup:
		return []Field{FieldUsername, FieldPassword}
	}
	return nil
}

// Channels lists the verification channels gating the step.
func (s Step) Channels() []Channel {
	switch s {
	case StepContact:
		return []Channel{ChannelEmail, ChannelPhone}
	case StepIdentityDocuments:
		return []Channel{ChannelPAN, ChannelAadhaar}
	}
	return nil
}

// StepOf returns the step that edits f.
func StepOf(f Field) Step {
	for _, s := range AllSteps {
		for _, sf := range s.Fields() {
			if sf == f {
				return s
			}
		}
	}
	return 0
}
