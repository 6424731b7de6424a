package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"orgdesk/internal/onboarding/gate"
	"orgdesk/internal/onboarding/models"
	"orgdesk/internal/onboarding/validation"
)

// =============================================================================
// Step Policy Test Suite
// =============================================================================
// Justification for unit tests: each step fails for exactly one enumerated
// reason and the order of rules is part of the operator-facing contract.

type PolicySuite struct {
	suite.Suite
	draft models.DraftRecord
	gate  *gate.Gate
	in    Input
}

func TestPolicySuite(t *testing.T) {
	suite.Run(t, new(PolicySuite))
}

func (s *PolicySuite) SetupTest() {
	s.draft = models.NewDraft()
	s.gate = gate.New()
	s.in = Input{
		Mode:      models.ModeCreate,
		Draft:     &s.draft,
		Errors:    models.ValidationErrors{},
		Validator: validation.New(models.ModeCreate),
		Gate:      s.gate,
	}
}

func (s *PolicySuite) requireReason(step models.Step, reason models.Reason) *models.GateError {
	err := Evaluate(step, s.in)
	s.Require().NotNil(err, "expected %s to block", step.Label())
	s.Equal(reason, err.Reason)
	s.Equal(step, err.Step)
	return err
}

func (s *PolicySuite) TestPersonalInfo() {
	s.Run("untouched names block with the first name error", func() {
		err := s.requireReason(models.StepPersonalInfo, models.ReasonInvalidField)
		s.Equal(models.FieldFirstName, err.Field)
		s.Equal("First name is required", err.Message)
	})

	s.Run("short last name blocks", func() {
		s.draft.FirstName = "Bob"
		s.draft.LastName = "S"
		err := s.requireReason(models.StepPersonalInfo, models.ReasonInvalidField)
		s.Equal(models.FieldLastName, err.Field)
	})

	s.Run("recorded error wins over current value", func() {
		s.draft.LastName = "Smith"
		s.in.Errors[models.FieldLastName] = models.ValidationError{Field: models.FieldLastName, Kind: models.KindTooShort, Message: "stale"}
		s.Equal("stale", s.requireReason(models.StepPersonalInfo, models.ReasonInvalidField).Message)
	})

	s.Run("valid names pass", func() {
		delete(s.in.Errors, models.FieldLastName)
		s.Nil(Evaluate(models.StepPersonalInfo, s.in))
	})
}

func (s *PolicySuite) TestContact() {
	s.draft.Email = "bob@example.com"
	s.draft.Phone = "9876543210"

	s.Equal("Email verification required", s.requireReason(models.StepContact, models.ReasonEmailUnverified).Message)

	s.gate.MarkVerified(models.ChannelEmail, s.draft.Email, s.draft.Email, "", time.Now())
	s.Equal("Phone verification required", s.requireReason(models.StepContact, models.ReasonPhoneUnverified).Message)

	s.gate.MarkVerified(models.ChannelPhone, s.draft.Phone, s.draft.Phone, "", time.Now())
	s.Nil(Evaluate(models.StepContact, s.in))

	s.draft.Phone = "9876543211"
	s.gate.OnValueChanged(models.ChannelPhone, s.draft.Phone)
	s.requireReason(models.StepContact, models.ReasonPhoneUnverified)

	s.draft.Email = "not-an-email"
	s.requireReason(models.StepContact, models.ReasonInvalidField)
}

func (s *PolicySuite) TestEmergencyAddressAlwaysValid() {
	s.draft.PostalCode = "bad"
	s.Nil(Evaluate(models.StepEmergencyAddress, s.in))
}

func (s *PolicySuite) TestIdentityDocuments() {
	s.Run("empty documents pass", func() {
		s.Nil(Evaluate(models.StepIdentityDocuments, s.in))
	})

	s.Run("unverified PAN blocks before Aadhaar", func() {
		s.draft.PANNumber = "ABCDE1234F"
		s.draft.AadhaarNumber = "234567890123"
		s.requireReason(models.StepIdentityDocuments, models.ReasonPANUnverified)
	})

	s.Run("verified PAN leaves Aadhaar", func() {
		s.gate.MarkVerified(models.ChannelPAN, "ABCDE1234F", s.draft.PANNumber, "", time.Now())
		s.requireReason(models.StepIdentityDocuments, models.ReasonAadhaarUnverified)
	})

	s.Run("both verified pass", func() {
		s.gate.MarkVerified(models.ChannelAadhaar, "2345 6789 0123", s.draft.AadhaarNumber, "", time.Now())
		s.Nil(Evaluate(models.StepIdentityDocuments, s.in))
	})
}

func (s *PolicySuite) TestProfessional() {
	s.requireReason(models.StepProfessional, models.ReasonRoleRequired)
	s.draft.Role = "coordinator"
	s.requireReason(models.StepProfessional, models.ReasonDesignationRequired)
	s.draft.Designation = "Senior Coordinator"
	s.Nil(Evaluate(models.StepProfessional, s.in))
}

func (s *PolicySuite) TestAccountSetup() {
	s.Run("username validation comes first", func() {
		s.draft.Username = "bo"
		s.requireReason(models.StepAccountSetup, models.ReasonInvalidField)
	})

	s.Run("availability must match current username", func() {
		s.draft.Username = "bob2"
		s.in.Availability = models.AvailabilityState{Candidate: "bob", Status: models.AvailabilityAvailable}
		s.requireReason(models.StepAccountSetup, models.ReasonUsernameCheckPending)

		s.in.Availability = models.AvailabilityState{Candidate: "bob2", Status: models.AvailabilityChecking}
		s.requireReason(models.StepAccountSetup, models.ReasonUsernameCheckPending)
	})

	s.Run("unavailable and failed checks block", func() {
		s.draft.Username = "bob"
		s.in.Availability = models.AvailabilityState{Candidate: "bob", Status: models.AvailabilityUnavailable}
		s.requireReason(models.StepAccountSetup, models.ReasonUsernameUnavailable)

		s.in.Availability.Status = models.AvailabilityFailed
		s.requireReason(models.StepAccountSetup, models.ReasonUsernameCheckFailed)
	})

	s.Run("password rules in order", func() {
		s.in.Availability = models.AvailabilityState{Candidate: "bob", Status: models.AvailabilityAvailable}
		s.requireReason(models.StepAccountSetup, models.ReasonPasswordRequired)

		s.draft.Password = "abc"
		s.requireReason(models.StepAccountSetup, models.ReasonInvalidField)

		s.draft.Password = "abcdefgh"
		s.requireReason(models.StepAccountSetup, models.ReasonPasswordTooWeak)

		s.draft.Password = "Abcdefgh"
		s.Nil(Evaluate(models.StepAccountSetup, s.in))
	})

	s.Run("edit mode blank password passes", func() {
		s.draft.Password = ""
		s.in.Mode = models.ModeEdit
		s.in.Validator = validation.New(models.ModeEdit)
		s.Nil(Evaluate(models.StepAccountSetup, s.in))
	})
}

func TestEvaluate_UnknownStep(t *testing.T) {
	draft := models.NewDraft()
	err := Evaluate(models.Step(9), Input{Draft: &draft})
	require.NotNil(t, err)
	assert.Equal(t, models.Step(9), err.Step)
}
