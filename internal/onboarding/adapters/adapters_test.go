package adapters

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"orgdesk/internal/onboarding/models"
	staffservice "orgdesk/internal/staff/service"
	staffstore "orgdesk/internal/staff/store"
	"orgdesk/internal/verification/challenge"
	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
	"orgdesk/pkg/requestcontext"
	"orgdesk/pkg/secrets"
)

// =============================================================================
// Adapter Test Suite
// =============================================================================
// Justification for unit tests: the adapters translate between the wizard's
// payload and the staff aggregate, and a dropped field or flag here would be
// silently lost on submission.

type AdapterSuite struct {
	suite.Suite
	ctx       context.Context
	directory *StaffDirectory
	principal models.Principal
}

func TestAdapterSuite(t *testing.T) {
	suite.Run(t, new(AdapterSuite))
}

func (s *AdapterSuite) SetupTest() {
	s.ctx = context.Background()
	svc := staffservice.New(staffstore.NewInMemory(), staffservice.WithPasswordHasher(func(p string) (string, error) {
		return secrets.HashWithCost(p, bcrypt.MinCost)
	}))
	s.directory = NewStaffDirectory(svc)
	s.principal = models.Principal{
		UserID:   id.UserID(uuid.New()),
		TenantID: id.TenantID(uuid.New()),
		Role:     "admin",
	}
}

func payload(username string) models.Payload {
	password := "Passw0rd!"
	return models.Payload{
		FirstName:     "Asha",
		LastName:      "Rao",
		Email:         "asha@example.com",
		Phone:         "9876543210",
		City:          "Pune",
		PANNumber:     "ABCDE1234F",
		Role:          "manager",
		Designation:   "Branch Lead",
		Username:      username,
		Password:      &password,
		IsActive:      true,
		EmailVerified: true,
		PhoneVerified: true,
		PANVerified:   true,
		PANHolderName: "ASHA RAO",
	}
}

func (s *AdapterSuite) TestCreateAndLoadForEdit() {
	result, err := s.directory.Create(s.ctx, payload("asha"), s.principal)
	s.Require().NoError(err)
	staffID, err := id.ParseStaffID(result.StaffID)
	s.Require().NoError(err)

	target, err := s.directory.LoadForEdit(s.ctx, s.principal.TenantID, staffID)
	s.Require().NoError(err)
	s.Equal(staffID, target.StaffID)
	s.Equal("Asha", target.Draft.FirstName)
	s.Equal("Pune", target.Draft.City)
	s.Equal("asha", target.Draft.Username)
	s.Empty(target.Draft.Password)
	s.True(target.Draft.IsActive)

	s.True(target.Verified[models.ChannelEmail].Verified)
	s.Equal("asha@example.com", target.Verified[models.ChannelEmail].Value)
	s.Equal("ASHA RAO", target.Verified[models.ChannelPAN].HolderName)
	_, aadhaar := target.Verified[models.ChannelAadhaar]
	s.False(aadhaar)
}

func (s *AdapterSuite) TestUsernameAvailable() {
	result, err := s.directory.Create(s.ctx, payload("asha"), s.principal)
	s.Require().NoError(err)
	staffID, _ := id.ParseStaffID(result.StaffID)

	ok, err := s.directory.UsernameAvailable(s.ctx, s.principal.TenantID, "ASHA", id.StaffID{})
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.directory.UsernameAvailable(s.ctx, s.principal.TenantID, "asha", staffID)
	s.Require().NoError(err)
	s.True(ok)
}

func (s *AdapterSuite) TestUpdate() {
	result, err := s.directory.Create(s.ctx, payload("asha"), s.principal)
	s.Require().NoError(err)
	staffID, _ := id.ParseStaffID(result.StaffID)

	s.Run("blank password keeps the credential", func() {
		p := payload("asha.rao")
		p.Password = nil
		p.IsActive = false
		updated, err := s.directory.Update(s.ctx, staffID, p, s.principal)
		s.Require().NoError(err)
		s.Equal(result.StaffID, updated.StaffID)

		target, err := s.directory.LoadForEdit(s.ctx, s.principal.TenantID, staffID)
		s.Require().NoError(err)
		s.Equal("asha.rao", target.Draft.Username)
		s.False(target.Draft.IsActive)
	})

	s.Run("username collision surfaces the directory message", func() {
		_, err := s.directory.Create(s.ctx, payload("bob"), s.principal)
		s.Require().NoError(err)
		_, err = s.directory.Update(s.ctx, staffID, payload("bob"), s.principal)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal("username is already taken", dErrors.MessageOf(err))
	})

	s.Run("unknown record", func() {
		_, err := s.directory.LoadForEdit(s.ctx, s.principal.TenantID, id.StaffID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (c *captureSender) Send(_ context.Context, channel challenge.Channel, target, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[string(channel)+":"+target] = code
	return nil
}

func (s *AdapterSuite) TestChallengeVerifiers() {
	sender := &captureSender{codes: map[string]string{}}
	svc := challenge.NewService(challenge.NewInMemoryStore(), sender)
	email := NewEmailVerifier(svc)
	phone := NewPhoneVerifier(svc)
	ctx := requestcontext.WithPrincipal(s.ctx, s.principal.UserID, s.principal.TenantID, s.principal.Role, "")

	s.Require().NoError(email.SendChallenge(ctx, "bob@example.com"))
	s.Require().NoError(phone.SendChallenge(ctx, "9876543210"))

	s.Require().NoError(email.Confirm(ctx, "bob@example.com", sender.codes["email:bob@example.com"]))
	err := phone.Confirm(ctx, "9876543210", "not-the-code")
	s.True(dErrors.HasCode(err, dErrors.CodeUnprocessable))
	s.Require().NoError(phone.Confirm(ctx, "9876543210", sender.codes["phone:9876543210"]))

	s.Run("tenant comes from the request context", func() {
		s.Require().NoError(email.SendChallenge(ctx, "carol@example.com"))
		code := sender.codes["email:carol@example.com"]

		other := requestcontext.WithTenantID(s.ctx, id.TenantID(uuid.New()))
		s.True(dErrors.HasCode(email.Confirm(other, "carol@example.com", code), dErrors.CodeUnprocessable))
		s.True(dErrors.HasCode(email.Confirm(s.ctx, "carol@example.com", code), dErrors.CodeUnauthorized))
		s.NoError(email.Confirm(ctx, "carol@example.com", code))
	})
}
