package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"orgdesk/internal/staff/metrics"
	"orgdesk/internal/staff/models"
	"orgdesk/internal/staff/store"
	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
	audit "orgdesk/pkg/platform/audit"
	"orgdesk/pkg/platform/audit/publisher"
	auditmemory "orgdesk/pkg/platform/audit/store/memory"
	"orgdesk/pkg/requestcontext"
	"orgdesk/pkg/secrets"
)

// =============================================================================
// Staff Service Test Suite
// =============================================================================
// Justification for unit tests: error translation from store sentinels to
// domain codes and audit emission are contracts the wizard depends on, and
// they are awkward to force through the HTTP layer.

type StaffServiceSuite struct {
	suite.Suite
	store      *store.InMemory
	auditStore *auditmemory.InMemoryStore
	service    *Service
	tenantID   id.TenantID
	actorID    id.UserID
	now        time.Time
}

func TestStaffServiceSuite(t *testing.T) {
	suite.Run(t, new(StaffServiceSuite))
}

func fastHash(password string) (string, error) {
	return secrets.HashWithCost(password, bcrypt.MinCost)
}

func (s *StaffServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.auditStore = auditmemory.NewInMemoryStore()
	s.tenantID = id.TenantID(uuid.New())
	s.actorID = id.UserID(uuid.New())
	s.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.service = New(s.store,
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
		WithMetrics(metrics.NewWithRegistry(prometheus.NewRegistry())),
		WithPasswordHasher(fastHash),
	)
}

func (s *StaffServiceSuite) ctx() context.Context {
	ctx := requestcontext.WithPrincipal(context.Background(), s.actorID, s.tenantID, "admin", "token")
	return requestcontext.WithTime(ctx, s.now)
}

func (s *StaffServiceSuite) createRequest(username string) models.CreateRequest {
	return models.CreateRequest{
		TenantID: s.tenantID,
		ActorID:  s.actorID,
		Username: username,
		Password: "Str0ng!Pass",
		Profile: models.Profile{
			FirstName: "Asha",
			LastName:  "Rao",
			Email:     "asha@example.com",
			Phone:     "9876543210",
			Role:      "coordinator",
		},
		Verification: models.Verification{EmailVerified: true, PhoneVerified: true},
		IsActive:     true,
	}
}

func (s *StaffServiceSuite) auditActions() []string {
	events, err := s.auditStore.ListByTenant(context.Background(), s.tenantID)
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}

// =============================================================================
// Create
// =============================================================================

func (s *StaffServiceSuite) TestCreate() {
	s.Run("stores hashed password and emits onboarding audit", func() {
		staff, err := s.service.Create(s.ctx(), s.createRequest("asha.rao"))
		s.Require().NoError(err)

		s.NotEqual("Str0ng!Pass", staff.PasswordHash)
		s.NoError(secrets.Verify("Str0ng!Pass", staff.PasswordHash))
		s.Equal(s.now, staff.CreatedAt)
		s.Equal(s.actorID, staff.CreatedBy)
		s.Contains(s.auditActions(), string(audit.EventStaffOnboarded))
	})

	s.Run("duplicate username differing only in case is a conflict", func() {
		_, err := s.service.Create(s.ctx(), s.createRequest("ASHA.RAO"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Contains(s.auditActions(), string(audit.EventUsernameCollision))
	})

	s.Run("missing password is a validation error", func() {
		req := s.createRequest("no.password")
		req.Password = " "
		_, err := s.service.Create(s.ctx(), req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("aggregate invariant surfaces as validation error", func() {
		req := s.createRequest("no.email")
		req.Profile.Email = ""
		_, err := s.service.Create(s.ctx(), req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// =============================================================================
// Update
// =============================================================================

func (s *StaffServiceSuite) TestUpdate() {
	created, err := s.service.Create(s.ctx(), s.createRequest("asha.rao"))
	s.Require().NoError(err)
	originalHash := created.PasswordHash

	s.Run("blank password keeps current credential", func() {
		updated, err := s.service.Update(s.ctx(), models.UpdateRequest{
			TenantID: s.tenantID,
			ActorID:  s.actorID,
			StaffID:  created.ID,
			Username: "asha.rao",
			Profile:  created.Profile,
			IsActive: false,
		})
		s.Require().NoError(err)
		s.Equal(originalHash, updated.PasswordHash)
		s.False(updated.IsActive)
		s.Contains(s.auditActions(), string(audit.EventStaffUpdated))
	})

	s.Run("new password is rehashed", func() {
		updated, err := s.service.Update(s.ctx(), models.UpdateRequest{
			TenantID: s.tenantID,
			ActorID:  s.actorID,
			StaffID:  created.ID,
			Username: "asha.rao",
			Password: "An0ther!Pass",
			Profile:  created.Profile,
			IsActive: true,
		})
		s.Require().NoError(err)
		s.NoError(secrets.Verify("An0ther!Pass", updated.PasswordHash))
	})

	s.Run("renaming onto another staff username conflicts", func() {
		_, err := s.service.Create(s.ctx(), s.createRequest("other.user"))
		s.Require().NoError(err)

		_, err = s.service.Update(s.ctx(), models.UpdateRequest{
			TenantID: s.tenantID,
			ActorID:  s.actorID,
			StaffID:  created.ID,
			Username: "Other.User",
			Profile:  created.Profile,
			IsActive: true,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown staff is not found", func() {
		_, err := s.service.Update(s.ctx(), models.UpdateRequest{
			TenantID: s.tenantID,
			StaffID:  id.StaffID(uuid.New()),
			Username: "ghost",
			Profile:  created.Profile,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// Get and UsernameAvailable
// =============================================================================

func (s *StaffServiceSuite) TestGet() {
	created, err := s.service.Create(s.ctx(), s.createRequest("asha.rao"))
	s.Require().NoError(err)

	s.Run("found within tenant", func() {
		got, err := s.service.Get(s.ctx(), s.tenantID, created.ID)
		s.Require().NoError(err)
		s.Equal(created.ID, got.ID)
	})

	s.Run("other tenant cannot see record", func() {
		_, err := s.service.Get(s.ctx(), id.TenantID(uuid.New()), created.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *StaffServiceSuite) TestUsernameAvailable() {
	created, err := s.service.Create(s.ctx(), s.createRequest("asha.rao"))
	s.Require().NoError(err)

	s.Run("unused username is available", func() {
		ok, err := s.service.UsernameAvailable(s.ctx(), s.tenantID, "new.person", id.StaffID{})
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("taken username compares case-insensitively", func() {
		ok, err := s.service.UsernameAvailable(s.ctx(), s.tenantID, "Asha.Rao", id.StaffID{})
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("record being edited does not collide with itself", func() {
		ok, err := s.service.UsernameAvailable(s.ctx(), s.tenantID, "asha.rao", created.ID)
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("same username is free in another tenant", func() {
		ok, err := s.service.UsernameAvailable(s.ctx(), id.TenantID(uuid.New()), "asha.rao", id.StaffID{})
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("blank candidate is a validation error", func() {
		_, err := s.service.UsernameAvailable(s.ctx(), s.tenantID, "  ", id.StaffID{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
