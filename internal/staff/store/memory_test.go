package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"orgdesk/internal/staff/models"
	id "orgdesk/pkg/domain"
	"orgdesk/pkg/platform/sentinel"
)

type StaffStoreSuite struct {
	suite.Suite
	store  *InMemory
	ctx    context.Context
	tenant id.TenantID
}

func TestStaffStoreSuite(t *testing.T) {
	suite.Run(t, new(StaffStoreSuite))
}

func (s *StaffStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.tenant = id.TenantID(uuid.New())
}

func (s *StaffStoreSuite) newStaff(tenant id.TenantID, username string) *models.Staff {
	staff, err := models.NewStaff(id.StaffID(uuid.New()), tenant, username, "hash",
		models.Profile{Email: username + "@example.com", Role: "staff"},
		models.Verification{}, true, id.UserID(uuid.New()), time.Now())
	s.Require().NoError(err)
	return staff
}

// TestCreationAndLookups verifies the store correctly creates and retrieves staff.
func (s *StaffStoreSuite) TestCreationAndLookups() {
	staff := s.newStaff(s.tenant, "Alice")
	s.Require().NoError(s.store.Create(s.ctx, staff))

	s.Run("finds by id within tenant", func() {
		found, err := s.store.FindByID(s.ctx, s.tenant, staff.ID)
		s.Require().NoError(err)
		s.Equal("Alice", found.Username)
	})

	s.Run("finds by username ignoring case", func() {
		found, err := s.store.FindByUsername(s.ctx, s.tenant, "aLiCe")
		s.Require().NoError(err)
		s.Equal(staff.ID, found.ID)
	})

	s.Run("other tenant cannot see record", func() {
		_, err := s.store.FindByID(s.ctx, id.TenantID(uuid.New()), staff.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned copies do not alias the store", func() {
		found, err := s.store.FindByID(s.ctx, s.tenant, staff.ID)
		s.Require().NoError(err)
		found.Username = "mutated"
		again, err := s.store.FindByID(s.ctx, s.tenant, staff.ID)
		s.Require().NoError(err)
		s.Equal("Alice", again.Username)
	})
}

// TestUsernameUniqueness verifies per-tenant, case-insensitive uniqueness.
func (s *StaffStoreSuite) TestUsernameUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, s.newStaff(s.tenant, "bob")))

	s.Run("rejects duplicate with different case", func() {
		err := s.store.Create(s.ctx, s.newStaff(s.tenant, "BOB"))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("same username allowed in another tenant", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newStaff(id.TenantID(uuid.New()), "bob")))
	})
}

// TestUpdate verifies re-indexing on rename and conflict detection.
func (s *StaffStoreSuite) TestUpdate() {
	bob := s.newStaff(s.tenant, "bob")
	carol := s.newStaff(s.tenant, "carol")
	s.Require().NoError(s.store.Create(s.ctx, bob))
	s.Require().NoError(s.store.Create(s.ctx, carol))

	s.Run("rename frees the old username", func() {
		bob.Username = "robert"
		s.Require().NoError(s.store.Update(s.ctx, bob))

		_, err := s.store.FindByUsername(s.ctx, s.tenant, "bob")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		found, err := s.store.FindByUsername(s.ctx, s.tenant, "Robert")
		s.Require().NoError(err)
		s.Equal(bob.ID, found.ID)
	})

	s.Run("rename onto another member conflicts", func() {
		bob.Username = "Carol"
		s.Require().ErrorIs(s.store.Update(s.ctx, bob), sentinel.ErrConflict)
	})

	s.Run("unknown record not found", func() {
		ghost := s.newStaff(s.tenant, "ghost")
		s.Require().ErrorIs(s.store.Update(s.ctx, ghost), sentinel.ErrNotFound)
	})

	s.Run("count by tenant", func() {
		n, err := s.store.CountByTenant(s.ctx, s.tenant)
		s.Require().NoError(err)
		s.Equal(2, n)
	})
}
