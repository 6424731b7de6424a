//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"orgdesk/internal/staff/models"
	"orgdesk/internal/staff/store"
	id "orgdesk/pkg/domain"
	"orgdesk/pkg/platform/sentinel"
	"orgdesk/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	tenant   id.TenantID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(context.Background(), "staff"))
	s.tenant = id.TenantID(uuid.New())
}

func (s *PostgresStoreSuite) newStaff(username string) *models.Staff {
	staff, err := models.NewStaff(id.StaffID(uuid.New()), s.tenant, username, "hash",
		models.Profile{FirstName: "Test", Email: username + "@example.com", Phone: "9876543210", Role: "staff", Designation: "Clerk", City: "Pune"},
		models.Verification{EmailVerified: true, PhoneVerified: true, PANHolderName: "TEST USER"},
		true, id.UserID(uuid.New()), time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	return staff
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	staff := s.newStaff("Alice")
	s.Require().NoError(s.store.Create(ctx, staff))

	found, err := s.store.FindByUsername(ctx, s.tenant, "ALICE")
	s.Require().NoError(err)
	s.Equal(staff.ID, found.ID)
	s.Equal("Pune", found.Profile.City)
	s.Equal("TEST USER", found.Verification.PANHolderName)
	s.True(found.Verification.EmailVerified)
	s.Equal(staff.CreatedBy, found.CreatedBy)
	s.True(staff.CreatedAt.Equal(found.CreatedAt))
}

func (s *PostgresStoreSuite) TestUpdateConflictAndNotFound() {
	ctx := context.Background()
	bob := s.newStaff("bob")
	carol := s.newStaff("carol")
	s.Require().NoError(s.store.Create(ctx, bob))
	s.Require().NoError(s.store.Create(ctx, carol))

	bob.Username = "CAROL"
	s.Require().ErrorIs(s.store.Update(ctx, bob), sentinel.ErrConflict)

	ghost := s.newStaff("ghost")
	s.Require().ErrorIs(s.store.Update(ctx, ghost), sentinel.ErrNotFound)
}

// TestConcurrentUniqueUsername verifies that concurrent creation attempts
// with the same username result in exactly one success.
func (s *PostgresStoreSuite) TestConcurrentUniqueUsername() {
	ctx := context.Background()
	const goroutines = 20

	candidates := make([]*models.Staff, goroutines)
	for i := range candidates {
		candidates[i] = s.newStaff("dup")
	}

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for _, candidate := range candidates {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, candidate)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}
