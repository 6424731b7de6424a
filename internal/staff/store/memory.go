package store

import (
	"context"
	"sync"

	"orgdesk/internal/staff/models"
	id "orgdesk/pkg/domain"
	"orgdesk/pkg/platform/sentinel"
)

type usernameIndexKey struct {
	tenant id.TenantID
	key    string
}

// InMemory is a process-local staff store.
type InMemory struct {
	mu         sync.RWMutex
	byID       map[id.StaffID]*models.Staff
	byUsername map[usernameIndexKey]id.StaffID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:       make(map[id.StaffID]*models.Staff),
		byUsername: make(map[usernameIndexKey]id.StaffID),
	}
}

// Create inserts staff. Returns sentinel.ErrConflict when the tenant already
// has the username.
func (s *InMemory) Create(_ context.Context, staff *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := usernameIndexKey{tenant: staff.TenantID, key: staff.UsernameKey()}
	if _, taken := s.byUsername[key]; taken {
		return sentinel.ErrConflict
	}
	if _, exists := s.byID[staff.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *staff
	s.byID[staff.ID] = &cp
	s.byUsername[key] = staff.ID
	return nil
}

// Update replaces staff, re-indexing the username when it changed.
func (s *InMemory) Update(_ context.Context, staff *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[staff.ID]
	if !ok || current.TenantID != staff.TenantID {
		return sentinel.ErrNotFound
	}
	oldKey := usernameIndexKey{tenant: current.TenantID, key: current.UsernameKey()}
	newKey := usernameIndexKey{tenant: staff.TenantID, key: staff.UsernameKey()}
	if owner, taken := s.byUsername[newKey]; taken && owner != staff.ID {
		return sentinel.ErrConflict
	}
	delete(s.byUsername, oldKey)
	cp := *staff
	s.byID[staff.ID] = &cp
	s.byUsername[newKey] = staff.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	staff, ok := s.byID[staffID]
	if !ok || staff.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	cp := *staff
	return &cp, nil
}

// FindByUsername looks up by the case-folded username key.
func (s *InMemory) FindByUsername(_ context.Context, tenantID id.TenantID, username string) (*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	staffID, ok := s.byUsername[usernameIndexKey{tenant: tenantID, key: models.UsernameKey(username)}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.byID[staffID]
	return &cp, nil
}

func (s *InMemory) CountByTenant(_ context.Context, tenantID id.TenantID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, staff := range s.byID {
		if staff.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}
