package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"orgdesk/internal/staff/metrics"
	"orgdesk/internal/staff/models"
	"orgdesk/pkg/attrs"
	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
	audit "orgdesk/pkg/platform/audit"
	"orgdesk/pkg/platform/sentinel"
	"orgdesk/pkg/requestcontext"
	"orgdesk/pkg/secrets"
)

type Store interface {
	Create(ctx context.Context, staff *models.Staff) error
	Update(ctx context.Context, staff *models.Staff) error
	FindByID(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error)
	FindByUsername(ctx context.Context, tenantID id.TenantID, username string) (*models.Staff, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// PasswordHasher turns a plaintext password into a stored hash.
type PasswordHasher func(password string) (string, error)

// Service manages the tenant staff directory.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	hash           PasswordHasher
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithPasswordHasher overrides bcrypt at the default cost.
func WithPasswordHasher(h PasswordHasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hash = h
		}
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, hash: secrets.Hash}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new staff member and returns the stored record.
func (s *Service) Create(ctx context.Context, req models.CreateRequest) (*models.Staff, error) {
	if strings.TrimSpace(req.Password) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "password is required")
	}
	hash, err := s.hash(req.Password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return nil, dErrors.New(dErrors.CodeValidation, "password is not acceptable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	staff, err := models.NewStaff(
		id.StaffID(uuid.New()),
		req.TenantID,
		req.Username,
		hash,
		req.Profile,
		req.Verification,
		req.IsActive,
		req.ActorID,
		requestcontext.Now(ctx),
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.store.Create(ctx, staff); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementUsernameConflict()
			s.logAudit(ctx, string(audit.EventUsernameCollision),
				"tenant_id", req.TenantID.String(),
				"username", staff.Username)
			return nil, dErrors.New(dErrors.CodeConflict, "username is already taken")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create staff")
	}

	s.logAudit(ctx, string(audit.EventStaffOnboarded),
		"tenant_id", staff.TenantID.String(),
		"staff_id", staff.ID.String(),
		"username", staff.Username)
	s.metrics.IncrementStaffCreated()
	return staff, nil
}

// Update replaces an existing staff member's details. A blank password keeps
// the current credential.
func (s *Service) Update(ctx context.Context, req models.UpdateRequest) (*models.Staff, error) {
	staff, err := s.store.FindByID(ctx, req.TenantID, req.StaffID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "staff not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load staff")
	}

	changes := models.Changes{
		Username:     req.Username,
		Profile:      req.Profile,
		Verification: req.Verification,
		IsActive:     req.IsActive,
	}
	if req.Password != "" {
		changes.PasswordHash, err = s.hash(req.Password)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
				return nil, dErrors.New(dErrors.CodeValidation, "password is not acceptable")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
		}
	}

	if err := staff.ApplyChanges(changes, req.ActorID, requestcontext.Now(ctx)); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.store.Update(ctx, staff); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			s.metrics.IncrementUsernameConflict()
			return nil, dErrors.New(dErrors.CodeConflict, "username is already taken")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "staff not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update staff")
	}

	s.logAudit(ctx, string(audit.EventStaffUpdated),
		"tenant_id", staff.TenantID.String(),
		"staff_id", staff.ID.String(),
		"password_changed", req.Password != "")
	s.metrics.IncrementStaffUpdated()
	return staff, nil
}

// Get returns a staff record of the tenant.
func (s *Service) Get(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error) {
	staff, err := s.store.FindByID(ctx, tenantID, staffID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "staff not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load staff")
	}
	return staff, nil
}

// UsernameAvailable reports whether candidate is free in the tenant. When
// excludeID is set, the record it names does not count as a collision.
func (s *Service) UsernameAvailable(ctx context.Context, tenantID id.TenantID, candidate string, excludeID id.StaffID) (bool, error) {
	start := time.Now()
	defer s.metrics.ObserveAvailability(start)

	if strings.TrimSpace(candidate) == "" {
		return false, dErrors.New(dErrors.CodeValidation, "username is required")
	}
	existing, err := s.store.FindByUsername(ctx, tenantID, candidate)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return true, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check username")
	}
	if !excludeID.IsNil() && existing.ID == excludeID {
		return true, nil
	}
	return false, nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
	if s.auditPublisher == nil {
		return
	}
	ev := audit.Event{
		TenantID:  requestcontext.TenantID(ctx),
		ActorID:   requestcontext.UserID(ctx),
		Action:    event,
		Subject:   attrs.ExtractString(attributes, "username"),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	}
	if tenantID, err := id.ParseTenantID(attrs.ExtractString(attributes, "tenant_id")); err == nil {
		ev.TenantID = tenantID
	}
	if staffID, err := id.ParseStaffID(attrs.ExtractString(attributes, "staff_id")); err == nil {
		ev.StaffID = staffID
	}
	if err := s.auditPublisher.Emit(ctx, ev); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", event, "error", err)
	}
}
