package challenge

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
	"orgdesk/pkg/platform/sentinel"
	"orgdesk/pkg/secrets"
)

const (
	defaultTTL         = 10 * time.Minute
	defaultMaxAttempts = 5
	defaultCodeLength  = 6
)

// Store persists pending challenges by Key. IncrementAttempts must be atomic
// and return sentinel.ErrNotFound once the challenge is gone.
type Store interface {
	Save(ctx context.Context, c Challenge) error
	Get(ctx context.Context, key Key) (*Challenge, error)
	IncrementAttempts(ctx context.Context, key Key) (int, error)
	Delete(ctx context.Context, key Key) error
}

// Service runs send-and-confirm flows for email and phone.
type Service struct {
	store       Store
	sender      Sender
	logger      *slog.Logger
	metrics     *Metrics
	ttl         time.Duration
	maxAttempts int
	codeLength  int
	now         func() time.Time
	verify      func(code, hash string) error
}

type Option func(*Service)

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithCodeLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.codeLength = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store Store, sender Sender, opts ...Option) *Service {
	s := &Service{
		store:       store,
		sender:      sender,
		logger:      slog.Default(),
		ttl:         defaultTTL,
		maxAttempts: defaultMaxAttempts,
		codeLength:  defaultCodeLength,
		now:         time.Now,
		verify:      secrets.Verify,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendChallenge issues a fresh code for target in tenantID, replacing any
// pending one.
func (s *Service) SendChallenge(ctx context.Context, tenantID id.TenantID, channel Channel, target string) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "tenant is required")
	}
	target = channel.Normalize(target)
	if target == "" {
		return dErrors.New(dErrors.CodeValidation, string(channel)+" is required")
	}
	key := Key{TenantID: tenantID, Channel: channel, Target: target}

	code, err := secrets.NumericCode(s.codeLength)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate code")
	}
	hash, err := secrets.HashWithCost(code, bcrypt.MinCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash code")
	}

	now := s.now()
	if err := s.store.Save(ctx, Challenge{
		TenantID:  tenantID,
		Channel:   channel,
		Target:    target,
		CodeHash:  hash,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store challenge")
	}

	if err := s.sender.Send(ctx, channel, target, code); err != nil {
		_ = s.store.Delete(ctx, key)
		s.logger.ErrorContext(ctx, "failed to deliver verification code",
			"channel", string(channel),
			"target", Mask(channel, target),
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "could not deliver verification code")
	}
	s.metrics.IncrementSent(channel)
	return nil
}

// Confirm checks code against the pending challenge. Each call spends one
// attempt before the code is compared, so concurrent guesses never exceed
// the maximum. The challenge is spent on success, on expiry, and once
// attempts reach the maximum.
func (s *Service) Confirm(ctx context.Context, tenantID id.TenantID, channel Channel, target, code string) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "tenant is required")
	}
	key := Key{TenantID: tenantID, Channel: channel, Target: channel.Normalize(target)}
	code = strings.TrimSpace(code)
	if code == "" {
		return dErrors.New(dErrors.CodeValidation, "code is required")
	}

	c, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return s.noChallenge(channel)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load challenge")
	}
	if c.Expired(s.now()) {
		_ = s.store.Delete(ctx, key)
		s.metrics.IncrementRejected(channel, "expired")
		return dErrors.New(dErrors.CodeUnprocessable, "verification code expired")
	}

	attempts, err := s.store.IncrementAttempts(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return s.noChallenge(channel)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record attempt")
	}
	if attempts > s.maxAttempts {
		return s.exhausted(ctx, key)
	}

	if err := s.verify(code, c.CodeHash); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify code")
		}
		if attempts >= s.maxAttempts {
			return s.exhausted(ctx, key)
		}
		s.metrics.IncrementRejected(channel, "invalid_code")
		return dErrors.New(dErrors.CodeUnprocessable, "invalid verification code")
	}

	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "failed to delete spent challenge", "error", err)
	}
	s.metrics.IncrementConfirmed(channel)
	return nil
}

func (s *Service) noChallenge(channel Channel) error {
	s.metrics.IncrementRejected(channel, "no_challenge")
	return dErrors.New(dErrors.CodeUnprocessable, "no pending verification code")
}

func (s *Service) exhausted(ctx context.Context, key Key) error {
	_ = s.store.Delete(ctx, key)
	s.metrics.IncrementRejected(key.Channel, "too_many_attempts")
	return dErrors.New(dErrors.CodeUnprocessable, "too many attempts")
}
