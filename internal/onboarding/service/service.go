// Package service hosts onboarding wizard sessions for HTTP callers and
// routes verification collaborator results into them.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"orgdesk/internal/onboarding/availability"
	"orgdesk/internal/onboarding/metrics"
	"orgdesk/internal/onboarding/models"
	"orgdesk/internal/onboarding/ports"
	"orgdesk/internal/onboarding/validation"
	"orgdesk/internal/onboarding/wizard"
	"orgdesk/pkg/attrs"
	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
	"orgdesk/pkg/email"
	audit "orgdesk/pkg/platform/audit"
	"orgdesk/pkg/platform/middleware/metadata"
	"orgdesk/pkg/requestcontext"
)

const (
	defaultIdleTTL        = 30 * time.Minute
	defaultDebounceWindow = 400 * time.Millisecond
)

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Ports groups the collaborators the wizard consumes.
type Ports struct {
	Lookup    ports.UsernameLookup
	Directory ports.StaffDirectory
	Reader    ports.StaffReader
	Email     ports.EmailVerifier
	Phone     ports.PhoneVerifier
	Documents ports.DocumentVerifier
}

// SchedulerFactory returns a fresh scheduler for each session.
type SchedulerFactory func() wizard.Scheduler

// OpenRequest opens a session. StaffID is required in edit mode.
type OpenRequest struct {
	Mode    models.Mode
	StaffID id.StaffID
}

// View is a session snapshot addressed by its id.
type View struct {
	ID id.SessionID `json:"id"`
	wizard.Session
	SuggestedUsername string `json:"suggested_username,omitempty"`
}

type entry struct {
	wizard   *wizard.Controller
	lastSeen time.Time
}

// Service is the session registry. Each session is owned by one tenant and
// is invisible to others.
type Service struct {
	ports   Ports
	checker *availability.Checker

	mu       sync.Mutex
	sessions map[id.SessionID]*entry

	idleTTL        time.Duration
	debounceWindow time.Duration
	newScheduler   SchedulerFactory

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         oteltrace.Tracer
	now            func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithTracer(tracer oteltrace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithIdleTTL sets how long an untouched session survives the sweep.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

// WithDebounceWindow sets the quiet period before a username lookup.
func WithDebounceWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.debounceWindow = window
		}
	}
}

// WithSchedulerFactory replaces the per-session debouncer.
func WithSchedulerFactory(f SchedulerFactory) Option {
	return func(s *Service) {
		s.newScheduler = f
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(p Ports, opts ...Option) *Service {
	s := &Service{
		ports:          p,
		checker:        availability.NewChecker(p.Lookup),
		sessions:       make(map[id.SessionID]*entry),
		idleTTL:        defaultIdleTTL,
		debounceWindow: defaultDebounceWindow,
		logger:         slog.Default(),
		tracer:         otel.Tracer("orgdesk/onboarding"),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newScheduler == nil {
		window := s.debounceWindow
		s.newScheduler = func() wizard.Scheduler { return availability.NewDebouncer(window) }
	}
	return s
}

func principalFrom(ctx context.Context) (models.Principal, error) {
	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		return models.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "tenant context is required")
	}
	return models.Principal{
		UserID:      requestcontext.UserID(ctx),
		TenantID:    tenantID,
		Role:        requestcontext.Role(ctx),
		BearerToken: requestcontext.BearerToken(ctx),
	}, nil
}

func (s *Service) startSpan(ctx context.Context, name string, sessionID id.SessionID) (context.Context, oteltrace.Span) {
	return s.tracer.Start(ctx, "onboarding."+name,
		oteltrace.WithAttributes(attribute.String("session_id", sessionID.String())))
}

func endSpan(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Open starts a wizard session. In edit mode the staff record is loaded and
// seeds the draft.
func (s *Service) Open(ctx context.Context, req OpenRequest) (_ *View, err error) {
	ctx, span := s.tracer.Start(ctx, "onboarding.open",
		oteltrace.WithAttributes(attribute.String("mode", string(req.Mode))))
	defer func() { endSpan(span, err) }()

	principal, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.Mode == "" {
		req.Mode = models.ModeCreate
	}
	cfg := wizard.Config{Mode: req.Mode, Principal: principal}
	if req.Mode == models.ModeEdit {
		if req.StaffID.IsNil() {
			return nil, dErrors.New(dErrors.CodeValidation, "staff_id is required in edit mode")
		}
		target, err := s.ports.Reader.LoadForEdit(ctx, principal.TenantID, req.StaffID)
		if err != nil {
			return nil, err
		}
		cfg.Edit = target
	}

	w, err := wizard.New(cfg, s.checker, s.ports.Directory,
		wizard.WithScheduler(s.newScheduler()),
		wizard.WithLogger(s.logger),
		wizard.WithClock(s.now),
	)
	if err != nil {
		return nil, err
	}
	sessionID := id.SessionID(uuid.New())
	s.mu.Lock()
	s.sessions[sessionID] = &entry{wizard: w, lastSeen: s.now()}
	s.mu.Unlock()

	s.metrics.SessionOpened(string(req.Mode))
	attributes := []any{
		"tenant_id", principal.TenantID.String(),
		"session_id", sessionID.String(),
		"mode", string(req.Mode),
	}
	if req.Mode == models.ModeEdit {
		attributes = append(attributes, "staff_id", req.StaffID.String())
	}
	s.logAudit(ctx, string(audit.EventSessionOpened), attributes...)
	return s.view(sessionID, w), nil
}

// lookup returns the caller's session and refreshes its idle timer. Sessions
// of other tenants read as not found.
func (s *Service) lookup(ctx context.Context, sessionID id.SessionID) (*wizard.Controller, error) {
	principal, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok || e.wizard.Principal().TenantID != principal.TenantID {
		return nil, dErrors.New(dErrors.CodeNotFound, "onboarding session not found")
	}
	e.lastSeen = s.now()
	return e.wizard, nil
}

func (s *Service) remove(sessionID id.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

func (s *Service) view(sessionID id.SessionID, w *wizard.Controller) *View {
	v := &View{ID: sessionID, Session: w.Snapshot()}
	if strings.TrimSpace(v.Draft.Username) == "" {
		v.SuggestedUsername = email.SuggestUsername(v.Draft.Email)
	}
	return v
}

// Get returns the session snapshot.
func (s *Service) Get(ctx context.Context, sessionID id.SessionID) (*View, error) {
	w, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, w), nil
}

// FieldUpdate is a batch of edits. Unknown field names reject the whole
// batch before anything is applied.
type FieldUpdate struct {
	Fields   map[string]string
	IsActive *bool
}

// SetFields applies edits in form order, re-validating each touched field.
func (s *Service) SetFields(ctx context.Context, sessionID id.SessionID, update FieldUpdate) (_ *View, err error) {
	ctx, span := s.startSpan(ctx, "set_fields", sessionID)
	defer func() { endSpan(span, err) }()

	w, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	parsed := make(map[models.Field]string, len(update.Fields))
	for name, value := range update.Fields {
		f, err := models.ParseField(name)
		if err != nil {
			return nil, err
		}
		parsed[f] = value
	}
	for _, f := range models.AllFields {
		value, ok := parsed[f]
		if !ok {
			continue
		}
		if err := w.SetField(f, value); err != nil {
			return nil, err
		}
	}
	if update.IsActive != nil {
		if err := w.SetActive(*update.IsActive); err != nil {
			return nil, err
		}
	}
	return s.view(sessionID, w), nil
}

// Advance moves the session forward. A refusal is a *models.GateError.
func (s *Service) Advance(ctx context.Context, sessionID id.SessionID) (_ *View, err error) {
	ctx, span := s.startSpan(ctx, "advance", sessionID)
	defer func() { endSpan(span, err) }()

	w, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := w.Advance(ctx); err != nil {
		s.recordBlocked(ctx, sessionID, w, err)
		return nil, err
	}
	return s.view(sessionID, w), nil
}

// Retreat moves the session back one step.
func (s *Service) Retreat(ctx context.Context, sessionID id.SessionID) (_ *View, err error) {
	ctx, span := s.startSpan(ctx, "retreat", sessionID)
	defer func() { endSpan(span, err) }()

	w, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := w.Retreat(ctx); err != nil {
		return nil, err
	}
	return s.view(sessionID, w), nil
}

func (s *Service) recordBlocked(ctx context.Context, sessionID id.SessionID, w *wizard.Controller, err error) {
	var gerr *models.GateError
	if !errors.As(err, &gerr) {
		return
	}
	s.metrics.IncrementStepBlocked(int(gerr.Step), string(gerr.Reason))
	s.logAudit(ctx, string(audit.EventStepBlocked),
		"tenant_id", w.Principal().TenantID.String(),
		"session_id", sessionID.String(),
		"reason", string(gerr.Reason))
}

// Submit hands the assembled payload to the staff directory. A successful
// session is removed from the registry; the returned view is its final state.
func (s *Service) Submit(ctx context.Context, sessionID id.SessionID) (_ *View, err error) {
	ctx, span := s.startSpan(ctx, "submit", sessionID)
	defer func() { endSpan(span, err) }()

	w, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	mode := string(w.Mode())
	result, err := w.Submit(ctx)
	if err != nil {
		var serr *models.SubmissionError
		if errors.As(err, &serr) {
			s.metrics.IncrementSubmission(mode, "failed")
			s.logAudit(ctx, string(audit.EventSubmissionFailed),
				"tenant_id", w.Principal().TenantID.String(),
				"session_id", sessionID.String(),
				"reason", serr.Message)
		} else {
			s.recordBlocked(ctx, sessionID, w, err)
		}
		return nil, err
	}

	s.metrics.IncrementSubmission(mode, "succeeded")
	v := s.view(sessionID, w)
	if s.remove(sessionID) {
		s.metrics.SessionEnded("submitted")
	}
	s.logger.InfoContext(ctx, "onboarding session submitted",
		"session_id", sessionID.String(),
		"staff_id", result.StaffID,
		"request_id", requestcontext.RequestID(ctx))
	return v, nil
}

// Cancel closes and forgets the session, discarding its draft.
func (s *Service) Cancel(ctx context.Context, sessionID id.SessionID) (err error) {
	ctx, span := s.startSpan(ctx, "cancel", sessionID)
	defer func() { endSpan(span, err) }()

	w, err := s.lookup(ctx, sessionID)
	if err != nil {
		return err
	}
	w.Close(ctx)
	if s.remove(sessionID) {
		s.metrics.SessionEnded("cancelled")
		s.logAudit(ctx, string(audit.EventSessionCancelled),
			"tenant_id", w.Principal().TenantID.String(),
			"session_id", sessionID.String())
	}
	return nil
}

// currentValue returns the draft value for a verification channel, rejecting
// blank or malformed values before a collaborator is called.
func currentValue(w *wizard.Controller, ch models.Channel) (string, error) {
	f := ch.Field()
	draft := w.Draft()
	value := draft.Value(f)
	if strings.TrimSpace(value) == "" {
		return "", dErrors.New(dErrors.CodeValidation, f.Label()+" is required")
	}
	if verr := validation.New(w.Mode()).Validate(f, value); verr != nil {
		return "", dErrors.New(dErrors.CodeValidation, verr.Message)
	}
	return value, nil
}

// challenger is the method set shared by the email and phone verifiers.
type challenger interface {
	SendChallenge(ctx context.Context, target string) error
	Confirm(ctx context.Context, target, code string) error
}

func challengeVerifier(p Ports, ch models.Channel) (challenger, error) {
	switch ch {
	case models.ChannelEmail:
		return p.Email, nil
	case models.ChannelPhone:
		return p.Phone, nil
	}
	return nil, dErrors.New(dErrors.CodeBadRequest, "challenges are only available for email and phone")
}

// SendChallenge asks the channel's collaborator to send a code to the value
// currently in the draft.
func (s *Service) SendChallenge(ctx context.Context, sessionID id.SessionID, ch models.Channel) (err error) {
	ctx, span := s.startSpan(ctx, "send_challenge", sessionID)
	span.SetAttributes(attribute.String("channel", string(ch)))
	defer func() { endSpan(span, err) }()

	verifier, err := challengeVerifier(s.ports, ch)
	if err != nil {
		return err
	}
	w, err := s.lookup(ctx, sessionID)
	if err != nil {
		return err
	}
	value, err := currentValue(w, ch)
	if err != nil {
		return err
	}
	if err := verifier.SendChallenge(ctx, value); err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventChallengeSent),
		"tenant_id", w.Principal().TenantID.String(),
		"session_id", sessionID.String(),
		"channel", string(ch))
	return nil
}

// ConfirmChallenge checks code and, on success, delivers the verification to
// the session. A success for a value edited meanwhile is discarded by the
// wizard.
func (s *Service) ConfirmChallenge(ctx context.Context, sessionID id.SessionID, ch models.Channel, code string) (_ *View, err error) {
	ctx, span := s.startSpan(ctx, "confirm_challenge", sessionID)
	span.SetAttributes(attribute.String("channel", string(ch)))
	defer func() { endSpan(span, err) }()

	verifier, err := challengeVerifier(s.ports, ch)
	if err != nil {
		return nil, err
	}
	w, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	value, err := currentValue(w, ch)
	if err != nil {
		return nil, err
	}
	if err := verifier.Confirm(ctx, value, code); err != nil {
		s.verificationFailed(ctx, sessionID, w, ch, err)
		return nil, err
	}
	s.verificationPassed(ctx, sessionID, w, wizard.VerificationSucceeded{Channel: ch, Value: value, At: s.now()})
	return s.view(sessionID, w), nil
}

// VerifyDocument checks the PAN or Aadhaar number in the draft against the
// registry and delivers a success to the session.
func (s *Service) VerifyDocument(ctx context.Context, sessionID id.SessionID, ch models.Channel) (_ *View, err error) {
	ctx, span := s.startSpan(ctx, "verify_document", sessionID)
	span.SetAttributes(attribute.String("channel", string(ch)))
	defer func() { endSpan(span, err) }()

	if ch != models.ChannelPAN && ch != models.ChannelAadhaar {
		return nil, dErrors.New(dErrors.CodeBadRequest, "document verification is only available for pan and aadhaar")
	}
	w, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	value, err := currentValue(w, ch)
	if err != nil {
		return nil, err
	}

	var holder string
	if ch == models.ChannelPAN {
		holder, err = s.ports.Documents.VerifyPAN(ctx, value)
	} else {
		err = s.ports.Documents.VerifyAadhaar(ctx, value)
	}
	if err != nil {
		s.verificationFailed(ctx, sessionID, w, ch, err)
		return nil, err
	}
	s.verificationPassed(ctx, sessionID, w, wizard.VerificationSucceeded{Channel: ch, Value: value, HolderName: holder, At: s.now()})
	return s.view(sessionID, w), nil
}

func (s *Service) verificationPassed(ctx context.Context, sessionID id.SessionID, w *wizard.Controller, ev wizard.VerificationSucceeded) {
	result := "applied"
	if !w.Dispatch(ev) {
		result = "discarded"
	}
	s.metrics.IncrementVerification(string(ev.Channel), result)
	s.logAudit(ctx, string(audit.EventVerificationPassed),
		"tenant_id", w.Principal().TenantID.String(),
		"session_id", sessionID.String(),
		"channel", string(ev.Channel),
		"decision", result)
}

func (s *Service) verificationFailed(ctx context.Context, sessionID id.SessionID, w *wizard.Controller, ch models.Channel, err error) {
	s.metrics.IncrementVerification(string(ch), "rejected")
	s.logAudit(ctx, string(audit.EventVerificationRejected),
		"tenant_id", w.Principal().TenantID.String(),
		"session_id", sessionID.String(),
		"channel", string(ch),
		"reason", dErrors.MessageOf(err))
}

// RemoveExpiredAt closes sessions idle since before now minus the idle TTL
// and returns how many were removed.
// Exported for testability; the background sweep passes wall-clock time.
func (s *Service) RemoveExpiredAt(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-s.idleTTL)
	s.mu.Lock()
	expired := make(map[id.SessionID]*wizard.Controller)
	for sessionID, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			expired[sessionID] = e.wizard
			delete(s.sessions, sessionID)
		}
	}
	s.mu.Unlock()

	for sessionID, w := range expired {
		w.Close(ctx)
		s.metrics.SessionEnded("expired")
		s.logAudit(ctx, string(audit.EventSessionExpired),
			"tenant_id", w.Principal().TenantID.String(),
			"session_id", sessionID.String())
	}
	return len(expired)
}

// StartCleanup sweeps idle sessions until ctx is cancelled.
func (s *Service) StartCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.RemoveExpiredAt(ctx, s.now()); n > 0 {
				s.logger.InfoContext(ctx, "expired onboarding sessions", "count", n)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Shutdown closes every open session.
func (s *Service) Shutdown(ctx context.Context) {
	s.mu.Lock()
	open := s.sessions
	s.sessions = make(map[id.SessionID]*entry)
	s.mu.Unlock()
	for _, e := range open {
		e.wizard.Close(ctx)
		s.metrics.SessionEnded("cancelled")
	}
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
		SessionID: attrs.ExtractString(attributes, "session_id"),
		Action:    event,
		Decision:  attrs.ExtractString(attributes, "decision"),
		Reason:    attrs.ExtractString(attributes, "reason"),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    metadata.DescribeUserAgent(requestcontext.UserAgent(ctx)),
	}
	if tenantID, err := id.ParseTenantID(attrs.ExtractString(attributes, "tenant_id")); err == nil {
		ev.TenantID = tenantID
	}
	if staffID, err := id.ParseStaffID(attrs.ExtractString(attributes, "staff_id")); err == nil {
		ev.StaffID = staffID
	}
	if channel := attrs.ExtractString(attributes, "channel"); channel != "" {
		ev.Channels = []string{channel}
	}
	if err := s.auditPublisher.Emit(ctx, ev); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", event, "error", err)
	}
}
