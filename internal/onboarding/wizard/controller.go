// Package wizard drives one staff-onboarding session through its steps.
package wizard

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"orgdesk/internal/onboarding/gate"
	"orgdesk/internal/onboarding/models"
	"orgdesk/internal/onboarding/policy"
	"orgdesk/internal/onboarding/ports"
	"orgdesk/internal/onboarding/submission"
	"orgdesk/internal/onboarding/validation"
	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
)

// completionFields are the key fields counted by CompletionPercentage.
var completionFields = []models.Field{
	models.FieldFirstName, models.FieldLastName, models.FieldEmail, models.FieldPhone,
	models.FieldDateOfBirth, models.FieldAddressLine1, models.FieldCity, models.FieldPostalCode,
	models.FieldRole, models.FieldDesignation, models.FieldUsername, models.FieldPassword,
}

// AvailabilityChecker looks up a username. Implemented by availability.Checker.
type AvailabilityChecker interface {
	Check(ctx context.Context, tenantID id.TenantID, candidate string, excludeID id.StaffID) (bool, error)
}

// Scheduler runs fn later on another goroutine. Schedule must not run fn
// synchronously. Implemented by availability.Debouncer.
type Scheduler interface {
	Schedule(fn func())
	Stop()
}

// Config describes the session being opened. Edit is required in edit mode.
type Config struct {
	Mode      models.Mode
	Principal models.Principal
	Edit      *models.EditTarget
}

type Option func(*Controller)

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.scheduler = s
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock sets the time source for verification stamps and date rules.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller owns one wizard session. All mutation is serialized behind mu;
// collaborator calls and async results never run while it is held.
type Controller struct {
	mu sync.Mutex

	mode      models.Mode
	principal models.Principal
	editID    id.StaffID

	machine   *fsm.FSM
	step      models.Step
	lifecycle models.Lifecycle

	draft        models.DraftRecord
	errors       models.ValidationErrors
	gate         *gate.Gate
	validator    *validation.Validator
	availability models.AvailabilityState
	ticket       uint64

	lastGate  *models.GateError
	submitErr string
	result    *models.SubmitResult

	ctx    context.Context
	cancel context.CancelFunc

	checker   AvailabilityChecker
	directory ports.StaffDirectory
	scheduler Scheduler
	logger    *slog.Logger
	now       func() time.Time
}

// New opens a session at the first step. In edit mode the draft is seeded
// from cfg.Edit, previously verified channels stay verified for their
// recorded values and the current username counts as available.
func New(cfg Config, checker AvailabilityChecker, directory ports.StaffDirectory, opts ...Option) (*Controller, error) {
	if cfg.Mode == models.ModeEdit && (cfg.Edit == nil || cfg.Edit.StaffID.IsNil()) {
		return nil, dErrors.New(dErrors.CodeValidation, "edit mode requires a staff record")
	}
	c := &Controller{
		mode:         cfg.Mode,
		principal:    cfg.Principal,
		step:         models.FirstStep,
		lifecycle:    models.LifecycleOpen,
		draft:        models.NewDraft(),
		errors:       models.ValidationErrors{},
		gate:         gate.New(),
		availability: models.AvailabilityState{Status: models.AvailabilityUnknown},
		checker:      checker,
		directory:    directory,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.scheduler == nil {
		c.scheduler = goScheduler{}
	}
	c.validator = validation.New(c.mode, validation.WithClock(c.now))
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.machine = newMachine(c.step, c.onEnter)

	if cfg.Mode == models.ModeEdit {
		c.seedEdit(cfg.Edit)
	}
	return c, nil
}

func (c *Controller) seedEdit(target *models.EditTarget) {
	c.editID = target.StaffID
	c.draft = target.Draft
	c.draft.Password = ""
	for ch, st := range target.Verified {
		if !st.Verified {
			continue
		}
		current := c.draft.Value(ch.Field())
		c.gate.MarkVerified(ch, st.Value, current, st.HolderName, st.VerifiedAt)
	}
	c.availability = models.AvailabilityState{
		Candidate: strings.TrimSpace(c.draft.Username),
		Status:    models.AvailabilityAvailable,
	}
}

// onEnter runs inside machine.Event with mu already held.
func (c *Controller) onEnter(dst string) {
	if s, ok := stepForState(dst); ok {
		c.step = s
	}
	c.lifecycle = lifecycleForState(dst)
}

func (c *Controller) Mode() models.Mode { return c.mode }

// EditingStaffID is the record under edit, nil in create mode.
func (c *Controller) EditingStaffID() *id.StaffID {
	if c.mode != models.ModeEdit {
		return nil
	}
	staffID := c.editID
	return &staffID
}

func (c *Controller) Principal() models.Principal { return c.principal }

func (c *Controller) CurrentStep() models.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Controller) Lifecycle() models.Lifecycle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lifecycle
}

// Draft returns a copy of the draft.
func (c *Controller) Draft() models.DraftRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller) ValidationErrors() models.ValidationErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Clone()
}

func (c *Controller) VerificationState() models.VerificationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate.Snapshot()
}

func (c *Controller) Availability() models.AvailabilityState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.availability
}

// CanAdvance reports whether step's predicate holds for the current state.
func (c *Controller) CanAdvance(step models.Step) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evaluate(step) == nil
}

func (c *Controller) evaluate(step models.Step) *models.GateError {
	return policy.Evaluate(step, policy.Input{
		Mode:         c.mode,
		Draft:        &c.draft,
		Errors:       c.errors,
		Validator:    c.validator,
		Gate:         c.gate,
		Availability: c.availability,
	})
}

// guard refuses mutation outside the open lifecycle.
func (c *Controller) guard() *models.GateError {
	switch c.lifecycle {
	case models.LifecycleSubmitting:
		return models.NewGateError(c.step, models.ReasonSubmissionInFlight, "Submission already in progress")
	case models.LifecycleSubmitted, models.LifecycleClosed:
		return models.NewGateError(c.step, models.ReasonSessionClosed, "Onboarding session is closed")
	}
	return nil
}

// Advance moves to the next step when the current one is valid. A refusal
// is returned as *models.GateError and leaves the session unchanged apart
// from remembering the refusal.
func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return err
	}
	if c.step == models.LastStep {
		return models.NewGateError(c.step, models.ReasonAtLastStep, "Already at the final step; submit to finish")
	}
	from := c.step
	if gerr := c.evaluate(from); gerr != nil {
		c.lastGate = gerr
		c.logger.DebugContext(ctx, "wizard advance blocked", "step", int(from), "reason", gerr.Reason)
		return gerr
	}
	if err := c.fire(ctx, eventAdvance); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to advance wizard")
	}
	c.lastGate = nil
	c.logger.DebugContext(ctx, "wizard advanced", "from", int(from), "to", int(c.step))
	return nil
}

// Retreat moves to the previous step. It is never blocked by validation and
// clears any remembered refusal.
func (c *Controller) Retreat(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return err
	}
	if c.step == models.FirstStep {
		return models.NewGateError(c.step, models.ReasonAtFirstStep, "Already at the first step")
	}
	if err := c.fire(ctx, eventRetreat); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to retreat wizard")
	}
	c.lastGate = nil
	c.submitErr = ""
	return nil
}

// Submit assembles the payload and hands it to the staff directory exactly
// once. A concurrent second call is refused with ReasonSubmissionInFlight.
// On collaborator failure the session returns to the last step with the
// draft intact and a *models.SubmissionError carrying the collaborator's
// message.
func (c *Controller) Submit(ctx context.Context) (*models.SubmitResult, error) {
	c.mu.Lock()
	if err := c.guard(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.step != models.LastStep {
		step := c.step
		c.mu.Unlock()
		return nil, models.NewGateError(step, models.ReasonNotFinalStep, "Submit is only available on the final step")
	}
	if gerr := c.evaluate(c.step); gerr != nil {
		c.lastGate = gerr
		c.mu.Unlock()
		return nil, gerr
	}
	payload := submission.Assemble(c.mode, c.draft, c.gate.Snapshot())
	if err := c.fire(ctx, eventSubmit); err != nil {
		c.mu.Unlock()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to start submission")
	}
	c.lastGate = nil
	c.submitErr = ""
	mode, editID, principal := c.mode, c.editID, c.principal
	c.mu.Unlock()

	var (
		result *models.SubmitResult
		err    error
	)
	if mode == models.ModeEdit {
		result, err = c.directory.Update(ctx, editID, payload, principal)
	} else {
		result, err = c.directory.Create(ctx, payload, principal)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		serr := &models.SubmissionError{Message: submissionMessage(err), Err: err}
		if c.lifecycle == models.LifecycleSubmitting {
			if ferr := c.fire(ctx, eventSubmitFailed); ferr != nil {
				return nil, dErrors.Wrap(ferr, dErrors.CodeInternal, "failed to reopen wizard")
			}
			c.submitErr = serr.Message
		}
		c.logger.WarnContext(ctx, "wizard submission failed", "error", err)
		return nil, serr
	}
	if c.lifecycle == models.LifecycleSubmitting {
		if ferr := c.fire(ctx, eventSubmitSucceeded); ferr != nil {
			return nil, dErrors.Wrap(ferr, dErrors.CodeInternal, "failed to complete submission")
		}
		c.result = result
		c.release()
	}
	return result, nil
}

func submissionMessage(err error) string {
	if msg := dErrors.MessageOf(err); msg != "" {
		return msg
	}
	return err.Error()
}

// SetField stores value, re-validates only that field and resets a
// verification that no longer matches. A username edit issues a new ticket
// and schedules an availability check.
func (c *Controller) SetField(f models.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.draft.Set(f, value); err != nil {
		return err
	}
	c.errors.Apply(f, c.validator.Validate(f, value))
	if ch, ok := models.ChannelForField(f); ok {
		c.gate.OnValueChanged(ch, value)
	}
	if f == models.FieldUsername {
		c.usernameChanged(value)
	}
	return nil
}

func (c *Controller) usernameChanged(value string) {
	candidate := strings.TrimSpace(value)
	if candidate == c.availability.Candidate {
		switch c.availability.Status {
		case models.AvailabilityChecking, models.AvailabilityAvailable, models.AvailabilityUnavailable:
			return
		}
	}
	c.ticket++
	if c.errors.Has(models.FieldUsername) {
		c.availability = models.AvailabilityState{Candidate: candidate, Ticket: c.ticket, Status: models.AvailabilityUnknown}
		return
	}
	c.availability = models.AvailabilityState{Candidate: candidate, Ticket: c.ticket, Status: models.AvailabilityChecking}

	ticket, tenantID, excludeID, ctx := c.ticket, c.principal.TenantID, c.editID, c.ctx
	c.scheduler.Schedule(func() {
		if ctx.Err() != nil {
			return
		}
		available, err := c.checker.Check(ctx, tenantID, candidate, excludeID)
		if ctx.Err() != nil {
			return
		}
		c.Dispatch(AvailabilityResolved{Ticket: ticket, Candidate: candidate, Available: available, Err: err})
	})
}

// SetActive sets the account's active flag.
func (c *Controller) SetActive(active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return err
	}
	c.draft.IsActive = active
	return nil
}

// Dispatch applies an external result. It reports whether the event changed
// state; events after Close, stale availability results and verifications
// of a value the draft no longer holds are ignored.
func (c *Controller) Dispatch(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lifecycle.Terminal() {
		return false
	}
	switch e := ev.(type) {
	case VerificationSucceeded:
		at := e.At
		if at.IsZero() {
			at = c.now()
		}
		current := c.draft.Value(e.Channel.Field())
		applied := c.gate.MarkVerified(e.Channel, e.Value, current, e.HolderName, at)
		if !applied {
			c.logger.Debug("stale verification discarded", "channel", e.Channel)
		}
		return applied
	case AvailabilityResolved:
		if e.Ticket != c.ticket || e.Candidate != c.availability.Candidate {
			return false
		}
		status := models.AvailabilityUnavailable
		switch {
		case e.Err != nil:
			status = models.AvailabilityFailed
		case e.Available:
			status = models.AvailabilityAvailable
		}
		c.availability.Status = status
		return true
	}
	return false
}

// Close ends the session, discarding the draft. In-flight checks are
// abandoned and their results ignored. Closing twice is a no-op.
func (c *Controller) Close(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lifecycle == models.LifecycleClosed {
		return
	}
	if err := c.fire(ctx, eventClose); err != nil {
		c.logger.WarnContext(ctx, "wizard close transition failed", "error", err)
		c.lifecycle = models.LifecycleClosed
	}
	c.draft = models.NewDraft()
	c.errors = models.ValidationErrors{}
	c.release()
}

// fire runs a machine event. Transitions are bookkeeping for a decision
// already taken, so caller cancellation must not abort them.
func (c *Controller) fire(ctx context.Context, event string) error {
	return c.machine.Event(context.WithoutCancel(ctx), event)
}

func (c *Controller) release() {
	c.cancel()
	c.scheduler.Stop()
}

// CompletionPercentage counts populated key fields. It drives a progress
// indicator only.
func (c *Controller) CompletionPercentage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completion()
}

func (c *Controller) completion() int {
	filled := 0
	for _, f := range completionFields {
		if strings.TrimSpace(c.draft.Value(f)) != "" {
			filled++
		}
	}
	return filled * 100 / len(completionFields)
}

// Snapshot copies the whole session for presentation.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	steps := make([]StepView, 0, len(models.AllSteps))
	for _, s := range models.AllSteps {
		steps = append(steps, StepView{Step: s, Label: s.Label(), CanAdvance: c.evaluate(s) == nil})
	}
	score := validation.Score(c.draft.Password)
	return Session{
		Mode:             c.mode,
		TenantID:         c.principal.TenantID,
		EditingStaffID:   c.EditingStaffID(),
		Lifecycle:        c.lifecycle,
		CurrentStep:      c.step,
		StepLabel:        c.step.Label(),
		Steps:            steps,
		Draft:            c.draft,
		PasswordSet:      c.draft.Password != "",
		PasswordStrength: score,
		StrengthLabel:    validation.StrengthLabel(score),
		Errors:           c.errors.Clone(),
		Verification:     c.gate.Snapshot(),
		Availability:     c.availability,
		Completion:       c.completion(),
		LastGateError:    c.lastGate,
		SubmitError:      c.submitErr,
		Result:           c.result,
	}
}

// goScheduler runs each check on its own goroutine without debouncing.
type goScheduler struct{}

func (goScheduler) Schedule(fn func()) { go fn() }
func (goScheduler) Stop()              {}
