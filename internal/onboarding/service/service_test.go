package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"orgdesk/internal/onboarding/metrics"
	"orgdesk/internal/onboarding/mocks"
	"orgdesk/internal/onboarding/models"
	"orgdesk/internal/onboarding/wizard"
	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
	audit "orgdesk/pkg/platform/audit"
	"orgdesk/pkg/platform/audit/publisher"
	auditmemory "orgdesk/pkg/platform/audit/store/memory"
	"orgdesk/pkg/requestcontext"
)

// =============================================================================
// Onboarding Service Test Suite
// =============================================================================
// Justification for unit tests: the registry enforces tenant isolation and
// idle expiry, and routes collaborator outcomes into sessions. Collaborators
// are gomock doubles so each routing decision is asserted explicitly.

type queuedScheduler struct {
	mu      sync.Mutex
	pending []func()
}

func (q *queuedScheduler) Schedule(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, fn)
}

func (q *queuedScheduler) Stop() {}

func (q *queuedScheduler) runAll() {
	q.mu.Lock()
	fns := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type OnboardingServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	lookup     *mocks.MockUsernameLookup
	directory  *mocks.MockStaffDirectory
	reader     *mocks.MockStaffReader
	email      *mocks.MockEmailVerifier
	phone      *mocks.MockPhoneVerifier
	documents  *mocks.MockDocumentVerifier
	auditStore *auditmemory.InMemoryStore
	scheduler  *queuedScheduler
	service    *Service
	tenantID   id.TenantID
	userID     id.UserID
	now        time.Time
}

func TestOnboardingServiceSuite(t *testing.T) {
	suite.Run(t, new(OnboardingServiceSuite))
}

func (s *OnboardingServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.lookup = mocks.NewMockUsernameLookup(s.ctrl)
	s.directory = mocks.NewMockStaffDirectory(s.ctrl)
	s.reader = mocks.NewMockStaffReader(s.ctrl)
	s.email = mocks.NewMockEmailVerifier(s.ctrl)
	s.phone = mocks.NewMockPhoneVerifier(s.ctrl)
	s.documents = mocks.NewMockDocumentVerifier(s.ctrl)
	s.auditStore = auditmemory.NewInMemoryStore()
	s.scheduler = &queuedScheduler{}
	s.tenantID = id.TenantID(uuid.New())
	s.userID = id.UserID(uuid.New())
	s.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	s.service = New(Ports{
		Lookup:    s.lookup,
		Directory: s.directory,
		Reader:    s.reader,
		Email:     s.email,
		Phone:     s.phone,
		Documents: s.documents,
	},
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
		WithMetrics(metrics.NewWithRegistry(prometheus.NewRegistry())),
		WithSchedulerFactory(func() wizard.Scheduler { return s.scheduler }),
		WithClock(func() time.Time { return s.now }),
		WithIdleTTL(10*time.Minute),
	)
}

func (s *OnboardingServiceSuite) ctx() context.Context {
	return requestcontext.WithPrincipal(context.Background(), s.userID, s.tenantID, "admin", "token")
}

func (s *OnboardingServiceSuite) open() *View {
	v, err := s.service.Open(s.ctx(), OpenRequest{Mode: models.ModeCreate})
	s.Require().NoError(err)
	return v
}

func (s *OnboardingServiceSuite) fields(sessionID id.SessionID, kv ...string) *View {
	update := FieldUpdate{Fields: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		update.Fields[kv[i]] = kv[i+1]
	}
	v, err := s.service.SetFields(s.ctx(), sessionID, update)
	s.Require().NoError(err)
	return v
}

func (s *OnboardingServiceSuite) auditActions() []string {
	events, err := s.auditStore.ListByTenant(context.Background(), s.tenantID)
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}

func (s *OnboardingServiceSuite) TestOpen() {
	s.Run("requires a tenant", func() {
		_, err := s.service.Open(context.Background(), OpenRequest{})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("create mode starts at the first step", func() {
		v := s.open()
		s.False(v.ID.IsNil())
		s.Equal(models.ModeCreate, v.Mode)
		s.Equal(models.StepPersonalInfo, v.CurrentStep)
		s.Equal(models.LifecycleOpen, v.Lifecycle)
		s.Contains(s.auditActions(), string(audit.EventSessionOpened))
	})

	s.Run("edit mode requires a staff id", func() {
		_, err := s.service.Open(s.ctx(), OpenRequest{Mode: models.ModeEdit})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("edit mode seeds the draft from the directory", func() {
		staffID := id.StaffID(uuid.New())
		draft := models.NewDraft()
		draft.FirstName = "Asha"
		draft.Username = "asha"
		s.reader.EXPECT().LoadForEdit(gomock.Any(), s.tenantID, staffID).
			Return(&models.EditTarget{StaffID: staffID, Draft: draft}, nil)

		v, err := s.service.Open(s.ctx(), OpenRequest{Mode: models.ModeEdit, StaffID: staffID})
		s.Require().NoError(err)
		s.Equal(models.ModeEdit, v.Mode)
		s.Equal("Asha", v.Draft.FirstName)
		s.Equal(staffID, *v.EditingStaffID)
	})

	s.Run("edit of a missing record", func() {
		staffID := id.StaffID(uuid.New())
		s.reader.EXPECT().LoadForEdit(gomock.Any(), s.tenantID, staffID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "staff not found"))
		_, err := s.service.Open(s.ctx(), OpenRequest{Mode: models.ModeEdit, StaffID: staffID})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *OnboardingServiceSuite) TestTenantIsolation() {
	v := s.open()
	other := requestcontext.WithPrincipal(context.Background(), s.userID, id.TenantID(uuid.New()), "admin", "token")

	_, err := s.service.Get(other, v.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.True(dErrors.HasCode(s.service.Cancel(other, v.ID), dErrors.CodeNotFound))

	got, err := s.service.Get(s.ctx(), v.ID)
	s.Require().NoError(err)
	s.Equal(v.ID, got.ID)
}

func (s *OnboardingServiceSuite) TestSetFields() {
	v := s.open()

	s.Run("unknown field rejects the whole batch", func() {
		_, err := s.service.SetFields(s.ctx(), v.ID, FieldUpdate{Fields: map[string]string{
			"first_name": "Bob",
			"nickname":   "B",
		}})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		got, _ := s.service.Get(s.ctx(), v.ID)
		s.Empty(got.Draft.FirstName)
	})

	s.Run("touched fields are validated and a username is suggested", func() {
		got := s.fields(v.ID, "first_name", "B", "email", "bob.builder@example.com")
		s.Equal(models.KindTooShort, got.Errors[models.FieldFirstName].Kind)
		s.Equal("bob.builder", got.SuggestedUsername)
	})

	s.Run("active flag", func() {
		inactive := false
		got, err := s.service.SetFields(s.ctx(), v.ID, FieldUpdate{IsActive: &inactive})
		s.Require().NoError(err)
		s.False(got.Draft.IsActive)
	})
}

func (s *OnboardingServiceSuite) TestChallenges() {
	v := s.open()

	s.Run("blank email is rejected before the collaborator", func() {
		err := s.service.SendChallenge(s.ctx(), v.ID, models.ChannelEmail)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("documents have no challenge", func() {
		err := s.service.SendChallenge(s.ctx(), v.ID, models.ChannelPAN)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.fields(v.ID, "email", "bob@example.com", "phone", "9876543210")

	s.Run("send and confirm marks the channel verified", func() {
		s.email.EXPECT().SendChallenge(gomock.Any(), "bob@example.com").Return(nil)
		s.email.EXPECT().Confirm(gomock.Any(), "bob@example.com", "123456").Return(nil)

		s.Require().NoError(s.service.SendChallenge(s.ctx(), v.ID, models.ChannelEmail))
		got, err := s.service.ConfirmChallenge(s.ctx(), v.ID, models.ChannelEmail, "123456")
		s.Require().NoError(err)
		s.True(got.Verification[models.ChannelEmail].Verified)
		s.Contains(s.auditActions(), string(audit.EventVerificationPassed))
	})

	s.Run("wrong code leaves the channel unverified", func() {
		s.phone.EXPECT().Confirm(gomock.Any(), "9876543210", "000000").
			Return(dErrors.New(dErrors.CodeUnprocessable, "invalid verification code"))

		_, err := s.service.ConfirmChallenge(s.ctx(), v.ID, models.ChannelPhone, "000000")
		s.True(dErrors.HasCode(err, dErrors.CodeUnprocessable))
		got, _ := s.service.Get(s.ctx(), v.ID)
		s.False(got.Verification[models.ChannelPhone].Verified)
		s.Contains(s.auditActions(), string(audit.EventVerificationRejected))
	})
}

func (s *OnboardingServiceSuite) TestVerifyDocument() {
	v := s.open()

	s.Run("blank PAN is rejected", func() {
		_, err := s.service.VerifyDocument(s.ctx(), v.ID, models.ChannelPAN)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("email is not a document", func() {
		_, err := s.service.VerifyDocument(s.ctx(), v.ID, models.ChannelEmail)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("PAN success captures the holder name", func() {
		s.fields(v.ID, "pan_number", "abcde1234f")
		s.documents.EXPECT().VerifyPAN(gomock.Any(), "abcde1234f").Return("BOB BUILDER", nil)

		got, err := s.service.VerifyDocument(s.ctx(), v.ID, models.ChannelPAN)
		s.Require().NoError(err)
		s.True(got.Verification[models.ChannelPAN].Verified)
		s.Equal("BOB BUILDER", got.Verification[models.ChannelPAN].HolderName)
	})

	s.Run("registry outage is surfaced", func() {
		s.fields(v.ID, "aadhaar_number", "2345 6789 0123")
		s.documents.EXPECT().VerifyAadhaar(gomock.Any(), "2345 6789 0123").
			Return(dErrors.New(dErrors.CodeUnavailable, "verification provider unavailable"))

		_, err := s.service.VerifyDocument(s.ctx(), v.ID, models.ChannelAadhaar)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func (s *OnboardingServiceSuite) TestAdvanceBlocked() {
	v := s.open()
	_, err := s.service.Advance(s.ctx(), v.ID)
	var gerr *models.GateError
	s.Require().ErrorAs(err, &gerr)
	s.Equal(models.ReasonInvalidField, gerr.Reason)
	s.Contains(s.auditActions(), string(audit.EventStepBlocked))

	_, err = s.service.Retreat(s.ctx(), v.ID)
	s.Require().ErrorAs(err, &gerr)
	s.Equal(models.ReasonAtFirstStep, gerr.Reason)
}

func (s *OnboardingServiceSuite) driveToSubmit(sessionID id.SessionID) {
	s.fields(sessionID,
		"first_name", "Bob", "last_name", "Builder",
		"email", "bob@example.com", "phone", "9876543210",
		"role", "staff", "designation", "Cashier")
	s.email.EXPECT().Confirm(gomock.Any(), "bob@example.com", "111111").Return(nil)
	s.phone.EXPECT().Confirm(gomock.Any(), "9876543210", "222222").Return(nil)
	_, err := s.service.ConfirmChallenge(s.ctx(), sessionID, models.ChannelEmail, "111111")
	s.Require().NoError(err)
	_, err = s.service.ConfirmChallenge(s.ctx(), sessionID, models.ChannelPhone, "222222")
	s.Require().NoError(err)
	for range 5 {
		_, err := s.service.Advance(s.ctx(), sessionID)
		s.Require().NoError(err)
	}

	s.lookup.EXPECT().UsernameAvailable(gomock.Any(), s.tenantID, "bob2", id.StaffID{}).Return(true, nil)
	s.fields(sessionID, "username", "bob2", "password", "Passw0rd!")
	s.scheduler.runAll()
}

func (s *OnboardingServiceSuite) TestSubmit() {
	s.Run("failure keeps the session for a retry", func() {
		v := s.open()
		s.driveToSubmit(v.ID)
		s.directory.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("directory unreachable"))

		_, err := s.service.Submit(s.ctx(), v.ID)
		var serr *models.SubmissionError
		s.Require().ErrorAs(err, &serr)
		s.Equal("directory unreachable", serr.Message)

		got, err := s.service.Get(s.ctx(), v.ID)
		s.Require().NoError(err)
		s.Equal(models.StepAccountSetup, got.CurrentStep)
		s.Contains(s.auditActions(), string(audit.EventSubmissionFailed))
	})

	s.Run("success removes the session", func() {
		v := s.open()
		s.driveToSubmit(v.ID)
		s.directory.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p models.Payload, principal models.Principal) (*models.SubmitResult, error) {
				s.Equal(s.tenantID, principal.TenantID)
				s.Equal("token", principal.BearerToken)
				s.Equal("bob2", p.Username)
				return &models.SubmitResult{StaffID: "staff-1"}, nil
			})

		got, err := s.service.Submit(s.ctx(), v.ID)
		s.Require().NoError(err)
		s.Equal(models.LifecycleSubmitted, got.Lifecycle)
		s.Equal("staff-1", got.Result.StaffID)

		_, err = s.service.Get(s.ctx(), v.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *OnboardingServiceSuite) TestCancel() {
	v := s.open()
	s.Require().NoError(s.service.Cancel(s.ctx(), v.ID))

	_, err := s.service.Get(s.ctx(), v.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Contains(s.auditActions(), string(audit.EventSessionCancelled))
}

func (s *OnboardingServiceSuite) TestRemoveExpiredAt() {
	stale := s.open()
	s.now = s.now.Add(8 * time.Minute)
	fresh := s.open()

	s.Equal(0, s.service.RemoveExpiredAt(context.Background(), s.now))
	s.Equal(1, s.service.RemoveExpiredAt(context.Background(), s.now.Add(3*time.Minute)))

	_, err := s.service.Get(s.ctx(), stale.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.Get(s.ctx(), fresh.ID)
	s.NoError(err)
	s.Contains(s.auditActions(), string(audit.EventSessionExpired))
}

func (s *OnboardingServiceSuite) TestShutdown() {
	v := s.open()
	s.service.Shutdown(context.Background())
	_, err := s.service.Get(s.ctx(), v.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
