package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"orgdesk/internal/onboarding/models"
	"orgdesk/internal/onboarding/service"
	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
	"orgdesk/pkg/platform/httputil"
	"orgdesk/pkg/requestcontext"
)

// Service defines the onboarding wizard operations exposed over HTTP.
type Service interface {
	Open(ctx context.Context, req service.OpenRequest) (*service.View, error)
	Get(ctx context.Context, sessionID id.SessionID) (*service.View, error)
	SetFields(ctx context.Context, sessionID id.SessionID, update service.FieldUpdate) (*service.View, error)
	Advance(ctx context.Context, sessionID id.SessionID) (*service.View, error)
	Retreat(ctx context.Context, sessionID id.SessionID) (*service.View, error)
	Submit(ctx context.Context, sessionID id.SessionID) (*service.View, error)
	Cancel(ctx context.Context, sessionID id.SessionID) error
	SendChallenge(ctx context.Context, sessionID id.SessionID, ch models.Channel) error
	ConfirmChallenge(ctx context.Context, sessionID id.SessionID, ch models.Channel, code string) (*service.View, error)
	VerifyDocument(ctx context.Context, sessionID id.SessionID, ch models.Channel) (*service.View, error)
}

// Handler serves the onboarding wizard endpoints.
type Handler struct {
	service        Service
	logger         *slog.Logger
	writeLimit     func(http.Handler) http.Handler
	challengeLimit func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithWriteLimit throttles every mutating route.
func WithWriteLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		if mw != nil {
			h.writeLimit = mw
		}
	}
}

// WithChallengeLimit throttles verification code sends.
func WithChallengeLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		if mw != nil {
			h.challengeLimit = mw
		}
	}
}

func passThrough(next http.Handler) http.Handler { return next }

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service:        service,
		logger:         logger,
		writeLimit:     passThrough,
		challengeLimit: passThrough,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts onboarding endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/onboarding/sessions", func(r chi.Router) {
		r.With(h.writeLimit).Post("/", h.HandleOpen)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Group(func(r chi.Router) {
				r.Use(h.writeLimit)
				r.Delete("/", h.HandleCancel)
				r.Patch("/fields", h.HandleUpdateFields)
				r.Post("/advance", h.HandleAdvance)
				r.Post("/retreat", h.HandleRetreat)
				r.Post("/submit", h.HandleSubmit)
				r.With(h.challengeLimit).Post("/verify/{channel}/challenge", h.HandleSendChallenge)
				r.Post("/verify/{channel}/confirm", h.HandleConfirmChallenge)
				r.Post("/verify/{channel}", h.HandleVerifyDocument)
			})
		})
	})
}

// GateErrorResponse is returned when a step transition is refused.
type GateErrorResponse struct {
	Error       string       `json:"error"`
	Description string       `json:"error_description"`
	Step        models.Step  `json:"step"`
	Field       models.Field `json:"field,omitempty"`
}

// HandleOpen handles POST /onboarding/sessions.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[OpenSessionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	open, err := req.toService()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.service.Open(ctx, open)
	if err != nil {
		h.fail(ctx, w, "failed to open onboarding session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /onboarding/sessions/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}
	view, err := h.service.Get(ctx, sessionID)
	if err != nil {
		h.fail(ctx, w, "failed to load onboarding session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleUpdateFields handles PATCH /onboarding/sessions/{id}/fields.
func (h *Handler) HandleUpdateFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateFieldsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	view, err := h.service.SetFields(ctx, sessionID, service.FieldUpdate{Fields: req.Fields, IsActive: req.IsActive})
	if err != nil {
		h.fail(ctx, w, "failed to update onboarding fields", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleAdvance handles POST /onboarding/sessions/{id}/advance.
func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.service.Advance, "failed to advance onboarding session")
}

// HandleRetreat handles POST /onboarding/sessions/{id}/retreat.
func (h *Handler) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.service.Retreat, "failed to retreat onboarding session")
}

// HandleSubmit handles POST /onboarding/sessions/{id}/submit.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.service.Submit, "failed to submit onboarding session")
}

func (h *Handler) step(w http.ResponseWriter, r *http.Request, op func(context.Context, id.SessionID) (*service.View, error), failure string) {
	ctx := r.Context()
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}
	view, err := op(ctx, sessionID)
	if err != nil {
		h.fail(ctx, w, failure, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleCancel handles DELETE /onboarding/sessions/{id}.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}
	if err := h.service.Cancel(ctx, sessionID); err != nil {
		h.fail(ctx, w, "failed to cancel onboarding session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSendChallenge handles POST /onboarding/sessions/{id}/verify/{channel}/challenge.
func (h *Handler) HandleSendChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}
	ch, ok := channelParam(w, r)
	if !ok {
		return
	}
	if err := h.service.SendChallenge(ctx, sessionID, ch); err != nil {
		h.fail(ctx, w, "failed to send verification challenge", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleConfirmChallenge handles POST /onboarding/sessions/{id}/verify/{channel}/confirm.
func (h *Handler) HandleConfirmChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}
	ch, ok := channelParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ConfirmChallengeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	view, err := h.service.ConfirmChallenge(ctx, sessionID, ch, req.Code)
	if err != nil {
		h.fail(ctx, w, "failed to confirm verification challenge", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleVerifyDocument handles POST /onboarding/sessions/{id}/verify/{channel}
// for identity documents.
func (h *Handler) HandleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}
	ch, ok := channelParam(w, r)
	if !ok {
		return
	}
	view, err := h.service.VerifyDocument(ctx, sessionID, ch)
	if err != nil {
		h.fail(ctx, w, "failed to verify identity document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func sessionParam(w http.ResponseWriter, r *http.Request) (id.SessionID, bool) {
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid session id"))
		return id.SessionID{}, false
	}
	return sessionID, true
}

func channelParam(w http.ResponseWriter, r *http.Request) (models.Channel, bool) {
	ch, err := models.ParseChannel(chi.URLParam(r, "channel"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return ch, true
}

// fail writes the error response. Gate refusals carry their step and reason;
// submission failures surface the directory's message verbatim.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	var gateErr *models.GateError
	if errors.As(err, &gateErr) {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, GateErrorResponse{
			Error:       string(gateErr.Reason),
			Description: gateErr.Message,
			Step:        gateErr.Step,
			Field:       gateErr.Field,
		})
		return
	}

	var submitErr *models.SubmissionError
	if errors.As(err, &submitErr) {
		status := http.StatusBadGateway
		if code := dErrors.CodeOf(submitErr.Err); code != dErrors.CodeInternal {
			status = httputil.StatusFor(code)
		}
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteJSON(w, status, map[string]string{
			"error":             "submission_failed",
			"error_description": submitErr.Message,
		})
		return
	}

	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeUnavailable:
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
