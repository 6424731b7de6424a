package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"orgdesk/internal/staff/models"
	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
	"orgdesk/pkg/platform/httputil"
	"orgdesk/pkg/requestcontext"
)

// Service defines the staff operations exposed over HTTP.
type Service interface {
	Get(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error)
	UsernameAvailable(ctx context.Context, tenantID id.TenantID, candidate string, excludeID id.StaffID) (bool, error)
}

// Handler serves read-only staff directory endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts staff endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/staff/username-availability", h.HandleUsernameAvailability)
	r.Get("/staff/{id}", h.HandleGet)
}

// HandleGet handles GET /staff/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	staffID, err := id.ParseStaffID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid staff id"))
		return
	}

	staff, err := h.service.Get(ctx, tenantID, staffID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load staff",
				"request_id", requestID,
				"staff_id", staffID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromStaff(staff))
}

// HandleUsernameAvailability handles GET /staff/username-availability?username=&exclude_id=.
func (h *Handler) HandleUsernameAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "username is required"))
		return
	}
	var exclude id.StaffID
	if raw := r.URL.Query().Get("exclude_id"); raw != "" {
		parsed, err := id.ParseStaffID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid exclude_id"))
			return
		}
		exclude = parsed
	}

	available, err := h.service.UsernameAvailable(ctx, tenantID, username, exclude)
	if err != nil {
		h.logger.ErrorContext(ctx, "username availability check failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AvailabilityResponse{Username: username, Available: available})
}
