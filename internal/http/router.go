// Package httpapi assembles the HTTP surface: shared middleware, health and
// metrics endpoints, and the authenticated admin-console routes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"orgdesk/internal/platform/metrics"
	"orgdesk/pkg/platform/httputil"
	"orgdesk/pkg/platform/middleware/auth"
	"orgdesk/pkg/platform/middleware/metadata"
	"orgdesk/pkg/platform/middleware/recovery"
	"orgdesk/pkg/platform/middleware/request"
	"orgdesk/pkg/platform/middleware/requesttime"
	"orgdesk/pkg/platform/middleware/role"
)

// Registrar mounts a bounded context's routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one backing dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps are the collaborators the router needs.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	JWTValidator   auth.JWTValidator
	AllowedRoles   []string
	RequestTimeout time.Duration
	HealthChecks   []HealthCheck
	Handlers       []Registrar
}

// NewRouter wires middleware and routes. Everything except /healthz and
// /metrics requires a bearer token carrying one of AllowedRoles.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(recovery.Recovery(d.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.Get("/healthz", healthHandler(d.HealthChecks, d.Logger))
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if d.RequestTimeout > 0 {
			r.Use(chimw.Timeout(d.RequestTimeout))
		}
		r.Use(auth.RequireAuth(d.JWTValidator, d.Logger))
		r.Use(role.RequireRole(d.Logger, d.AllowedRoles...))
		for _, h := range d.Handlers {
			h.Register(r)
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks []HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		results := make([]error, len(checks))
		var g errgroup.Group
		for i, c := range checks {
			g.Go(func() error {
				results[i] = c.Check(ctx)
				return nil
			})
		}
		_ = g.Wait()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		for i, c := range checks {
			if results[i] != nil {
				resp.Status = "degraded"
				resp.Checks[c.Name] = results[i].Error()
				logger.WarnContext(ctx, "health check failed",
					"component", c.Name,
					"error", results[i],
				)
				continue
			}
			resp.Checks[c.Name] = "ok"
		}
		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	}
}
