// Package role restricts routes to callers holding one of a set of roles.
package role

import (
	"log/slog"
	"net/http"
	"slices"

	request "orgdesk/pkg/platform/middleware/request"
	"orgdesk/pkg/requestcontext"
)

// RequireRole must run after auth.RequireAuth.
func RequireRole(logger *slog.Logger, allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !slices.Contains(allowed, requestcontext.Role(ctx)) {
				logger.WarnContext(ctx, "forbidden - role not permitted",
					"role", requestcontext.Role(ctx),
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"insufficient role"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
