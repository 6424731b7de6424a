package testutil

import (
	"context"
	"net/http"

	id "orgdesk/pkg/domain"
	"orgdesk/pkg/requestcontext"
)

// WithPrincipal adds an authenticated operator to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// Invalid IDs are silently ignored.
func WithPrincipal(req *http.Request, userID, tenantID, role string) *http.Request {
	ctx := req.Context()
	if parsed, err := id.ParseUserID(userID); err == nil {
		ctx = requestcontext.WithUserID(ctx, parsed)
	}
	if parsed, err := id.ParseTenantID(tenantID); err == nil {
		ctx = requestcontext.WithTenantID(ctx, parsed)
	}
	ctx = context.WithValue(ctx, requestcontext.ContextKeyRole, role)
	ctx = context.WithValue(ctx, requestcontext.ContextKeyBearerToken, "test-token")
	return req.WithContext(ctx)
}

// WithTenantID adds only a tenant to the request context.
func WithTenantID(req *http.Request, tenantID string) *http.Request {
	if parsed, err := id.ParseTenantID(tenantID); err == nil {
		return req.WithContext(requestcontext.WithTenantID(req.Context(), parsed))
	}
	return req
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
