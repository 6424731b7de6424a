// Package availability checks username uniqueness for the wizard and
// debounces bursts of edits.
package availability

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"orgdesk/internal/onboarding/ports"
	id "orgdesk/pkg/domain"
)

const defaultLookupTimeout = 5 * time.Second

// Checker wraps a UsernameLookup. Identical concurrent lookups share one
// call. Failures are reported as unavailable together with the error.
type Checker struct {
	lookup  ports.UsernameLookup
	group   singleflight.Group
	timeout time.Duration
}

type CheckerOption func(*Checker)

// WithLookupTimeout bounds a shared lookup. Non-positive values are ignored.
func WithLookupTimeout(d time.Duration) CheckerOption {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewChecker(lookup ports.UsernameLookup, opts ...CheckerOption) *Checker {
	c := &Checker{lookup: lookup, timeout: defaultLookupTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check reports whether candidate is free in tenantID, ignoring excludeID.
// The shared lookup outlives any single caller; a caller whose ctx ends
// stops waiting without failing the others.
func (c *Checker) Check(ctx context.Context, tenantID id.TenantID, candidate string, excludeID id.StaffID) (bool, error) {
	candidate = strings.TrimSpace(candidate)
	key := tenantID.String() + "|" + excludeID.String() + "|" + strings.ToLower(candidate)
	ch := c.group.DoChan(key, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.lookup.UsernameAvailable(lookupCtx, tenantID, candidate, excludeID)
	})
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}
