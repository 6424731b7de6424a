package models

import (
	"strings"
	"time"
)

// EndpointClass groups routes that share a limit.
type EndpointClass string

const (
	// ClassChallenge covers verification code sends, which cost a message each.
	ClassChallenge EndpointClass = "challenge"
	// ClassWrite covers wizard mutations.
	ClassWrite EndpointClass = "write"
	// ClassRead covers lookups.
	ClassRead EndpointClass = "read"
)

func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassChallenge, ClassWrite, ClassRead:
		return true
	}
	return false
}

// Limit is the number of requests allowed per Window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Result is the outcome of one admission check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is whole seconds until a slot frees up; zero when allowed.
	RetryAfter int
}

// RateLimitExceededResponse is the body of a 429.
type RateLimitExceededResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	RetryAfter  int    `json:"retry_after"`
}

// SanitizeKeySegment escapes the key delimiter so an identifier cannot spill
// into an adjacent key segment.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// Key builds the bucket key for a caller and class.
func Key(class EndpointClass, caller string) string {
	return "rl:" + string(class) + ":" + SanitizeKeySegment(caller)
}
