package store

import (
	"context"
	"math"
	"sync"
	"time"

	"orgdesk/internal/ratelimit/models"
)

// InMemory is a sliding-window limiter local to one process.
type InMemory struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	now     func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{buckets: make(map[string][]time.Time), now: time.Now}
}

// WithClock overrides the time source. Tests only.
func (s *InMemory) WithClock(now func() time.Time) *InMemory {
	s.now = now
	return s
}

// Allow admits one request under limit and records it when admitted.
func (s *InMemory) Allow(_ context.Context, key string, limit models.Limit) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stamps := prune(s.buckets[key], now.Add(-limit.Window))

	if len(stamps) >= limit.Requests {
		s.buckets[key] = stamps
		resetAt := now.Add(limit.Window)
		if len(stamps) > 0 {
			resetAt = stamps[0].Add(limit.Window)
		}
		return &models.Result{
			Allowed:    false,
			Limit:      limit.Requests,
			ResetAt:    resetAt,
			RetryAfter: retryAfter(resetAt.Sub(now)),
		}, nil
	}

	stamps = append(stamps, now)
	s.buckets[key] = stamps
	return &models.Result{
		Allowed:   true,
		Limit:     limit.Requests,
		Remaining: limit.Requests - len(stamps),
		ResetAt:   stamps[0].Add(limit.Window),
	}, nil
}

// Sweep drops buckets with no request inside window.
func (s *InMemory) Sweep(window time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-window)
	removed := 0
	for key, stamps := range s.buckets {
		if len(prune(stamps, cutoff)) == 0 {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed
}

func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}

func retryAfter(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	return int(math.Ceil(d.Seconds()))
}

// StartSweep drops idle buckets every interval until ctx is cancelled.
func (s *InMemory) StartSweep(ctx context.Context, interval, window time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(window)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
