package providers

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	dErrors "orgdesk/pkg/domain-errors"
	"orgdesk/pkg/platform/circuit"
)

// guardedProvider pairs a provider with its breaker.
type guardedProvider struct {
	provider Provider
	breaker  *circuit.Breaker
}

// Verifier answers PAN and Aadhaar checks for the onboarding flow. Each
// provider sits behind its own circuit breaker; while a breaker is open calls
// fail fast as unavailable.
type Verifier struct {
	pan     guardedProvider
	aadhaar guardedProvider
	logger  *slog.Logger
	metrics *Metrics
}

type VerifierOption func(*Verifier)

func WithLogger(logger *slog.Logger) VerifierOption {
	return func(v *Verifier) {
		v.logger = logger
	}
}

func WithMetrics(m *Metrics) VerifierOption {
	return func(v *Verifier) {
		v.metrics = m
	}
}

// WithBreakerOptions configures both breakers.
func WithBreakerOptions(opts ...circuit.Option) VerifierOption {
	return func(v *Verifier) {
		v.pan.breaker = circuit.New(v.pan.provider.ID(), opts...)
		v.aadhaar.breaker = circuit.New(v.aadhaar.provider.ID(), opts...)
	}
}

func NewVerifier(pan, aadhaar Provider, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		pan:     guardedProvider{provider: pan, breaker: circuit.New(pan.ID())},
		aadhaar: guardedProvider{provider: aadhaar, breaker: circuit.New(aadhaar.ID())},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyPAN checks a PAN and returns the registered holder name, which may be
// empty.
func (v *Verifier) VerifyPAN(ctx context.Context, pan string) (string, error) {
	number := strings.ToUpper(strings.TrimSpace(pan))
	if number == "" {
		return "", dErrors.New(dErrors.CodeValidation, "PAN number is required")
	}
	result, err := v.call(ctx, v.pan, number)
	if err != nil {
		return "", err
	}
	if !result.Valid {
		return "", dErrors.New(dErrors.CodeUnprocessable, "PAN could not be verified")
	}
	return result.HolderName, nil
}

// VerifyAadhaar checks an Aadhaar number.
func (v *Verifier) VerifyAadhaar(ctx context.Context, aadhaar string) error {
	number := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, aadhaar)
	if number == "" {
		return dErrors.New(dErrors.CodeValidation, "Aadhaar number is required")
	}
	result, err := v.call(ctx, v.aadhaar, number)
	if err != nil {
		return err
	}
	if !result.Valid {
		return dErrors.New(dErrors.CodeUnprocessable, "Aadhaar could not be verified")
	}
	return nil
}

// Health reports the first unhealthy provider.
func (v *Verifier) Health(ctx context.Context) error {
	for _, g := range []guardedProvider{v.pan, v.aadhaar} {
		if err := g.provider.Health(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (v *Verifier) call(ctx context.Context, g guardedProvider, number string) (*Result, error) {
	id := g.provider.ID()
	doc := g.provider.Document()
	if !g.breaker.Allow() {
		v.metrics.IncrementCall(doc, "circuit_open")
		return nil, dErrors.Wrap(
			NewProviderError(ErrorProviderOutage, id, "circuit open", nil),
			dErrors.CodeUnavailable, "verification provider unavailable, try again later")
	}

	start := time.Now()
	result, err := g.provider.Verify(ctx, number)
	v.metrics.ObserveLatency(doc, start)
	if err != nil {
		if countsAgainstBreaker(err) {
			if _, change := g.breaker.RecordFailure(); change.Opened {
				v.metrics.SetBreakerOpen(doc, true)
				v.logger.WarnContext(ctx, "document provider circuit opened", "provider", id)
			}
		}
		category := GetCategory(err)
		v.metrics.IncrementCall(doc, string(category))
		v.logger.WarnContext(ctx, "document verification failed",
			"provider", id,
			"category", string(category),
			"error", err,
		)
		return nil, translate(err)
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		v.metrics.SetBreakerOpen(doc, false)
		v.logger.InfoContext(ctx, "document provider circuit closed", "provider", id)
	}
	if result.Valid {
		v.metrics.IncrementCall(doc, "valid")
	} else {
		v.metrics.IncrementCall(doc, "invalid")
	}
	return result, nil
}

func translate(err error) error {
	switch GetCategory(err) {
	case ErrorNotFound:
		return dErrors.Wrap(err, dErrors.CodeUnprocessable, "document not found in registry")
	case ErrorBadData:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "verification provider returned an unexpected response")
	case ErrorTimeout, ErrorProviderOutage, ErrorRateLimited:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "verification provider unavailable, try again later")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "document verification failed")
}
