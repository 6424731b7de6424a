package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const maxResponseBytes = 1 << 20

// HTTPProvider calls a JSON registry API:
//
//	POST {baseURL}/v1/{document}/verify  {"number": "..."}
//	200  {"valid": true, "holder_name": "...", "reference_id": "..."}
type HTTPProvider struct {
	id         string
	document   DocumentType
	baseURL    string
	apiKey     string
	client     *http.Client
	maxRetries uint64
	backoff    func() backoff.BackOff
	now        func() time.Time
}

type HTTPOption func(*HTTPProvider)

// WithMaxRetries bounds retries of retryable failures. Zero disables retry.
func WithMaxRetries(n uint64) HTTPOption {
	return func(p *HTTPProvider) {
		p.maxRetries = n
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		if c != nil {
			p.client = c
		}
	}
}

// WithBackOff replaces the exponential policy between retries.
func WithBackOff(factory func() backoff.BackOff) HTTPOption {
	return func(p *HTTPProvider) {
		if factory != nil {
			p.backoff = factory
		}
	}
}

func NewHTTPProvider(id string, document DocumentType, baseURL, apiKey string, timeout time.Duration, opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		id:         id,
		document:   document,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		client:     &http.Client{Timeout: timeout},
		maxRetries: 3,
		backoff:    defaultBackOff,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	return b
}

func (p *HTTPProvider) ID() string             { return p.id }
func (p *HTTPProvider) Document() DocumentType { return p.document }

type verifyRequest struct {
	Number string `json:"number"`
}

type verifyResponse struct {
	Valid       *bool  `json:"valid"`
	HolderName  string `json:"holder_name"`
	ReferenceID string `json:"reference_id"`
}

// Verify retries retryable failures with exponential backoff; other failures
// return immediately.
func (p *HTTPProvider) Verify(ctx context.Context, number string) (*Result, error) {
	var result *Result
	op := func() error {
		r, err := p.verifyOnce(ctx, number)
		if err != nil {
			if IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = r
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(p.backoff(), p.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *HTTPProvider) verifyOnce(ctx context.Context, number string) (*Result, error) {
	body, err := json.Marshal(verifyRequest{Number: number})
	if err != nil {
		return nil, NewProviderError(ErrorInternal, p.id, "failed to encode request", err)
	}
	url := fmt.Sprintf("%s/v1/%s/verify", p.baseURL, p.document)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewProviderError(ErrorInternal, p.id, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.transportError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewProviderError(ErrorProviderOutage, p.id, "failed to read response", err)
	}
	return p.parseResponse(resp.StatusCode, number, payload)
}

func (p *HTTPProvider) transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError(ErrorTimeout, p.id, "request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewProviderError(ErrorTimeout, p.id, "request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewProviderError(ErrorInternal, p.id, "request cancelled", err)
	}
	return NewProviderError(ErrorProviderOutage, p.id, "request failed", err)
}

func (p *HTTPProvider) parseResponse(status int, number string, body []byte) (*Result, error) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, NewProviderError(ErrorAuthentication, p.id, "credentials rejected", nil)
	case status == http.StatusNotFound:
		return nil, NewProviderError(ErrorNotFound, p.id, "document not found", nil)
	case status == http.StatusTooManyRequests:
		return nil, NewProviderError(ErrorRateLimited, p.id, "rate limited", nil)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return nil, NewProviderError(ErrorTimeout, p.id, "upstream timeout", nil)
	case status >= 500:
		return nil, NewProviderError(ErrorProviderOutage, p.id, fmt.Sprintf("unexpected status %d", status), nil)
	case status != http.StatusOK:
		return nil, NewProviderError(ErrorBadData, p.id, fmt.Sprintf("unexpected status %d", status), nil)
	}

	var resp verifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewProviderError(ErrorBadData, p.id, "malformed response", err)
	}
	if resp.Valid == nil {
		return nil, NewProviderError(ErrorBadData, p.id, "response missing valid flag", nil)
	}
	return &Result{
		ProviderID:  p.id,
		Document:    p.document,
		Number:      number,
		Valid:       *resp.Valid,
		HolderName:  strings.TrimSpace(resp.HolderName),
		ReferenceID: resp.ReferenceID,
		CheckedAt:   p.now(),
	}, nil
}

// Health calls GET {baseURL}/health.
func (p *HTTPProvider) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return NewProviderError(ErrorInternal, p.id, "failed to build request", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return p.transportError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return NewProviderError(ErrorProviderOutage, p.id, fmt.Sprintf("health status %d", resp.StatusCode), nil)
	}
	return nil
}
