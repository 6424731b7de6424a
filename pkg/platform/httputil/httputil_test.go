package httputil

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "orgdesk/pkg/domain-errors"
	"orgdesk/pkg/testutil"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		describe string
	}{
		{"internal hides message", dErrors.New(dErrors.CodeInternal, "db failed"), http.StatusInternalServerError, "internal_error", ""},
		{"uncoded is internal", errors.New("boom"), http.StatusInternalServerError, "internal_error", ""},
		{"validation", dErrors.New(dErrors.CodeValidation, "email is invalid"), http.StatusBadRequest, "validation_error", "email is invalid"},
		{"not found", dErrors.New(dErrors.CodeNotFound, "onboarding session not found"), http.StatusNotFound, "not_found", "onboarding session not found"},
		{"conflict", dErrors.New(dErrors.CodeConflict, "username already taken"), http.StatusConflict, "conflict", "username already taken"},
		{"unavailable", dErrors.New(dErrors.CodeUnavailable, "provider down"), http.StatusServiceUnavailable, "service_unavailable", "provider down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			testutil.AssertStatusAndError(t, rr, tt.status, tt.code)
			body := testutil.UnmarshalErrorResponse(t, rr)
			desc, ok := body["error_description"]
			if tt.describe == "" {
				assert.False(t, ok, "description must be omitted")
				return
			}
			assert.Equal(t, tt.describe, desc)
		})
	}
}

type pingRequest struct {
	Name string `json:"name"`
}

func (r *pingRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	decode := func(body string) (*pingRequest, *httptest.ResponseRecorder, bool) {
		rr := httptest.NewRecorder()
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/", body)
		out, ok := DecodeAndPrepare[pingRequest](rr, req, logger, req.Context(), "req-1")
		return out, rr, ok
	}

	t.Run("normalizes through Validate", func(t *testing.T) {
		out, _, ok := decode(`{"name":"  asha "}`)
		require.True(t, ok)
		assert.Equal(t, "asha", out.Name)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, rr, ok := decode(`{"name":"asha","extra":1}`)
		assert.False(t, ok)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("uncoded validation errors become validation_error", func(t *testing.T) {
		_, rr, ok := decode(`{"name":" "}`)
		assert.False(t, ok)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("empty body still validates", func(t *testing.T) {
		_, rr, ok := decode(``)
		assert.False(t, ok)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}
