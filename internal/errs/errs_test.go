package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindsUnwrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		is     func(error) bool
		status int
	}{
		{"not found", NewNotFound("article", "a1"), IsNotFound, http.StatusNotFound},
		{"validation", NewValidation("page", "must be >= 1"), IsValidation, http.StatusBadRequest},
		{"unauthenticated", NewUnauthenticated("no session"), IsUnauthenticated, http.StatusUnauthorized},
		{"transaction", NewTransactionFailed("save article", errors.New("boom")), IsTransactionFailed, http.StatusConflict},
		{"upstream", NewUpstreamUnavailable("load article", errors.New("dial tcp")), IsUpstreamUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler: %w", tt.err)
			if !tt.is(wrapped) {
				t.Errorf("kind check failed for %v", wrapped)
			}
			if got := StatusCode(wrapped); got != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, got)
			}
		})
	}
}

func TestUpstream_KeepsExistingKind(t *testing.T) {
	notFound := NewNotFound("category", "c1")
	if err := Upstream("load category", notFound); !IsNotFound(err) {
		t.Errorf("Expected NotFound to pass through, got %v", err)
	}

	if err := Upstream("load category", errors.New("connection refused")); !IsUpstreamUnavailable(err) {
		t.Errorf("Expected UpstreamUnavailable, got %v", err)
	}

	if err := Upstream("noop", nil); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	if !NewTransactionFailed("save", nil).Retryable() {
		t.Error("transaction failures should be retryable")
	}
	if NewUpstreamUnavailable("load", nil).Retryable() {
		t.Error("upstream failures are not retried by the core")
	}
	if StatusCode(errors.New("plain")) != http.StatusInternalServerError {
		t.Error("unclassified errors map to 500")
	}
}
