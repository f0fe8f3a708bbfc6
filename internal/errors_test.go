package internal

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestTransportError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := &TransportError{Op: "list", URL: "http://x/api/session", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not reach the wrapped cause")
	}
	if msg := err.Error(); !strings.Contains(msg, "list") || !strings.Contains(msg, "connection refused") {
		t.Errorf("Error() = %q, want op and cause included", msg)
	}
}

func TestTransportError_StatusInMessage(t *testing.T) {
	err := &TransportError{Op: "history", URL: "http://x", Status: 404, Err: fmt.Errorf("unexpected status 404 Not Found")}
	if msg := err.Error(); !strings.Contains(msg, "404") {
		t.Errorf("Error() = %q, want the status included", msg)
	}
}

func TestSessionError_Unwrap(t *testing.T) {
	cause := &TransportError{Op: "history", URL: "http://x", Status: http.StatusNotFound, Err: fmt.Errorf("gone")}
	err := &SessionError{SessionID: "s1", Op: "switch", Err: cause}

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatal("errors.As() did not reach the wrapped transport error")
	}
	if !IsStaleSession(err) {
		t.Error("IsStaleSession() = false through a SessionError wrapper, want true")
	}
	if msg := err.Error(); !strings.Contains(msg, "s1") {
		t.Errorf("Error() = %q, want the session id included", msg)
	}
}

func TestIsStaleSession(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"transport 404", &TransportError{Status: http.StatusNotFound, Err: fmt.Errorf("gone")}, true},
		{"transport 500", &TransportError{Status: http.StatusInternalServerError, Err: fmt.Errorf("oops")}, false},
		{"transport no status", &TransportError{Err: fmt.Errorf("refused")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStaleSession(tt.err); got != tt.want {
				t.Errorf("IsStaleSession() = %v, want %v", got, tt.want)
			}
		})
	}
}
