package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError represents a failed backend call (unreachable server,
// non-2xx response, undecodable body)
type TransportError struct {
	Op     string // "create", "list", "history", "chat", "delete", "stream"
	URL    string
	Status int // HTTP status, 0 when the request never completed
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport error: %s %s: status %d: %v", e.Op, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("transport error: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SessionError represents a failure scoped to one session
type SessionError struct {
	SessionID string
	Op        string // "switch", "reset", "send"
	Err       error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session error [%s] %s: %v", e.SessionID, e.Op, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// ConfigError represents errors loading the client configuration
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsStaleSession reports whether err indicates the backend no longer
// recognizes the session (a 404 on a history fetch or delete)
func IsStaleSession(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Status == http.StatusNotFound
}
