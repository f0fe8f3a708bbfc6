package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Backend is the consumed REST contract of the chat server
type Backend interface {
	CreateSession(ctx context.Context) (*CreateSessionResponse, error)
	ListSessions(ctx context.Context) ([]SessionSummary, error)
	History(ctx context.Context, sessionID string) ([]Message, error)
	SendMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// HTTPBackend talks to the chat server over its JSON REST API
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBackend creates a backend client for the given base URL
func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// BaseURL returns the configured server base URL
func (b *HTTPBackend) BaseURL() string {
	return b.baseURL
}

// WebSocketURL derives the push-channel endpoint for a client channel id
func (b *HTTPBackend) WebSocketURL(channelID string) string {
	u := b.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws?channel=" + url.QueryEscape(channelID)
}

// CreateSession requests a new session from the backend
func (b *HTTPBackend) CreateSession(ctx context.Context) (*CreateSessionResponse, error) {
	var resp CreateSessionResponse
	if err := b.doJSON(ctx, "create", http.MethodPost, "/api/session", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSessions fetches the session summary list
func (b *HTTPBackend) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	var resp ListSessionsResponse
	if err := b.doJSON(ctx, "list", http.MethodGet, "/api/session", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// History fetches the full message history of one session
func (b *HTTPBackend) History(ctx context.Context, sessionID string) ([]Message, error) {
	var resp HistoryResponse
	path := "/api/session/" + url.PathEscape(sessionID) + "/history"
	if err := b.doJSON(ctx, "history", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// SendMessage submits one chat turn and blocks until the final answer
func (b *HTTPBackend) SendMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := b.doJSON(ctx, "chat", http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSession removes a session server-side (legacy reset variant)
func (b *HTTPBackend) DeleteSession(ctx context.Context, sessionID string) error {
	path := "/api/session/" + url.PathEscape(sessionID)
	return b.doJSON(ctx, "delete", http.MethodDelete, path, nil, nil)
}

func (b *HTTPBackend) doJSON(ctx context.Context, op, method, path string, body, out interface{}) error {
	u := b.baseURL + path

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, URL: u, Err: fmt.Errorf("encode request: %w", err)}
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return &TransportError{Op: op, URL: u, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: u, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &TransportError{Op: op, URL: u, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Op: op, URL: u, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}
