package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
)

// FakeBackend is a scripted in-memory implementation of internal.Backend.
// Zero value is usable; fields configure responses and injected failures.
type FakeBackend struct {
	mu sync.Mutex

	// NextSessionIDs are handed out by CreateSession in order; once
	// exhausted, generated ids are used.
	NextSessionIDs []string
	// Sessions is returned by ListSessions.
	Sessions []internal.SessionSummary
	// IncludeSessionsOnCreate makes CreateSession return Sessions inline,
	// exercising the optional field of the create response.
	IncludeSessionsOnCreate bool
	// Histories maps session ids to the history returned for them.
	Histories map[string][]internal.Message
	// Answer and Sources shape the chat response.
	Answer  string
	Sources []internal.Source

	CreateErr  error
	ListErr    error
	HistoryErr error
	ChatErr    error
	DeleteErr  error

	// ChatStarted, when non-nil, receives the session id as soon as
	// SendMessage is entered. ChatRelease, when non-nil, blocks SendMessage
	// until the test releases it. Together they let a test hold a chat
	// request in flight.
	ChatStarted chan string
	ChatRelease chan struct{}

	CreateCalls  int
	ListCalls    int
	HistoryCalls int
	ChatCalls    int
	DeleteCalls  int

	LastChat internal.ChatRequest
	Deleted  []string

	counter int
}

var _ internal.Backend = (*FakeBackend)(nil)

func (b *FakeBackend) CreateSession(ctx context.Context) (*internal.CreateSessionResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CreateCalls++
	if b.CreateErr != nil {
		return nil, b.CreateErr
	}

	var id string
	if len(b.NextSessionIDs) > 0 {
		id = b.NextSessionIDs[0]
		b.NextSessionIDs = b.NextSessionIDs[1:]
	} else {
		b.counter++
		id = fmt.Sprintf("generated-%d", b.counter)
	}
	b.Sessions = append(b.Sessions, internal.SessionSummary{SessionID: id, UpdatedAt: time.Now()})

	resp := &internal.CreateSessionResponse{SessionID: id}
	if b.IncludeSessionsOnCreate {
		resp.Sessions = append([]internal.SessionSummary(nil), b.Sessions...)
	}
	return resp, nil
}

func (b *FakeBackend) ListSessions(ctx context.Context) ([]internal.SessionSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ListCalls++
	if b.ListErr != nil {
		return nil, b.ListErr
	}
	return append([]internal.SessionSummary(nil), b.Sessions...), nil
}

func (b *FakeBackend) History(ctx context.Context, sessionID string) ([]internal.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.HistoryCalls++
	if b.HistoryErr != nil {
		return nil, b.HistoryErr
	}
	return append([]internal.Message(nil), b.Histories[sessionID]...), nil
}

func (b *FakeBackend) SendMessage(ctx context.Context, req internal.ChatRequest) (*internal.ChatResponse, error) {
	b.mu.Lock()
	b.ChatCalls++
	b.LastChat = req
	started := b.ChatStarted
	release := b.ChatRelease
	chatErr := b.ChatErr
	answer := b.Answer
	sources := append([]internal.Source(nil), b.Sources...)
	b.mu.Unlock()

	if started != nil {
		started <- req.SessionID
	}
	if release != nil {
		<-release
	}
	if chatErr != nil {
		return nil, chatErr
	}
	return &internal.ChatResponse{Answer: answer, Sources: sources}, nil
}

func (b *FakeBackend) DeleteSession(ctx context.Context, sessionID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.DeleteCalls++
	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	b.Deleted = append(b.Deleted, sessionID)
	kept := b.Sessions[:0]
	for _, s := range b.Sessions {
		if s.SessionID != sessionID {
			kept = append(kept, s)
		}
	}
	b.Sessions = kept
	return nil
}
