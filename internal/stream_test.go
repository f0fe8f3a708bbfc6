package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// tokenServer upgrades one connection and returns a channel the test writes
// raw frames into.
func tokenServer(t *testing.T) (*httptest.Server, chan string) {
	t.Helper()
	frames := make(chan string, 16)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		for frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(frames) })
	return srv, frames
}

func dialTest(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := Dial(wsURL)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	return conn
}

func collectEvents(t *testing.T, got <-chan TokenEvent, n int) []TokenEvent {
	t.Helper()
	events := make([]TokenEvent, 0, n)
	for len(events) < n {
		select {
		case ev := <-got:
			events = append(events, ev)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d events", len(events), n)
		}
	}
	return events
}

func TestSubscription_DeliveryOrder(t *testing.T) {
	srv, frames := tokenServer(t)
	conn := dialTest(t, srv)

	got := make(chan TokenEvent, 16)
	sub := Subscribe(conn, func() string { return "s1" }, func(ev TokenEvent) { got <- ev })
	defer sub.Close()

	frames <- `{"event":"chat:token","sessionId":"s1","token":"He"}`
	frames <- `{"event":"chat:token","sessionId":"s1","token":"llo"}`

	events := collectEvents(t, got, 2)
	if events[0].Token != "He" || events[1].Token != "llo" {
		t.Errorf("tokens = [%q %q], want delivery order [He llo]", events[0].Token, events[1].Token)
	}
	if events[0].SessionID != "s1" {
		t.Errorf("SessionID = %q, want %q", events[0].SessionID, "s1")
	}
}

func TestSubscription_DropsForeignAndMalformedFrames(t *testing.T) {
	srv, frames := tokenServer(t)
	conn := dialTest(t, srv)

	got := make(chan TokenEvent, 16)
	sub := Subscribe(conn, func() string { return "s1" }, func(ev TokenEvent) { got <- ev })
	defer sub.Close()

	frames <- `not json at all`
	frames <- `{"event":"session:created","sessionId":"s1"}`
	frames <- `{"event":"chat:token","sessionId":"s1"}`
	frames <- `{"event":"chat:token","sessionId":"s1","token":"ok"}`

	events := collectEvents(t, got, 1)
	if events[0].Token != "ok" {
		t.Errorf("Token = %q, want only the well-formed frame delivered", events[0].Token)
	}
	select {
	case ev := <-got:
		t.Errorf("unexpected extra event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscription_UntaggedFrameUsesActiveSession(t *testing.T) {
	srv, frames := tokenServer(t)
	conn := dialTest(t, srv)

	got := make(chan TokenEvent, 16)
	sub := Subscribe(conn, func() string { return "active-now" }, func(ev TokenEvent) { got <- ev })
	defer sub.Close()

	frames <- `{"event":"chat:token","token":"He"}`

	events := collectEvents(t, got, 1)
	if events[0].SessionID != "active-now" {
		t.Errorf("SessionID = %q, want the active session substituted", events[0].SessionID)
	}
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	srv, frames := tokenServer(t)
	conn := dialTest(t, srv)

	got := make(chan TokenEvent, 16)
	sub := Subscribe(conn, func() string { return "s1" }, func(ev TokenEvent) { got <- ev })

	frames <- `{"event":"chat:token","sessionId":"s1","token":"He"}`
	collectEvents(t, got, 1)

	if err := sub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Close waits for the reader, so nothing can arrive afterwards.
	select {
	case ev := <-got:
		t.Errorf("event %+v delivered after Close", ev)
	case <-time.After(50 * time.Millisecond):
	}
	if err := sub.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
}
