package internal

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// TokenEventName is the only push-channel event kind the client consumes
const TokenEventName = "chat:token"

// TokenEvent is one streamed answer fragment, normalized for the reducer
type TokenEvent struct {
	SessionID string
	Token     string
}

// TokenHandler consumes token events in delivery order
type TokenHandler func(TokenEvent)

// tokenFrame is the wire shape of a push-channel frame. Token is a pointer
// so a frame missing the field can be told apart from an empty token.
type tokenFrame struct {
	Event     string  `json:"event"`
	SessionID string  `json:"sessionId,omitempty"`
	Token     *string `json:"token"`
}

// Subscription owns the websocket reader for one session context. The
// transport delivers only to this client's private channel, so a frame that
// omits sessionId is attributed to the current active session. Close the
// subscription when the session context is torn down; no tokens are
// delivered afterwards.
type Subscription struct {
	conn    *websocket.Conn
	active  func() string
	handler TokenHandler
	log     zerolog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// Subscribe starts reading token frames from conn and forwarding them to
// handler, one at a time and in delivery order. active supplies the current
// active-session pointer for frames without a session tag.
func Subscribe(conn *websocket.Conn, active func() string, handler TokenHandler) *Subscription {
	s := &Subscription{
		conn:    conn,
		active:  active,
		handler: handler,
		log:     componentLogger("stream"),
		done:    make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *Subscription) readLoop() {
	defer close(s.done)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug().Err(err).Msg("token channel closed")
			return
		}

		var frame tokenFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.log.Debug().Err(err).Msg("dropping undecodable frame")
			continue
		}
		if frame.Event != TokenEventName {
			continue
		}
		if frame.Token == nil {
			s.log.Debug().Msg("dropping token frame without token field")
			continue
		}

		ev := TokenEvent{SessionID: frame.SessionID, Token: *frame.Token}
		if ev.SessionID == "" {
			ev.SessionID = s.active()
		}
		s.handler(ev)
	}
}

// Close tears down the subscription and waits for the reader to exit, so no
// token can be delivered after Close returns
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
		<-s.done
	})
	return err
}

// Dial opens the client's private token channel
func Dial(wsURL string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, &TransportError{Op: "stream", URL: wsURL, Err: err}
	}
	return conn, nil
}
