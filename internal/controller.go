package internal

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ResetPolicy selects how StartNewSession treats the session being left
type ResetPolicy string

const (
	// ResetPolicyCreate creates a new session and keeps the old one listed
	ResetPolicyCreate ResetPolicy = "create"
	// ResetPolicyDelete deletes the old session before creating a new one
	// (the legacy reset variant)
	ResetPolicyDelete ResetPolicy = "delete"
)

var (
	// ErrNoActiveSession is returned by Send before Initialize has succeeded
	ErrNoActiveSession = errors.New("no active session")
	// ErrTurnInFlight is returned by Send while a previous turn is still
	// awaiting its answer
	ErrTurnInFlight = errors.New("a turn is already awaiting its answer")
)

// StreamOpener opens the push channel bound to one client channel id.
// active supplies the current active-session pointer for untagged frames.
type StreamOpener func(channelID string, active func() string, handler TokenHandler) (io.Closer, error)

// Options configures a Controller
type Options struct {
	Backend Backend
	// OpenStream opens the push channel during Initialize. Nil leaves the
	// controller without a push channel (request/response only); tests
	// drive HandleToken directly.
	OpenStream StreamOpener
	// Policy selects the reset behavior; defaults to ResetPolicyCreate
	Policy ResetPolicy
	// ChannelID identifies this client's private push channel; defaults to
	// a random UUID
	ChannelID string
}

// Controller owns the active-session pointer and drives session
// transitions. It is the only component that mutates the Transcript and the
// Store: every inbound event (user action, streamed token, backend
// response) is applied under one lock, which is the Go rendition of the
// single-threaded event loop the protocol assumes. Every mutation path
// re-checks the active pointer at the moment of application, never at the
// moment the request was issued.
type Controller struct {
	mu         sync.Mutex
	backend    Backend
	store      *Store
	transcript *Transcript
	policy     ResetPolicy
	channelID  string
	openStream StreamOpener
	stream     io.Closer
	log        zerolog.Logger
}

// NewController creates a controller with no active session
func NewController(opts Options) *Controller {
	if opts.Policy == "" {
		opts.Policy = ResetPolicyCreate
	}
	if opts.ChannelID == "" {
		opts.ChannelID = uuid.NewString()
	}
	return &Controller{
		backend:    opts.Backend,
		store:      NewStore(),
		transcript: NewTranscript(),
		policy:     opts.Policy,
		channelID:  opts.ChannelID,
		openStream: opts.OpenStream,
		log:        componentLogger("controller"),
	}
}

// Store returns the session store
func (c *Controller) Store() *Store {
	return c.store
}

// ChannelID returns this client's push-channel id
func (c *Controller) ChannelID() string {
	return c.channelID
}

// ActiveSession returns the active session id, or "" when none is active
func (c *Controller) ActiveSession() string {
	return c.store.Active()
}

// Messages returns a snapshot of the active transcript
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Messages()
}

// Sources returns a snapshot of the citations of the last completed turn
func (c *Controller) Sources() []Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Sources()
}

// Awaiting reports whether a turn is waiting for its answer; sends are
// rejected while this is true
func (c *Controller) Awaiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Awaiting()
}

// Initialize requests a fresh session, opens the push channel and loads the
// session list. It fails closed: on error there is no active session and
// all sends are rejected.
func (c *Controller) Initialize(ctx context.Context) error {
	resp, err := c.backend.CreateSession(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.store.SetActive(resp.SessionID)
	if len(resp.Sessions) > 0 {
		c.store.ReplaceAll(resp.Sessions)
	}
	c.transcript.Clear()
	c.mu.Unlock()

	if c.openStream != nil {
		stream, err := c.openStream(c.channelID, c.store.Active, c.HandleToken)
		if err != nil {
			c.store.SetActive("")
			return err
		}
		c.stream = stream
	}

	if err := c.RefreshSessionList(ctx); err != nil {
		c.log.Warn().Err(err).Msg("session list refresh failed")
	}
	c.log.Debug().Str("session_id", resp.SessionID).Str("channel_id", c.channelID).Msg("session initialized")
	return nil
}

// StartNewSession begins a fresh conversation. The previous session stays
// retrievable from the session list unless the delete reset policy is
// configured, in which case it is removed server-side first (failures there
// are logged, not fatal).
func (c *Controller) StartNewSession(ctx context.Context) error {
	prev := c.store.Active()
	if c.policy == ResetPolicyDelete && prev != "" {
		if err := c.backend.DeleteSession(ctx, prev); err != nil {
			c.log.Warn().Err(err).Str("session_id", prev).Msg("could not delete previous session")
		}
	}

	resp, err := c.backend.CreateSession(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.store.SetActive(resp.SessionID)
	c.transcript.Clear()
	c.mu.Unlock()

	if err := c.RefreshSessionList(ctx); err != nil {
		c.log.Warn().Err(err).Msg("session list refresh failed")
	}
	c.log.Debug().Str("session_id", resp.SessionID).Msg("started new session")
	return nil
}

// SwitchSession makes target the active session and replaces the transcript
// with its history. Switching to the already-active session is a no-op. The
// pointer moves before the history arrives, so late tokens for the previous
// session are dropped immediately; on a failed history fetch the pointer is
// NOT rolled back. The session list is refreshed instead so a stale entry
// can be pruned, and the transcript keeps its last-known state.
func (c *Controller) SwitchSession(ctx context.Context, target string) error {
	c.mu.Lock()
	if c.store.Active() == target {
		c.mu.Unlock()
		return nil
	}
	c.store.SetActive(target)
	c.mu.Unlock()

	history, err := c.backend.History(ctx, target)
	if err != nil {
		if IsStaleSession(err) {
			c.log.Warn().Str("session_id", target).Msg("session no longer exists on the backend")
		} else {
			c.log.Warn().Err(err).Str("session_id", target).Msg("history fetch failed")
		}
		if rerr := c.RefreshSessionList(ctx); rerr != nil {
			c.log.Warn().Err(rerr).Msg("session list refresh failed")
		}
		return &SessionError{SessionID: target, Op: "switch", Err: err}
	}

	c.mu.Lock()
	if c.store.Active() == target {
		c.transcript.Replace(history)
	}
	c.mu.Unlock()
	return nil
}

// RefreshSessionList fetches the summary list and replaces the store's list
// wholesale
func (c *Controller) RefreshSessionList(ctx context.Context) error {
	sessions, err := c.backend.ListSessions(ctx)
	if err != nil {
		return err
	}
	c.store.ReplaceAll(sessions)
	return nil
}

// Send submits one user turn and blocks until the final answer arrives or
// the request fails. A chat failure surfaces only as a transcript message;
// Send returns an error only when no turn could be started. If the user
// switches away while the request is in flight, the late response is
// dropped; the session re-check at application time is the sole
// cancellation mechanism.
func (c *Controller) Send(ctx context.Context, text string) error {
	c.mu.Lock()
	sid := c.store.Active()
	if sid == "" {
		c.mu.Unlock()
		return ErrNoActiveSession
	}
	if c.transcript.Awaiting() {
		c.mu.Unlock()
		return ErrTurnInFlight
	}
	c.transcript.BeginTurn(text)
	c.mu.Unlock()

	resp, err := c.backend.SendMessage(ctx, ChatRequest{
		SessionID: sid,
		Message:   text,
		ChannelID: c.channelID,
	})

	c.mu.Lock()
	if c.store.Active() != sid {
		c.mu.Unlock()
		c.log.Debug().Str("session_id", sid).Msg("dropping chat response for inactive session")
		return nil
	}
	if err != nil {
		c.transcript.FailTurn()
		c.mu.Unlock()
		c.log.Warn().Err(err).Str("session_id", sid).Msg("chat request failed")
		return nil
	}
	c.transcript.CompleteTurn(resp.Answer, resp.Sources)
	c.mu.Unlock()

	// Summaries refresh after every completed turn.
	if rerr := c.RefreshSessionList(ctx); rerr != nil {
		c.log.Debug().Err(rerr).Msg("session list refresh failed")
	}
	return nil
}

// HandleToken applies one streamed token. It is safe to call from the
// stream reader goroutine; events are applied one at a time in delivery
// order. Tokens whose session does not match the active pointer at the
// moment of application are dropped silently.
func (c *Controller) HandleToken(ev TokenEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ev.SessionID != c.store.Active() {
		c.log.Debug().Str("session_id", ev.SessionID).Msg("dropping token for inactive session")
		return
	}
	c.transcript.ApplyToken(ev.Token)
}

// Close tears down the push-channel subscription. The session context must
// not be used afterwards.
func (c *Controller) Close() error {
	if c.stream == nil {
		return nil
	}
	err := c.stream.Close()
	c.stream = nil
	return err
}
