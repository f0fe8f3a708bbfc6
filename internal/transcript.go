package internal

// TurnState tracks whether a chat request is in flight for the current turn
type TurnState int

const (
	// TurnIdle means no request is outstanding
	TurnIdle TurnState = iota
	// TurnAwaiting means a user message and its empty assistant placeholder
	// have been appended and the answer has not arrived yet
	TurnAwaiting
)

// ErrorAnswer is the fixed assistant message appended when a chat request fails
const ErrorAnswer = "Error generating response."

// Transcript is the ordered, append-only message list for exactly one
// session, together with the citations of the last completed turn and the
// per-turn state machine. It is replaced wholesale when the active session
// changes and is never merged across sessions.
//
// Transcript does no locking; the Controller serializes all mutations.
type Transcript struct {
	messages []Message
	sources  []Source
	state    TurnState
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Messages returns a copy of the ordered message list
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Sources returns a copy of the citations of the last completed turn
func (t *Transcript) Sources() []Source {
	out := make([]Source, len(t.sources))
	copy(out, t.sources)
	return out
}

// Len returns the number of messages
func (t *Transcript) Len() int {
	return len(t.messages)
}

// State returns the current turn state
func (t *Transcript) State() TurnState {
	return t.state
}

// Awaiting reports whether a turn is waiting for its answer
func (t *Transcript) Awaiting() bool {
	return t.state == TurnAwaiting
}

// BeginTurn appends the user message together with its empty assistant
// placeholder and enters the Awaiting state. Citations from the previous
// turn are cleared.
func (t *Transcript) BeginTurn(text string) {
	t.messages = append(t.messages,
		Message{Role: RoleUser, Content: text},
		Message{Role: RoleAssistant},
	)
	t.sources = nil
	t.state = TurnAwaiting
}

// ApplyToken folds one streamed token into the transcript: if the last
// message is an assistant message its content grows by the token, otherwise
// a new assistant message is created from it. Tokens may arrive before the
// placeholder exists; both paths converge to the same final content.
func (t *Transcript) ApplyToken(text string) {
	if n := len(t.messages); n > 0 && t.messages[n-1].Role == RoleAssistant {
		t.messages[n-1].Content += text
		return
	}
	t.messages = append(t.messages, Message{Role: RoleAssistant, Content: text})
}

// CompleteTurn ends the current turn. A non-empty answer overwrites the most
// recent assistant message verbatim, discarding whatever partial tokens
// accumulated; an empty answer leaves the streamed content standing. The
// citation list is replaced wholesale either way.
func (t *Transcript) CompleteTurn(answer string, sources []Source) {
	t.state = TurnIdle
	t.sources = sources
	if answer == "" {
		return
	}
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == RoleAssistant {
			t.messages[i].Content = answer
			return
		}
	}
}

// FailTurn ends the current turn with a visible error message. The empty
// placeholder is left in place, so a failed turn yields two assistant
// entries.
func (t *Transcript) FailTurn() {
	t.state = TurnIdle
	t.messages = append(t.messages, Message{Role: RoleAssistant, Content: ErrorAnswer})
}

// Replace swaps the transcript wholesale, as happens on a session switch.
// Append and merge rules never apply across a replace boundary: the turn
// state resets to Idle and citations are cleared.
func (t *Transcript) Replace(messages []Message) {
	t.messages = append([]Message(nil), messages...)
	t.sources = nil
	t.state = TurnIdle
}

// Clear empties the transcript, as happens when a new session starts
func (t *Transcript) Clear() {
	t.Replace(nil)
}
