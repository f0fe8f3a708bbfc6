package internal

import (
	"reflect"
	"testing"
)

func TestTranscript_BeginTurn(t *testing.T) {
	tr := NewTranscript()
	tr.CompleteTurn("old answer", []Source{{URL: "http://old"}})

	tr.BeginTurn("hi")

	want := []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: ""},
	}
	if got := tr.Messages(); !reflect.DeepEqual(got, want) {
		t.Errorf("Messages() = %v, want %v", got, want)
	}
	if !tr.Awaiting() {
		t.Error("Awaiting() = false, want true after BeginTurn")
	}
	if got := tr.Sources(); len(got) != 0 {
		t.Errorf("Sources() = %v, want cleared on new turn", got)
	}
}

func TestTranscript_ApplyToken(t *testing.T) {
	tests := []struct {
		name  string
		setup func(tr *Transcript)
		token string
		want  []Message
	}{
		{
			name:  "empty transcript creates assistant message",
			setup: func(tr *Transcript) {},
			token: "He",
			want:  []Message{{Role: RoleAssistant, Content: "He"}},
		},
		{
			name: "user message last creates assistant message",
			setup: func(tr *Transcript) {
				tr.Replace([]Message{{Role: RoleUser, Content: "hi"}})
			},
			token: "He",
			want: []Message{
				{Role: RoleUser, Content: "hi"},
				{Role: RoleAssistant, Content: "He"},
			},
		},
		{
			name: "assistant message last grows",
			setup: func(tr *Transcript) {
				tr.Replace([]Message{
					{Role: RoleUser, Content: "hi"},
					{Role: RoleAssistant, Content: "He"},
				})
			},
			token: "llo",
			want: []Message{
				{Role: RoleUser, Content: "hi"},
				{Role: RoleAssistant, Content: "Hello"},
			},
		},
		{
			name: "placeholder fills",
			setup: func(tr *Transcript) {
				tr.BeginTurn("hi")
			},
			token: "He",
			want: []Message{
				{Role: RoleUser, Content: "hi"},
				{Role: RoleAssistant, Content: "He"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranscript()
			tt.setup(tr)
			tr.ApplyToken(tt.token)
			if got := tr.Messages(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Messages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTranscript_TokenConcatenation(t *testing.T) {
	// The assistant content must equal the concatenation of tokens in
	// delivery order as long as no final answer arrived.
	tr := NewTranscript()
	tr.BeginTurn("what happened today?")

	tokens := []string{"Sto", "cks ", "closed", " higher", "."}
	for _, tok := range tokens {
		tr.ApplyToken(tok)
	}

	msgs := tr.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != RoleAssistant {
		t.Fatalf("last message role = %q, want assistant", last.Role)
	}
	if want := "Stocks closed higher."; last.Content != want {
		t.Errorf("streamed content = %q, want %q", last.Content, want)
	}
}

func TestTranscript_CompleteTurn_OverridesPartialContent(t *testing.T) {
	tr := NewTranscript()
	tr.BeginTurn("hi")
	tr.ApplyToken("Hel")

	tr.CompleteTurn("Hello world", []Source{{URL: "http://x", Title: "X"}})

	msgs := tr.Messages()
	if want := "Hello world"; msgs[len(msgs)-1].Content != want {
		t.Errorf("final content = %q, want %q", msgs[len(msgs)-1].Content, want)
	}
	if tr.Awaiting() {
		t.Error("Awaiting() = true, want false after CompleteTurn")
	}
	if got := tr.Sources(); len(got) != 1 || got[0].URL != "http://x" {
		t.Errorf("Sources() = %v, want the turn's citation", got)
	}
}

func TestTranscript_CompleteTurn_EmptyAnswerKeepsStreamedContent(t *testing.T) {
	tr := NewTranscript()
	tr.BeginTurn("hi")
	tr.ApplyToken("Hello")

	tr.CompleteTurn("", nil)

	msgs := tr.Messages()
	if want := "Hello"; msgs[len(msgs)-1].Content != want {
		t.Errorf("content = %q, want streamed %q to stand", msgs[len(msgs)-1].Content, want)
	}
	if tr.Awaiting() {
		t.Error("Awaiting() = true, want false after CompleteTurn")
	}
}

func TestTranscript_CompleteTurn_NoAssistantMessage(t *testing.T) {
	tr := NewTranscript()
	tr.Replace([]Message{{Role: RoleUser, Content: "hi"}})

	tr.CompleteTurn("Hello", nil)

	want := []Message{{Role: RoleUser, Content: "hi"}}
	if got := tr.Messages(); !reflect.DeepEqual(got, want) {
		t.Errorf("Messages() = %v, want %v (answer with no assistant slot is not inserted)", got, want)
	}
}

func TestTranscript_FailTurn(t *testing.T) {
	tr := NewTranscript()
	tr.BeginTurn("hi")
	tr.ApplyToken("He")

	tr.FailTurn()

	want := []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "He"},
		{Role: RoleAssistant, Content: ErrorAnswer},
	}
	if got := tr.Messages(); !reflect.DeepEqual(got, want) {
		t.Errorf("Messages() = %v, want %v", got, want)
	}
	if tr.Awaiting() {
		t.Error("Awaiting() = true, want false after FailTurn")
	}
}

func TestTranscript_Replace(t *testing.T) {
	tr := NewTranscript()
	tr.BeginTurn("hi")
	tr.ApplyToken("He")
	tr.CompleteTurn("Hello", []Source{{URL: "http://x"}})

	history := []Message{
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
	}
	tr.Replace(history)

	if got := tr.Messages(); !reflect.DeepEqual(got, history) {
		t.Errorf("Messages() = %v, want %v", got, history)
	}
	if got := tr.Sources(); len(got) != 0 {
		t.Errorf("Sources() = %v, want cleared on replace", got)
	}
	if tr.Awaiting() {
		t.Error("Awaiting() = true, want Idle after replace")
	}

	// Mutating the caller's slice must not leak into the transcript.
	history[0].Content = "mutated"
	if tr.Messages()[0].Content != "q" {
		t.Error("Replace() did not copy the message slice")
	}
}

func TestTranscript_Clear(t *testing.T) {
	tr := NewTranscript()
	tr.BeginTurn("hi")
	tr.Clear()
	if tr.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Clear", tr.Len())
	}
}
