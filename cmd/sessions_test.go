package cmd

import (
	"testing"
	"time"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
)

func TestShortID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"12345678", "12345678"},
		{"123456789abcdef", "12345678"},
	}
	for _, tt := range tests {
		if got := shortID(tt.in); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatWhen(t *testing.T) {
	if got := formatWhen(time.Time{}); got != "—" {
		t.Errorf("formatWhen(zero) = %q, want placeholder", got)
	}
	old := time.Now().Add(-2 * 365 * 24 * time.Hour)
	if got := formatWhen(old); got != old.Format("2006-01-02") {
		t.Errorf("formatWhen(old) = %q, want date only", got)
	}
	recent := time.Now().Add(-time.Hour)
	if got := formatWhen(recent); got != recent.Format("Today 15:04") {
		t.Errorf("formatWhen(recent) = %q, want today format", got)
	}
}

func TestResolveSessionID(t *testing.T) {
	store := internal.NewStore()
	store.ReplaceAll([]internal.SessionSummary{
		{SessionID: "abcdef12-0000", UpdatedAt: time.Now()},
		{SessionID: "fedcba21-0000", UpdatedAt: time.Now().Add(-time.Hour)},
	})

	if got := resolveSessionID(store, "abcdef12"); got != "abcdef12-0000" {
		t.Errorf("resolveSessionID(prefix) = %q, want the full id", got)
	}
	if got := resolveSessionID(store, "fedcba21-0000"); got != "fedcba21-0000" {
		t.Errorf("resolveSessionID(exact) = %q, want the same id", got)
	}
	if got := resolveSessionID(store, "unknown"); got != "unknown" {
		t.Errorf("resolveSessionID(unknown) = %q, want pass-through", got)
	}
}
