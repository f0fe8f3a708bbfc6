package internal

import (
	"time"
)

// CreateTestSummaries creates n session summaries with descending UpdatedAt,
// newest first
func CreateTestSummaries(n int) []SessionSummary {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	out := make([]SessionSummary, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, SessionSummary{
			SessionID: "session-" + string(rune('a'+i)),
			Title:     "Conversation " + string(rune('A'+i)),
			UpdatedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return out
}

// CreateTestRecord creates a session record with one completed turn
func CreateTestRecord(id string) *SessionRecord {
	return &SessionRecord{
		SessionID: id,
		Title:     "Test Conversation",
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Messages: []Message{
			{Role: RoleUser, Content: "What happened in the markets today?"},
			{Role: RoleAssistant, Content: "Stocks closed broadly higher."},
		},
	}
}

// CreateTestHistory creates a short alternating user/assistant history
func CreateTestHistory(turns int) []Message {
	out := make([]Message, 0, turns*2)
	for i := 0; i < turns; i++ {
		out = append(out,
			Message{Role: RoleUser, Content: "question"},
			Message{Role: RoleAssistant, Content: "answer"},
		)
	}
	return out
}
