package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		record  *internal.SessionRecord
		want    []string
		wantErr bool
	}{
		{
			name:   "basic record",
			record: internal.CreateTestRecord("test1"),
			want: []string{
				"# Session test1",
				"**Title:** Test Conversation",
				"**Messages:** 2",
				"## Messages",
				"**user:**",
				"What happened in the markets today?",
				"**assistant:**",
				"Stocks closed broadly higher.",
			},
			wantErr: false,
		},
		{
			name: "record without title",
			record: &internal.SessionRecord{
				SessionID: "test2",
				Messages:  []internal.Message{},
			},
			want: []string{
				"# Session test2",
				"**Messages:** 0",
			},
			wantErr: false,
		},
		{
			name: "bold in content escaped",
			record: &internal.SessionRecord{
				SessionID: "test3",
				Messages: []internal.Message{
					{Role: internal.RoleAssistant, Content: "This is **bold** news"},
				},
			},
			want:    []string{"\\*\\*bold\\*\\*"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &MarkdownExporter{}

			err := exporter.Export(tt.record, &buf)
			if (err != nil) != tt.wantErr {
				t.Errorf("MarkdownExporter.Export() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	exporter := &MarkdownExporter{}
	if got := exporter.Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		notWant []string
	}{
		{
			name:  "basic text",
			input: "Hello world",
			want:  []string{"Hello world"},
		},
		{
			name:    "markdown bold",
			input:   "This is **bold** text",
			want:    []string{"\\*\\*bold\\*\\*"},
			notWant: []string{"**bold**"},
		},
		{
			name:  "code block preserved",
			input: "```go\npackage main\n```",
			want:  []string{"```go", "package main", "```"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := escapeMarkdown(tt.input)
			for _, wantStr := range tt.want {
				if !strings.Contains(got, wantStr) {
					t.Errorf("escapeMarkdown() should contain %q, got: %s", wantStr, got)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(got, notWantStr) {
					t.Errorf("escapeMarkdown() should not contain %q, got: %s", notWantStr, got)
				}
			}
		})
	}
}
