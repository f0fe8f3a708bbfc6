package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
)

// JSONLExporter exports session transcripts in JSONL format (one message per
// line)
type JSONLExporter struct{}

// Export exports a session transcript to JSONL format
func (e *JSONLExporter) Export(record *internal.SessionRecord, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range record.Messages {
		obj := map[string]interface{}{
			"role":    msg.Role,
			"content": msg.Content,
		}

		// Encode to single line
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
