package export

import (
	"encoding/json"
	"io"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
)

// JSONExporter exports session transcripts in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a session transcript to JSON format
func (e *JSONExporter) Export(record *internal.SessionRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(record)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
