package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
	"github.com/Shreyaannnnn/rag-news-bot-client/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	sessionID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session transcripts to file",
	Long: `Export session transcripts to various formats (jsonl, md, yaml, json).

You can export all sessions or a specific session by ID.
Use 'newschat sessions' to see available session IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := newBackend()
		ctx := cmd.Context()

		sessions, err := backend.ListSessions(ctx)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		// Filter by session ID if specified
		if sessionID != "" {
			id, err := expandSessionID(cmd, sessionID)
			if err != nil {
				return err
			}
			filtered := make([]internal.SessionSummary, 0, 1)
			for _, s := range sessions {
				if s.SessionID == id {
					filtered = append(filtered, s)
					break
				}
			}
			if len(filtered) == 0 {
				return fmt.Errorf("session not found: %s (use 'newschat sessions' to see available sessions)", sessionID)
			}
			sessions = filtered
		}

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		for _, summary := range sessions {
			history, err := backend.History(ctx, summary.SessionID)
			if err != nil {
				internal.Logger.Warn().Err(err).Str("session_id", summary.SessionID).Msg("skipping session")
				continue
			}
			record := &internal.SessionRecord{
				SessionID: summary.SessionID,
				Title:     summary.Title,
				UpdatedAt: summary.UpdatedAt,
				Messages:  history,
			}

			filename := fmt.Sprintf("session_%s.%s", record.SessionID, exporter.Extension())
			path := filepath.Join(outputDir, filename)

			file, err := os.Create(path)
			if err != nil {
				internal.Logger.Error().Err(err).Str("path", path).Msg("failed to create file")
				continue
			}
			if err := exporter.Export(record, file); err != nil {
				_ = file.Close()
				internal.Logger.Error().Err(err).Str("session_id", record.SessionID).Msg("failed to export session")
				continue
			}
			if err := file.Close(); err != nil {
				internal.Logger.Warn().Err(err).Str("path", path).Msg("failed to close file")
				continue
			}
			exported++
		}

		fmt.Printf("Export complete: %d session(s) exported to %s\n", exported, outputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&sessionID, "session-id", "", "Export a specific session by ID")
}
