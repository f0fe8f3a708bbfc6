package cmd

import (
	"fmt"
	"strings"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Print a session transcript",
	Long: `Print the full transcript of one session.

Accepts a full session id or a unique prefix of one (as shown by
'newschat sessions').`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := newBackend()
		ctx := cmd.Context()

		id, err := expandSessionID(cmd, args[0])
		if err != nil {
			return err
		}

		history, err := backend.History(ctx, id)
		if err != nil {
			if internal.IsStaleSession(err) {
				return fmt.Errorf("session not found: %s (use 'newschat sessions' to see available sessions)", args[0])
			}
			return fmt.Errorf("failed to fetch history: %w", err)
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("💬 Session %s (%d messages)", shortID(id), len(history))))
		fmt.Println()
		printTranscript(cmd.OutOrStdout(), history)
		return nil
	},
}

// expandSessionID resolves a prefix against the server's session list
func expandSessionID(cmd *cobra.Command, prefix string) (string, error) {
	backend := newBackend()
	sessions, err := backend.ListSessions(cmd.Context())
	if err != nil {
		// Listing is best effort here; the raw id may still work.
		return prefix, nil
	}
	var matches []string
	for _, s := range sessions {
		if s.SessionID == prefix {
			return s.SessionID, nil
		}
		if strings.HasPrefix(s.SessionID, prefix) {
			matches = append(matches, s.SessionID)
		}
	}
	switch len(matches) {
	case 0:
		return prefix, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous session id %s matches %d sessions", prefix, len(matches))
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
