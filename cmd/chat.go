package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the news assistant.

Answers stream in live while you wait; citations print after each answer.

In-chat commands:
  /new            Start a fresh session (the old one stays listed)
  /sessions       List known sessions
  /switch <id>    Resume another session
  /quit           Leave the chat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := newBackend()
		out := cmd.OutOrStdout()

		controller := internal.NewController(internal.Options{
			Backend: backend,
			Policy:  cfg.Policy(),
			OpenStream: func(channelID string, active func() string, handler internal.TokenHandler) (io.Closer, error) {
				conn, err := internal.Dial(backend.WebSocketURL(channelID))
				if err != nil {
					return nil, err
				}
				// Tee tokens to the terminal before they reach the
				// transcript, so the answer appears as it is generated.
				return internal.Subscribe(conn, active, func(ev internal.TokenEvent) {
					if ev.SessionID == active() {
						fmt.Fprint(out, assistantStyle.Render(ev.Token))
					}
					handler(ev)
				}), nil
			},
		})

		ctx := cmd.Context()
		if err := controller.Initialize(ctx); err != nil {
			return fmt.Errorf("could not reach the server at %s: %w", cfg.ServerURL, err)
		}
		defer func() { _ = controller.Close() }()

		fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf("Connected to %s (session %s)", cfg.ServerURL, shortID(controller.ActiveSession()))))
		fmt.Fprintln(out, noticeStyle.Render("Type a question, or /quit to leave."))
		fmt.Fprintln(out)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Fprint(out, promptStyle.Render("you> "))
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			if strings.HasPrefix(line, "/") {
				done, err := runChatCommand(ctx, controller, out, line)
				if err != nil {
					fmt.Fprintln(out, noticeStyle.Render(err.Error()))
				}
				if done {
					return nil
				}
				continue
			}

			if err := sendTurn(ctx, controller, out, line); err != nil {
				fmt.Fprintln(out, noticeStyle.Render(err.Error()))
			}
		}
	},
}

func sendTurn(ctx context.Context, controller *internal.Controller, out io.Writer, line string) error {
	err := controller.Send(ctx, line)
	switch {
	case errors.Is(err, internal.ErrTurnInFlight):
		return errors.New("still waiting for the previous answer")
	case err != nil:
		return err
	}
	fmt.Fprintln(out)

	// The streamed tokens were printed live; the reconciled transcript may
	// differ (final answer wins), so print it when it does.
	msgs := controller.Messages()
	if len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		if last.Role == internal.RoleAssistant && last.Content == internal.ErrorAnswer {
			fmt.Fprintln(out, assistantStyle.Render(last.Content))
		}
	}
	for _, src := range controller.Sources() {
		label := src.Title
		if label == "" {
			label = src.URL
		}
		fmt.Fprintln(out, sourceStyle.Render("  ↳ "+label+" — "+src.URL))
	}
	fmt.Fprintln(out)
	return nil
}

func runChatCommand(ctx context.Context, controller *internal.Controller, out io.Writer, line string) (done bool, err error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil
	case "/new":
		if err := controller.StartNewSession(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(out, noticeStyle.Render("Started session "+shortID(controller.ActiveSession())))
		return false, nil
	case "/sessions":
		if err := controller.RefreshSessionList(ctx); err != nil {
			return false, err
		}
		for _, s := range controller.Store().List() {
			marker := "  "
			if s.SessionID == controller.ActiveSession() {
				marker = "* "
			}
			title := s.Title
			if title == "" {
				title = "(empty)"
			}
			fmt.Fprintln(out, noticeStyle.Render(marker+shortID(s.SessionID)+"  "+title))
		}
		return false, nil
	case "/switch":
		if len(fields) < 2 {
			return false, errors.New("usage: /switch <session-id>")
		}
		target := resolveSessionID(controller.Store(), fields[1])
		if err := controller.SwitchSession(ctx, target); err != nil {
			if internal.IsStaleSession(err) {
				return false, errors.New("that session no longer exists")
			}
			return false, err
		}
		fmt.Fprintln(out, noticeStyle.Render("Switched to session "+shortID(controller.ActiveSession())))
		printTranscript(out, controller.Messages())
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %s (try /new, /sessions, /switch, /quit)", fields[0])
	}
}

func printTranscript(out io.Writer, msgs []internal.Message) {
	for _, msg := range msgs {
		switch msg.Role {
		case internal.RoleUser:
			fmt.Fprintln(out, promptStyle.Render("you> ")+msg.Content)
		default:
			fmt.Fprintln(out, assistantStyle.Render(msg.Content))
		}
	}
	fmt.Fprintln(out)
}

// resolveSessionID expands a short id prefix to a known full id; unknown
// input passes through untouched so the server can reject it.
func resolveSessionID(store *internal.Store, id string) string {
	for _, s := range store.List() {
		if s.SessionID == id || strings.HasPrefix(s.SessionID, id) {
			return s.SessionID
		}
	}
	return id
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
