package cmd

import (
	"fmt"
	"os"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the backend",
	Long: `Check the health of the backend connection by verifying:
  • REST API reachability
  • Session listing
  • Push channel (websocket) connectivity

This command is useful for debugging connectivity issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := newBackend()
		ctx := cmd.Context()

		fmt.Println(sectionStyle.Render("🔍 News Chat Health Check"))
		fmt.Println()

		// Step 1: REST reachability via the session list
		fmt.Println(infoStyle.Render("Step 1: Checking REST API at " + backend.BaseURL() + "..."))
		sessions, err := backend.ListSessions(ctx)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ REST API unreachable:"), err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✅ REST API reachable (%d session(s) listed)", len(sessions))))
		fmt.Println()

		// Step 2: Push channel
		channelID := uuid.NewString()
		wsURL := backend.WebSocketURL(channelID)
		fmt.Println(infoStyle.Render("Step 2: Checking push channel at " + wsURL + "..."))
		conn, err := internal.Dial(wsURL)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Push channel unavailable:"), err)
			os.Exit(1)
		}
		_ = conn.Close()
		fmt.Println(successStyle.Render("✅ Push channel reachable"))
		fmt.Println()

		fmt.Println(successStyle.Render("All checks passed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
