package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
	"github.com/Shreyaannnnn/rag-news-bot-client/internal/devserver"
	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	serveDBPath string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local stand-in backend",
	Long: `Run a local stand-in for the chat backend.

It speaks the full REST and push-channel contract, answers
deterministically and persists sessions in a SQLite database, so the
client can be exercised end to end without the real service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := serveDBPath
		if dbPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			dbPath = home + "/.newschat-dev.db"
		}

		srv, err := devserver.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to start dev server: %w", err)
		}
		srv.TokenDelay = 30 * time.Millisecond

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start(serveAddr) }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-stop:
			internal.Logger.Info().Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "Address to listen on")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "SQLite database path (default ~/.newschat-dev.db)")
}
