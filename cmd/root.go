package cmd

import (
	"fmt"
	"os"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	serverURL string
	cfgFile   string
	version   string = "dev"
	commit    string = "unknown"
	date      string = "unknown"

	cfg *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "newschat",
	Short: "Chat with the news assistant from your terminal",
	Long: `A terminal client for the news assistant backend.

The client keeps a live transcript per session: answers stream in token by
token over a push channel while the final answer arrives over REST, and both
are reconciled into one conversation view.

Quick Start:
  newschat chat                     # Start an interactive conversation
  newschat sessions                 # List known sessions
  newschat history <session-id>     # Print a session transcript
  newschat export --format md       # Export sessions as Markdown

For detailed usage, see: https://github.com/Shreyaannnnn/rag-news-bot-client`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)

		path := cfgFile
		if path == "" {
			var err error
			path, err = internal.DefaultConfigPath()
			if err != nil {
				path = ""
			}
		}
		loaded, err := internal.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded

		if !verbose && cfg.LogLevel != "" {
			internal.SetLogLevel(cfg.LogLevel)
		}
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newBackend builds the REST client for the configured server
func newBackend() *internal.HTTPBackend {
	return internal.NewHTTPBackend(cfg.ServerURL)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend server URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.newschat.yaml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
