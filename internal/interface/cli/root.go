package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pilotchat/pilotchat/internal/core/config"
	"github.com/pilotchat/pilotchat/internal/core/llm"
	"github.com/pilotchat/pilotchat/internal/core/storage"
)

var (
	dataDir     string
	endpoint    string
	debug       bool
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pilotchat",
	Short: "Terminal chat client for a local completion endpoint",
	Long: `pilotchat - streaming chat sessions in your terminal

Talks to a local OpenAI-compatible completion endpoint, streams replies
as they arrive, and keeps every conversation in a local store so nothing
is lost between runs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to the chat TUI if no subcommand specified
		return chatCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Session store directory (default: ~/.local/share/pilotchat)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Completion endpoint base URL (default: "+llm.DefaultBaseURL+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
}

func setupLogging() {
	if debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		return
	}
	// Quiet by default: stray log lines would corrupt the TUI frame.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// loadConfig merges the config file with command-line overrides.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{ExportTemplate: config.DefaultExportTemplate}
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if cfg.Debug && !debug {
		debug = true
		setupLogging()
	}
	return cfg
}

// openStores builds the persistence facade and endpoint client from the
// effective config.
func openStores(cfg *config.Config) (*storage.Store, *llm.Client) {
	return storage.Open(cfg.DataDir), llm.NewClient(cfg.Endpoint)
}
