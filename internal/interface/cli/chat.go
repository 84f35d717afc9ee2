package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pilotchat/pilotchat/internal/core/chat"
	"github.com/pilotchat/pilotchat/internal/interface/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat TUI",
	Long:  "Launch the terminal chat interface. This is also the default when pilotchat runs without a subcommand.",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, client := openStores(cfg)
	defer func() { _ = store.Close() }()

	session := chat.New(store, client)
	session.Initialize(context.Background())
	// A configured system message overrides whatever was persisted.
	if cfg.SystemMessage != "" {
		session.SetSystemMessage(cfg.SystemMessage)
	}

	p := tea.NewProgram(
		tui.New(session, cfg),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
	return nil
}
