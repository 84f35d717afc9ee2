package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pilotchat/pilotchat/internal/core/search"
	"github.com/pilotchat/pilotchat/internal/core/storage"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored chat transcripts",
	Long: `Search every stored session for messages containing the query.

Examples:
  pilotchat search "rate limit"
  pilotchat search deploy`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store := storage.Open(cfg.DataDir)
	defer func() { _ = store.Close() }()

	results, err := search.Search(store.LoadSessions(), args[0])
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for _, r := range results {
		title := r.SessionTitle
		if title == "" {
			title = r.SessionID
		}
		fmt.Printf("%s · %s #%d\n  %s\n", title, r.Role, r.MessageIndex, r.Snippet)
	}
	return nil
}
