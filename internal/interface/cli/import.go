package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pilotchat/pilotchat/internal/core/importer"
	"github.com/pilotchat/pilotchat/internal/core/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import sessions from a JSON export",
	Long: `Merge sessions from a JSON file into the local store.

The file holds a JSON array of sessions, the same format the fallback
store writes, so a fallback.json from another machine imports directly.
Sessions already present under the same id are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store := storage.Open(cfg.DataDir)
	defer func() { _ = store.Close() }()

	stats, err := importer.File(store, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d session(s), skipped %d already present.\n", stats.Imported, stats.Skipped)
	return nil
}
