package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pilotchat/pilotchat/internal/core/export"
	"github.com/pilotchat/pilotchat/internal/core/models"
	"github.com/pilotchat/pilotchat/internal/core/storage"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export a session to markdown",
	Long: `Export a stored chat session to a markdown file.

With no session id, the most recently updated session is exported. The
template at ~/.config/pilotchat/export_template.mustache overrides the
built-in format.

Examples:
  pilotchat export
  pilotchat export 0ccfddc4-00e7-443a-bb82-58ede5936619 -o chat.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: <title>.md in current directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store := storage.Open(cfg.DataDir)
	defer func() { _ = store.Close() }()

	sessions := store.LoadSessions()
	if len(sessions) == 0 {
		return fmt.Errorf("no stored sessions")
	}

	session := pickSession(sessions, args)
	if session == nil {
		return fmt.Errorf("session %s not found", args[0])
	}

	var model string
	store.LoadSetting(storage.KeyLastModel, &model)

	if exportOutput == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path, err := export.WriteFile(cfg.ExportTemplate, session, model, cwd)
		if err != nil {
			return err
		}
		fmt.Printf("Exported session to: %s\n", path)
		return nil
	}

	out, err := export.Markdown(cfg.ExportTemplate, session, model)
	if err != nil {
		return err
	}
	path := exportOutput
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Printf("Exported session to: %s\n", path)
	return nil
}

// pickSession resolves the export target: an explicit id, or the most
// recently updated session when none was given.
func pickSession(sessions []*models.Session, args []string) *models.Session {
	if len(args) == 1 {
		for _, s := range sessions {
			if s.ID == args[0] {
				return s
			}
		}
		return nil
	}

	latest := sessions[0]
	for _, s := range sessions[1:] {
		if s.LastUpdated.After(latest.LastUpdated) {
			latest = s
		}
	}
	return latest
}
