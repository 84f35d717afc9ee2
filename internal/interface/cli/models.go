package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pilotchat/pilotchat/internal/core/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models the endpoint offers",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	client := llm.NewClient(cfg.Endpoint)

	names := client.ListModels(cmd.Context())
	if len(names) == 0 {
		return fmt.Errorf("no models available at %s", client.BaseURL())
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
