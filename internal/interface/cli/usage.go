package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pilotchat/pilotchat/internal/core/llm"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the endpoint's premium request quota",
	RunE:  runUsage,
}

func init() {
	rootCmd.AddCommand(usageCmd)
}

func runUsage(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	client := llm.NewClient(cfg.Endpoint)

	usage := client.GetUsage(cmd.Context())
	if usage == nil {
		return fmt.Errorf("usage unavailable at %s", client.BaseURL())
	}

	if usage.PremiumRequestsLeft != nil {
		fmt.Printf("Premium requests left: %d\n", *usage.PremiumRequestsLeft)
	}
	if usage.TotalPremiumRequests != nil {
		fmt.Printf("Total entitlement:     %d\n", *usage.TotalPremiumRequests)
	}
	if used, ok := usage.Used(); ok {
		fmt.Printf("Used:                  %d\n", used)
	}
	return nil
}
