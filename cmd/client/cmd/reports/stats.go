package reports

import (
	"fmt"

	"cleanspot/cmd/client/cmd/types"
	"cleanspot/internal/app/client"

	"github.com/spf13/cobra"
)

var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show report statistics",
	Long: `Fetches aggregate statistics over your uploaded reports. The
result is cached briefly, so repeated calls are cheap.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		stats, err := app.ReportStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch statistics: %w", err)
		}

		fmt.Println("=== Report statistics ===")
		fmt.Printf("Reports: %d\n", stats.TotalReports)
		fmt.Printf("Photos:  %d\n", stats.TotalPhotos)
		if stats.FirstReport != "" {
			fmt.Printf("First:   %s\n", stats.FirstReport)
		}
		if stats.LastReport != "" {
			fmt.Printf("Last:    %s\n", stats.LastReport)
		}
		return nil
	},
}
