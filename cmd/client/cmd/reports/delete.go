package reports

import (
	"fmt"

	"cleanspot/cmd/client/cmd/types"
	"cleanspot/internal/app/client"

	"github.com/spf13/cobra"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a report",
	Long: `Removes the report from the device immediately. If the server
already has it, the remote copy is deleted too, right away when online
and via the queue otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		if err := app.DeleteReport(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete report: %w", err)
		}

		fmt.Println("Report deleted.")
		return nil
	},
}
