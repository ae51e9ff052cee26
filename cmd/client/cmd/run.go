package cmd

import (
	"fmt"

	"cleanspot/cmd/client/cmd/types"
	"cleanspot/internal/app/client"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the background sync agent",
	Long: `Keeps the client running: watches connectivity, drains the queue
whenever the device comes back online and pulls the server state on a
fixed interval. Stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		fmt.Println("Sync agent running, press Ctrl+C to stop")
		return app.Run(cmd.Context())
	},
}
