package auth

import (
	"fmt"

	"cleanspot/cmd/client/cmd/types"
	"cleanspot/internal/app/client"

	"github.com/spf13/cobra"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Long:  `Removes the stored session token. Local reports stay on the device.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		if err := app.Logout(); err != nil {
			return fmt.Errorf("failed to sign out: %w", err)
		}

		fmt.Println("Signed out.")
		return nil
	},
}
