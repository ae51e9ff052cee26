package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"cleanspot/cmd/client/cmd/types"
	"cleanspot/internal/app/client"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the Cleanspot server",
	Long: `Authenticates against the server and stores the session token
locally. Reports queued while signed out are uploaded right away.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		fmt.Println("=== Sign in ===")
		fmt.Println()

		fmt.Print("Login: ")
		var login string
		_, _ = fmt.Scanln(&login)

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()

		fmt.Println("Authenticating...")
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Login(ctx, login, string(password)); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}

		fmt.Println()
		fmt.Println("Signed in.")

		status := app.SyncStatus()
		if status.Queue.Pending > 0 {
			fmt.Printf("%d report(s) still queued for upload\n", status.Queue.Pending)
		}
		return nil
	},
}
