package auth

import (
	"fmt"
	"os"

	"cleanspot/cmd/client/cmd/types"
	"cleanspot/internal/app/client"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Registers a new account on the Cleanspot server.

An account is only needed for uploading; reports can be captured offline
before registering.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		fmt.Println("=== Create account ===")
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

		fmt.Print("Repeat password: ")
		passwordConfirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()

		if string(password) != string(passwordConfirm) {
			return fmt.Errorf("passwords do not match")
		}

		fmt.Println("Registering...")
		if err := app.Register(cmd.Context(), login, string(password)); err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		fmt.Println()
		fmt.Println("Account created. Sign in with: cleanspot auth login")
		return nil
	},
}
