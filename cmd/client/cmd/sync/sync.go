package sync

import (
	"fmt"
	"time"

	"cleanspot/cmd/client/cmd/types"
	"cleanspot/internal/app/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showStatus bool

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize with the server",
	Long: `Drains the offline queue and then pulls the server's report
collection. Queued reports go out first so nothing captured offline is
lost to the pull.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		if showStatus {
			return printStatus(app)
		}
		return runSync(app, cmd)
	},
}

func runSync(app *client.App, cmd *cobra.Command) error {
	if !app.IsAuthenticated() {
		return fmt.Errorf("authentication required, run: cleanspot auth login")
	}

	fmt.Println("Synchronizing...")
	start := time.Now()

	result := app.SyncNow(cmd.Context())

	fmt.Printf("Done in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("Uploaded: %d mutation(s)\n", result.Drained.Succeeded)
	if result.Drained.Failed > 0 {
		color.Yellow("Failed:   %d mutation(s), will retry on the next sync", result.Drained.Failed)
	}
	fmt.Printf("Local collection: %d report(s)\n", result.Pulled)
	return nil
}

func printStatus(app *client.App) error {
	status := app.SyncStatus()

	fmt.Println("=== Sync status ===")

	fmt.Print("Network:   ")
	if status.Online {
		color.Green("online")
	} else {
		color.Red("offline")
	}

	fmt.Print("Account:   ")
	if app.IsAuthenticated() {
		color.Green("signed in")
	} else {
		color.Yellow("signed out")
	}

	if status.LastSync.IsZero() {
		fmt.Println("Last sync: never")
	} else {
		fmt.Printf("Last sync: %s\n", status.LastSync.Local().Format("2006-01-02 15:04:05"))
	}

	fmt.Printf("Queue:     %d pending, %d failed\n", status.Queue.Pending, status.Queue.Failed)
	if !status.Queue.LastEnqueued.IsZero() {
		fmt.Printf("Last enqueued: %s\n", status.Queue.LastEnqueued.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&showStatus, "status", false, "show sync status instead of syncing")
}
