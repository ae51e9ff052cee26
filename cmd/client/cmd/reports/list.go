package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"cleanspot/cmd/client/cmd/types"
	"cleanspot/internal/app/client"
	"cleanspot/internal/domain/report"

	"github.com/spf13/cobra"
)

var listJSON bool

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports on this device",
	Long: `Shows the local report collection, queued and uploaded alike.
Reports still waiting for upload carry a temp_ ID.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		reports := app.ListReports()

		if listJSON {
			return json.NewEncoder(os.Stdout).Encode(reports)
		}
		return printReportsTable(reports)
	},
}

func printReportsTable(reports []report.Report) error {
	if len(reports) == 0 {
		fmt.Println("No reports yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tStatus\tCaptured\tLocation\tDescription\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t---\t\n")

	for _, rep := range reports {
		status := "uploaded"
		if rep.ID.IsLocal() {
			status = "queued"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4f,%.4f\t%s\t\n",
			rep.ID.String(),
			status,
			rep.Timestamp,
			rep.Location.Latitude,
			rep.Location.Longitude,
			rep.Description,
		)
	}
	return w.Flush()
}

func init() {
	ListCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}
