package reports

import (
	"github.com/spf13/cobra"
)

// ReportCmd is the parent command for waste report operations.
var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage waste reports",
	Long:  `Capture, list and delete waste reports. Everything works offline.`,
}
