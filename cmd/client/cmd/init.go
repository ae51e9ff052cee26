package cmd

import (
	"cleanspot/cmd/client/cmd/auth"
	"cleanspot/cmd/client/cmd/reports"
	"cleanspot/cmd/client/cmd/sync"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	rootCmd.AddCommand(reports.ReportCmd)
	reports.ReportCmd.AddCommand(reports.CreateCmd)
	reports.ReportCmd.AddCommand(reports.ListCmd)
	reports.ReportCmd.AddCommand(reports.DeleteCmd)
	reports.ReportCmd.AddCommand(reports.StatsCmd)

	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(runCmd)
}
