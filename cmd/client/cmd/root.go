package cmd

import (
	"context"
	"fmt"
	"os"

	"cleanspot/cmd/client/cmd/types"
	"cleanspot/internal/app/client"
	"cleanspot/internal/app/client/config"
	"cleanspot/internal/utils/logger"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "cleanspot",
	Short: "Cleanspot - report abandoned waste in your city",
	Long: `Cleanspot is the command-line client of the urban waste reporting
service. Reports are always saved on the device first; uploads, retries
and server pulls happen in the background whenever the network allows.

Everything works offline. Queued reports are delivered automatically the
next time the server is reachable.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	log = logger.New(cfg.Env)

	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Cleanspot server address")
}
