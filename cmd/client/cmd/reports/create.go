package reports

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"cleanspot/cmd/client/cmd/types"
	"cleanspot/internal/app/client"
	"cleanspot/internal/domain/report"

	"github.com/spf13/cobra"
)

var (
	createDescription string
	createPhotos      []string
	createLat         float64
	createLng         float64
	createNoise       float64
	createLight       float64
	createAccel       []float64
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Capture a waste report",
	Long: `Saves a report on the device and uploads it when the server is
reachable. Offline the report is queued and delivered on the next sync.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		description := createDescription
		if description == "" {
			fmt.Print("Description: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read description: %w", err)
			}
			description = strings.TrimSpace(line)
		}

		draft := report.Draft{
			Description: description,
			Photos:      createPhotos,
			Location: report.Coordinates{
				Latitude:  createLat,
				Longitude: createLng,
			},
		}

		if cmd.Flags().Changed("noise") {
			draft.NoiseLevel = &createNoise
		}
		if cmd.Flags().Changed("light") {
			draft.LightLevel = &createLight
		}
		if cmd.Flags().Changed("accel") {
			if len(createAccel) != 3 {
				return fmt.Errorf("--accel expects exactly three values: x,y,z")
			}
			draft.Accelerometer = &report.AccelerometerReading{
				X: createAccel[0],
				Y: createAccel[1],
				Z: createAccel[2],
			}
		}

		rep, err := app.CreateReport(cmd.Context(), draft)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}

		fmt.Println()
		if rep.ID.IsLocal() {
			fmt.Printf("Report saved locally as %s, queued for upload\n", rep.ID.String())
		} else {
			fmt.Printf("Report uploaded, server ID %s\n", rep.ID.String())
		}
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVarP(&createDescription, "description", "d", "", "what was found")
	CreateCmd.Flags().StringArrayVar(&createPhotos, "photo", nil, "photo URI, repeatable")
	CreateCmd.Flags().Float64Var(&createLat, "lat", 0, "latitude of the spot")
	CreateCmd.Flags().Float64Var(&createLng, "lng", 0, "longitude of the spot")
	CreateCmd.Flags().Float64Var(&createNoise, "noise", 0, "ambient noise level, dB")
	CreateCmd.Flags().Float64Var(&createLight, "light", 0, "ambient light level, lux")
	CreateCmd.Flags().Float64SliceVar(&createAccel, "accel", nil, "accelerometer reading x,y,z")
	_ = CreateCmd.MarkFlagRequired("lat")
	_ = CreateCmd.MarkFlagRequired("lng")
}
