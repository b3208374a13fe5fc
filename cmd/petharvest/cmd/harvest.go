package cmd

import (
	"context"
	"fmt"

	"petharvest-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(harvestCmd)
}

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Fetches and snapshots listings without importing them into the store.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		config, err := loadConfig()
		if err != nil {
			fatal(err)
		}

		tel, err := telemetry.SetupFromEnv(ctx, "petharvest")
		if err != nil {
			fatal(err)
		}
		defer tel.Shutdown(context.Background())

		service, snapshots, err := newHarvestService(config)
		if err != nil {
			fatal(err)
		}

		result, err := service.Run(ctx)
		if err != nil {
			fatal(err)
		}

		fmt.Printf(
			"harvested %d animals and %d organizations into %s\n",
			result.AnimalCount,
			result.OrganizationCount,
			snapshots.Dir,
		)
	},
}
