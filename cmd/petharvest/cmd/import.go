package cmd

import (
	"context"
	"fmt"
	"time"

	"petharvest-backend/lib/telemetry"
	"petharvest-backend/services/harvest"

	"github.com/spf13/cobra"
)

var importDate string

func init() {
	importCmd.Flags().StringVar(
		&importDate, "date", "",
		"date of the snapshots to import (YYYY-MM-DD), defaults to today",
	)
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Upserts previously written snapshots into the local store.",
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

		date := today()
		if importDate != "" {
			date, err = time.Parse("2006-01-02", importDate)
			if err != nil {
				fatal(fmt.Errorf("invalid --date: %w", err))
			}
		}

		snapshots := harvest.DirSnapshotStore{Dir: config.OutputDir}
		err = runImport(
			ctx, config,
			snapshots.Path(harvest.AnimalSnapshotLabel, date),
			snapshots.Path(harvest.OrganizationSnapshotLabel, date),
		)
		if err != nil {
			fatal(err)
		}

		fmt.Printf("imported snapshots for %s into %s\n", date.Format("2006-01-02"), config.Database.File)
	},
}
