package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"petharvest-backend/lib/configutil"
	configsqlite "petharvest-backend/lib/configutil/sqlite"
	"petharvest-backend/lib/telemetry"
	"petharvest-backend/services/harvest"
	"petharvest-backend/services/importer"
	"petharvest-backend/services/petfinder"

	"github.com/spf13/cobra"
)

type Config struct {
	Petfinder  petfinder.Config    `json:"petfinder"`
	Harvest    harvest.Config      `json:"harvest"`
	OutputDir  string              `json:"output_dir"`
	TokenCache string              `json:"token_cache"`
	Database   configsqlite.Struct `json:"database"`
}

func loadConfig() (Config, error) {
	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	if config.OutputDir == "" {
		config.OutputDir = "data_snapshots"
	}
	if config.TokenCache == "" {
		config.TokenCache = "token_cache.json"
	}
	if config.Database.File == "" {
		config.Database.File = "petharvest.db"
	}
	configutil.EnvOverride(&config.Petfinder.ClientId, "PETFINDER_API_KEY")
	configutil.EnvOverride(&config.Petfinder.ClientSecret, "PETFINDER_API_SECRET")

	return config, nil
}

func newHarvestService(config Config) (harvest.Service, harvest.DirSnapshotStore, error) {
	snapshots, err := harvest.NewDirSnapshotStore(config.OutputDir)
	if err != nil {
		return harvest.Service{}, harvest.DirSnapshotStore{}, err
	}

	client := petfinder.NewClient(
		config.Petfinder,
		petfinder.FileCredentialStore{Path: config.TokenCache},
	)
	service, err := harvest.NewService(client, snapshots, config.Harvest)
	if err != nil {
		return harvest.Service{}, harvest.DirSnapshotStore{}, err
	}
	return service, snapshots, nil
}

func runImport(ctx context.Context, config Config, animalsPath, orgsPath string) error {
	db, err := config.Database.OpenDB()
	if err != nil {
		return err
	}
	defer db.Close()

	imp, err := importer.New(db)
	if err != nil {
		return err
	}
	return imp.Run(ctx, animalsPath, orgsPath)
}

var rootCmd = &cobra.Command{
	Use:   "petharvest",
	Short: "petharvest pulls pet adoption listings into dated snapshots and a local store.",
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

		err = runImport(ctx, config, result.AnimalSnapshot, result.OrganizationSnapshot)
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

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

func today() time.Time {
	return time.Now()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
