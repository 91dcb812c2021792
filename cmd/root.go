package cmd

import (
	"context"
	"fmt"
	"os"

	"cinema-ticketing/internal/data/memory"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/wire"
	"cinema-ticketing/pkg/database"
	"cinema-ticketing/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:          "ticketing",
	Short:        "Cinema ticketing service",
	Long:         `Schedules shows, keeps per-show seat inventory and manages bookings.`,
	SilenceUsage: true,
}

func Execute() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the .env config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, sweepCmd, reportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runtime is what every command needs once config and storage are up.
type runtime struct {
	config *utils.Config
	log    *zap.Logger
	repo   *repository.Repository
	store  wire.Pinger
	db     database.PgxIface
}

func (rt *runtime) Close() {
	if rt.db != nil {
		rt.db.Close()
	}
	_ = rt.log.Sync()
}

func bootstrap(ctx context.Context) (*runtime, error) {
	config, err := utils.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v. Using production logger.\n", err)
		logger, _ = zap.NewProduction()
	}

	rt := &runtime{config: config, log: logger}

	switch config.App.Store {
	case utils.StoreMemory:
		store := memory.NewStore(logger)
		rt.repo = memory.NewRepository(store)
		rt.store = store

		// an empty in-memory store is useless to talk to
		seed, err := repository.Seed(ctx, rt.repo)
		if err != nil {
			return nil, err
		}
		logger.Warn("Using in-memory store, writes are serialized and lost on exit",
			zap.Int64("cinema_id", seed.CinemaID),
			zap.Int64("theater_id", seed.TheaterID),
			zap.Int64("movie_id", seed.MovieID),
			zap.Int64("user_id", seed.UserID),
		)

	case utils.StorePostgres:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Error("Failed to connect to database", zap.Error(err))
			return nil, err
		}
		logger.Info("Database connected successfully")
		rt.db = db
		rt.store = db
		rt.repo = repository.NewRepository(db, logger)

	default:
		return nil, fmt.Errorf("unknown store %q, expected %s or %s", config.App.Store, utils.StorePostgres, utils.StoreMemory)
	}

	return rt, nil
}
