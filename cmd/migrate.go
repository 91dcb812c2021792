package cmd

import (
	"fmt"

	"cinema-ticketing/internal/data/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.db == nil {
			rt.log.Info("Nothing to migrate for the in-memory store")
			return nil
		}

		if err := repository.Migrate(ctx, rt.db); err != nil {
			rt.log.Error("Migration failed", zap.Error(err))
			return err
		}
		rt.log.Info("Schema is up to date")

		if !migrateSeed {
			return nil
		}
		seed, err := repository.Seed(ctx, rt.repo)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded cinema %d, theater %d (%d seats), movie %d, user %d\n",
			seed.CinemaID, seed.TheaterID, seed.Seats, seed.MovieID, seed.UserID)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "insert a demo cinema, movie and user")
}
