package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/medibook-api/internal/config"
	"github.com/jwalitptl/medibook-api/internal/repository/mongodb"
	"github.com/jwalitptl/medibook-api/internal/repository/postgres"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema (postgres) or indexes (mongo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			switch cfg.Database.Driver {
			case config.DriverPostgres:
				db, err := postgres.NewDB(postgresConfig(cfg))
				if err != nil {
					return err
				}
				defer db.Close()
				if err := postgres.Migrate(ctx, db); err != nil {
					return err
				}

			case config.DriverMongo:
				client, err := mongodb.Connect(ctx, mongoConfig(cfg))
				if err != nil {
					return err
				}
				defer client.Disconnect(ctx)
				if err := mongodb.EnsureIndexes(ctx, client.Database(cfg.Database.Mongo.Database)); err != nil {
					return err
				}

			default:
				log.Info().Str("driver", cfg.Database.Driver).Msg("nothing to migrate")
				return nil
			}

			log.Info().Str("driver", cfg.Database.Driver).Msg("migration complete")
			return nil
		},
	}
}
