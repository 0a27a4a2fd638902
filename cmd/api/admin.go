package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/medibook-api/internal/app"
	"github.com/jwalitptl/medibook-api/internal/config"
)

// createAdminCmd seeds an administrator, since public admin registration is off by default.
func createAdminCmd(configPath *string) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Database.Driver == config.DriverMemory {
				return errors.New("create-admin needs a persistent database driver")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			store, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			user, err := app.NewAuthService(cfg, store, nil, log).CreateAdmin(ctx, name, email, password)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			log.Info().Str("user_id", user.ID.String()).Str("email", user.Email).Msg("admin created")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "admin display name")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (min 6 characters)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
