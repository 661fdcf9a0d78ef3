package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/noah-isme/mosquee-go/internal/config"
	"github.com/noah-isme/mosquee-go/internal/repository"
	"github.com/noah-isme/mosquee-go/internal/service"
)

func newCreateAdminCommand() *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active super administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("MOSQUEE_ADMIN_PASSWORD")
			}
			if password == "" {
				return fmt.Errorf("a password must be given with --password or MOSQUEE_ADMIN_PASSWORD")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger, closer := newLogger(cfg)
			defer closer.Close()

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db, logger)

			users := repository.NewUserRepository(db)
			audit := service.NewAuditService(repository.NewAuditLogRepository(db), nil, "", logger)
			admins := service.NewAdminUserService(
				users,
				repository.NewUserTagRepository(db),
				repository.NewSettingRepository(db),
				service.NewAuthService(users, audit, logger),
				validator.New(validator.WithRequiredStructEnabled()),
				audit,
				logger,
			)

			user, err := admins.Bootstrap(commandContext(cmd), username, password)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "super admin %q created with id %d\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login of the new account")
	cmd.Flags().StringVar(&password, "password", "", "Password (defaults to MOSQUEE_ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
