package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/config"
	"github.com/noah-isme/mosquee-go/internal/database"
	"github.com/noah-isme/mosquee-go/internal/repository"
	"github.com/noah-isme/mosquee-go/internal/service"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and seed system taxonomies and default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			return migrateAndSeed(commandContext(cmd), db, cfg, logger)
		},
	}
}

func migrateAndSeed(ctx context.Context, db *gorm.DB, cfg config.Config, logger zerolog.Logger) error {
	if err := database.Migrate(db); err != nil {
		return err
	}

	audit := service.NewAuditService(repository.NewAuditLogRepository(db), nil, "", logger)
	taxonomies := service.NewTaxonomyService(repository.NewTaxonomyRepository(db), audit, logger)
	if err := taxonomies.SeedSystem(ctx); err != nil {
		return fmt.Errorf("failed to seed taxonomies: %w", err)
	}

	users := repository.NewUserRepository(db)
	admins := service.NewAdminUserService(
		users,
		repository.NewUserTagRepository(db),
		repository.NewSettingRepository(db),
		service.NewAuthService(users, audit, logger),
		validator.New(validator.WithRequiredStructEnabled()),
		audit,
		logger,
	)
	if err := admins.SeedSettings(ctx); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	logger.Info().Str("driver", cfg.DatabaseDriver).Msg("database migrated")
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
