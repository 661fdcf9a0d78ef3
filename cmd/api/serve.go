package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/config"
	"github.com/noah-isme/mosquee-go/internal/database"
	"github.com/noah-isme/mosquee-go/internal/handler"
	"github.com/noah-isme/mosquee-go/internal/i18n"
	"github.com/noah-isme/mosquee-go/internal/middleware"
	"github.com/noah-isme/mosquee-go/internal/repository"
	"github.com/noah-isme/mosquee-go/internal/router"
	"github.com/noah-isme/mosquee-go/internal/service"
	cloud "github.com/noah-isme/mosquee-go/pkg/cloudinary"
	"github.com/noah-isme/mosquee-go/pkg/filestore"
)

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger, closer := newLogger(cfg)
			defer closer.Close()

			return serve(cfg, logger, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply migrations and seed reference data before serving")
	return cmd
}

func serve(cfg config.Config, logger zerolog.Logger, migrate bool) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, logger)

	if migrate {
		if err := migrateAndSeed(context.Background(), db, cfg, logger); err != nil {
			return err
		}
	}

	redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var publisher service.AuditPublisher
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		defer conn.Drain()
		publisher = conn
	}

	storage, err := newFileStorage(cfg, logger)
	if err != nil {
		return err
	}

	catalog, err := i18n.Load(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	app := buildApp(cfg, logger, appDependencies{
		db:        db,
		redis:     redisClient,
		publisher: publisher,
		storage:   storage,
		catalog:   catalog,
	})
	if cfg.StorageDriver == "local" {
		app.Static("/images", filepath.Join(cfg.UploadRoot, "images"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Msg("http server listening")
		listenErr <- app.Listen(cfg.HTTPAddress())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

type appDependencies struct {
	db        *gorm.DB
	redis     *redis.Client
	publisher service.AuditPublisher
	storage   service.FileStorage
	catalog   *i18n.Catalog
}

func buildApp(cfg config.Config, logger zerolog.Logger, deps appDependencies) *fiber.App {
	validate := validator.New(validator.WithRequiredStructEnabled())
	exposeErrors := !cfg.IsProduction()

	userRepo := repository.NewUserRepository(deps.db)
	userTagRepo := repository.NewUserTagRepository(deps.db)
	settingRepo := repository.NewSettingRepository(deps.db)
	auditRepo := repository.NewAuditLogRepository(deps.db)
	taxonomyRepo := repository.NewTaxonomyRepository(deps.db)
	eventRepo := repository.NewEventRepository(deps.db)
	newsRepo := repository.NewNewsRepository(deps.db)
	quoteRepo := repository.NewQuoteRepository(deps.db)
	memberRepo := repository.NewMemberRepository(deps.db)
	donationRepo := repository.NewDonationRepository(deps.db)

	auditService := service.NewAuditService(auditRepo, deps.publisher, cfg.AuditSubject, logger)
	authService := service.NewAuthService(userRepo, auditService, logger)
	permissionService := service.NewPermissionService(userRepo)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo, auditService, logger)
	imageService := service.NewImageService(deps.storage, cfg.UploadMaxMB, cfg.UploadMaxFiles, logger)
	eventService := service.NewEventService(eventRepo, taxonomyService, imageService, validate, auditService, logger)
	newsService := service.NewNewsService(newsRepo, taxonomyService, imageService, validate, auditService, logger)
	quoteService := service.NewQuoteService(quoteRepo, taxonomyService, validate, auditService, logger)
	memberService := service.NewMemberService(memberRepo, taxonomyService, imageService, validate, auditService, logger)
	donationService := service.NewDonationService(donationRepo, imageService, validate, auditService, logger)
	adminUserService := service.NewAdminUserService(userRepo, userTagRepo, settingRepo, authService, validate, auditService, logger)
	dashboardService := service.NewDashboardService(eventRepo, newsRepo, memberRepo, donationRepo, quoteRepo, userRepo, logger)
	publicService := service.NewPublicContentService(eventRepo, newsRepo, quoteRepo, memberRepo, donationRepo, deps.redis, cfg.PublicCacheTTL, logger)

	sessionConfig := middleware.SessionConfig{
		CookieName: cfg.SessionCookie,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.IsProduction(),
	}
	if storage := database.NewSessionStorage(deps.redis); storage != nil {
		sessionConfig.Storage = storage
	}
	sessionStore := middleware.NewSessionStore(sessionConfig)

	fiberConfig := fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.UploadMaxMB*cfg.UploadMaxFiles + 1) * 1024 * 1024,
		ErrorHandler: router.ErrorHandler(logger, exposeErrors),
	}
	middleware.TrustProxies(&fiberConfig, cfg.TrustedProxies)
	app := fiber.New(fiberConfig)

	middleware.Register(app, middleware.Config{
		Logger:    &logger,
		AccessLog: !cfg.IsProduction(),
	})

	var sqlDB handler.Pinger
	if raw, err := deps.db.DB(); err == nil {
		sqlDB = raw
	}

	router.Register(app, cfg, router.Dependencies{
		Logger:       logger,
		SessionStore: sessionStore,
		Catalog:      deps.catalog,
		Principals:   permissionService,
		PublicCache:  publicService,
		Database:     sqlDB,

		PublicHandler:    handler.NewPublicHandler(publicService, logger, exposeErrors),
		LocaleHandler:    handler.NewLocaleHandler(deps.catalog, cfg.IsProduction()),
		AuthHandler:      handler.NewAuthHandler(authService, auditService, sessionStore, middleware.LoginRateLimit(cfg.LoginRateLimit, cfg.LoginRateWindow), logger),
		DashboardHandler: handler.NewDashboardHandler(dashboardService, logger, exposeErrors),
		AdminUserHandler: handler.NewAdminUserHandler(adminUserService, logger, exposeErrors),
		TaxonomyHandler:  handler.NewTaxonomyHandler(taxonomyService, logger),
		AuditHandler:     handler.NewAuditHandler(auditService, logger),

		Events:    handler.NewEventHandler(eventService, logger, exposeErrors),
		News:      handler.NewNewsHandler(newsService, logger, exposeErrors),
		Quotes:    handler.NewQuoteHandler(quoteService, logger, exposeErrors),
		Members:   handler.NewMemberHandler(memberService, logger, exposeErrors),
		Donations: handler.NewDonationHandler(donationService, logger, exposeErrors),
	})

	return app
}

func newFileStorage(cfg config.Config, logger zerolog.Logger) (service.FileStorage, error) {
	switch cfg.StorageDriver {
	case "cloudinary":
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
		}
		return uploader, nil
	default:
		local, err := filestore.NewLocal(cfg.UploadRoot, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
		}
		return local, nil
	}
}
