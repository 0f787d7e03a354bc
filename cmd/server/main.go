package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ragrids/docs"
	"ragrids/internal/auth"
	"ragrids/internal/cache"
	"ragrids/internal/config"
	"ragrids/internal/handler"
	"ragrids/internal/logging"
	"ragrids/internal/notify"
	"ragrids/internal/repository"
	"ragrids/internal/router"
	"ragrids/internal/service"
	"ragrids/internal/storage"
)

// @title Ragrids Portal API
// @version 1.0
// @description Admin and customer authentication, customer profiles and document uploads for the Ragrids green energy portal.
// @BasePath /
// @securityDefinitions.apikey AdminToken
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin JWT.
// @securityDefinitions.apikey UserToken
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the user JWT.
func main() {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	stores, err := repository.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("closing store")
		}
	}()
	logger.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, serving without cache")
	}

	blobs, err := storage.NewMinioStore(ctx, storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MinioPublicURL,
	}, logger)
	if err != nil {
		return err
	}

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.SMTPHost != "" {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}

	// Initialize auth components
	hasher := auth.NewBcryptHasher()
	adminTokens := auth.NewJWTService(auth.KindAdmin, cfg.AdminJWTSecret, auth.WithTTL(cfg.TokenTTL))
	userTokens := auth.NewJWTService(auth.KindUser, cfg.UserJWTSecret, auth.WithTTL(cfg.TokenTTL))

	// Initialize services
	adminService := service.NewAdminService(stores.Admins, hasher, adminTokens)
	userService := service.NewUserService(stores.Users, hasher, userTokens, cacheClient, notifier,
		service.UserServiceOptions{EmptyCustomersNotFound: cfg.EmptyCustomersNotFound})
	uploadService := service.NewUploadService(stores.Users, blobs, cacheClient)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, logger, router.Handlers{
		Admin:     handler.NewAdminHandler(adminService, adminTokens.TTL()),
		User:      handler.NewUserHandler(userService, userTokens.TTL()),
		Customers: handler.NewCustomerHandler(userService),
		Uploads:   handler.NewUploadHandler(uploadService, cfg.UploadMaxBytes),
	}, router.Tokens{Admin: adminTokens, User: userTokens})

	docs.SwaggerInfo.Host = cfg.SwaggerHost

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
