// @title        Rental System API
// @version      1.0
// @description  Property listings, blocked dates and image uploads.
// @BasePath     /api
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/alquilercordoba/rental-system/internal/api"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
	"github.com/alquilercordoba/rental-system/internal/core/service"
	mongodb "github.com/alquilercordoba/rental-system/internal/infrastructure/db/mongo"
	redisdb "github.com/alquilercordoba/rental-system/internal/infrastructure/db/redis"
	"github.com/alquilercordoba/rental-system/internal/infrastructure/db/sqlstore"
	"github.com/alquilercordoba/rental-system/internal/infrastructure/http/handlers"
	"github.com/alquilercordoba/rental-system/internal/infrastructure/storage"
	"github.com/alquilercordoba/rental-system/internal/pkg/config"
	"github.com/alquilercordoba/rental-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is configured from cfg, so fall back to a bare one.
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "rental-api",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:       sqlstore.Driver(cfg.Database.Driver),
		DatabaseURL:  cfg.Database.URL,
		SQLitePath:   cfg.Database.SQLitePath,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info().Str("driver", string(store.Driver())).Msg("database ready")

	checks := map[string]handlers.PingFunc{"database": store.Ping}

	var cache ports.PropertyCache
	if cfg.Cache.Enabled {
		propertyCache, err := redisdb.OpenPropertyCache(ctx, redisdb.Config{
			Addr: cfg.Cache.Addr,
			DB:   cfg.Cache.DB,
			TTL:  cfg.Cache.TTL,
		}, logger.Component(log, "property-cache"))
		if err != nil {
			return err
		}
		defer propertyCache.Stop()
		if propertyCache.Shared() {
			checks["redis"] = propertyCache.Ping
		}
		cache = propertyCache
		log.Info().Bool("redis", propertyCache.Shared()).Dur("ttl", cfg.Cache.TTL).Msg("property cache enabled")
	}

	var files ports.FileStorage
	switch cfg.Upload.Backend {
	case mongodb.BackendGridFS:
		gridfs, err := mongodb.OpenGridFS(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Bucket:   cfg.Mongo.Bucket,
		})
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := gridfs.Close(closeCtx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()
		checks["mongo"] = gridfs.Ping
		files = gridfs
	default:
		local, err := storage.NewLocalStorage(cfg.Upload.Dir)
		if err != nil {
			return err
		}
		files = local
	}
	log.Info().Str("backend", files.Backend()).Msg("upload storage ready")

	users := sqlstore.NewUserRepository(store)
	properties := sqlstore.NewPropertyRepository(store)
	availability := sqlstore.NewAvailabilityRepository(store)

	authService := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL, logger.Component(log, "auth"))
	if err := authService.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, false); err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Logger:              log,
		JWTSecret:           cfg.JWTSecret,
		FrontendURL:         cfg.FrontendURL,
		AuthService:         authService,
		PropertyService:     service.NewPropertyService(properties, cache, logger.Component(log, "properties")),
		AvailabilityService: service.NewAvailabilityService(availability, properties, logger.Component(log, "availability")),
		UploadService:       service.NewUploadService(files, cfg.PublicBaseURL, cfg.Upload.MaxBytes, logger.Component(log, "uploads")),
		UploadMaxBytes:      cfg.Upload.MaxBytes,
		HealthChecks:        checks,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
