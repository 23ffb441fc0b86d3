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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/lodgelink/lodgelink-backend/api/routes"
	"github.com/lodgelink/lodgelink-backend/internal/auth"
	"github.com/lodgelink/lodgelink-backend/internal/identity"
	"github.com/lodgelink/lodgelink-backend/internal/lodge"
	"github.com/lodgelink/lodgelink-backend/internal/membership"
	"github.com/lodgelink/lodgelink-backend/pkg/auth/session"
	"github.com/lodgelink/lodgelink-backend/pkg/config"
	"github.com/lodgelink/lodgelink-backend/pkg/db"
	"github.com/lodgelink/lodgelink-backend/pkg/logger"
	"github.com/lodgelink/lodgelink-backend/pkg/mailer"
	"github.com/lodgelink/lodgelink-backend/pkg/metrics"
	"github.com/lodgelink/lodgelink-backend/pkg/migrate"
	"github.com/lodgelink/lodgelink-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	identityMetrics := metrics.NewIdentityMetrics(registry)

	resetFlow := auth.NewResetFlow(redisClient, mailer.New(cfg.SMTP, logg), cfg.PasswordReset, logg)

	authService, err := auth.NewService(auth.ServiceParams{
		IdentityRepo:   identity.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		ResetFlow:      resetFlow,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Metrics:        identityMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	identityService, err := identity.NewService(identity.ServiceParams{
		Repo:           identity.NewRepository(dbClient.DB()),
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	lodgeRepo := lodge.NewRepository(dbClient.DB())

	membershipService, err := membership.NewService(membership.ServiceParams{
		Resolver: membership.NewRepository(dbClient.DB()),
		Lodges:   lodgeRepo,
		Tx:       dbClient,
		Metrics:  identityMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create membership service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			redisClient,
			sessionManager,
			authService,
			identityService,
			membershipService,
			lodgeRepo,
			registry,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop.Done():
		logg.Info(ctx, "shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		err := server.Shutdown(shutdownCtx)
		err = multierr.Append(err, redisClient.Close())
		err = multierr.Append(err, dbClient.Close())
		if err != nil {
			logg.Error(ctx, "shutdown completed with errors", err)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
		return
	}

	err = multierr.Append(redisClient.Close(), dbClient.Close())
	if err != nil {
		logg.Error(ctx, "error closing clients", err)
	}
}
