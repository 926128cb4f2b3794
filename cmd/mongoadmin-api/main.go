package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edvin/mongoadmin/internal/api"
	"github.com/edvin/mongoadmin/internal/authz"
	"github.com/edvin/mongoadmin/internal/config"
	"github.com/edvin/mongoadmin/internal/core"
	"github.com/edvin/mongoadmin/internal/crypto"
	"github.com/edvin/mongoadmin/internal/db"
	"github.com/edvin/mongoadmin/internal/logging"
	"github.com/edvin/mongoadmin/internal/metrics"
	"github.com/edvin/mongoadmin/internal/session"
)

const sessionCleanupInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)
	if cfg.UsesDefaultAdminPassword() {
		logger.Warn().Str("username", cfg.Admin.Username).Msg("bootstrap admin uses the default password, set ADMIN_PASSWORD")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := db.NewClient(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout, metrics.NewMongoPoolMonitor(prometheus.DefaultRegisterer))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	users := db.NewUsers(client, cfg.Mongo.AuthDatabase)
	if err := users.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	catalog := db.NewCatalog(client)
	probes := map[string]api.Pinger{"mongodb": catalog}

	var sessions session.Store
	switch cfg.Session.Backend {
	case "redis":
		rs, err := session.NewRedisStore(ctx, cfg.Session.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rs.Close()
		sessions = rs
		probes["redis"] = rs
	default:
		ms := session.NewMemoryStore()
		ms.StartCleanup(ctx, sessionCleanupInterval)
		sessions = ms
	}

	services := core.NewServices(core.Deps{
		Store:      catalog,
		Users:      users,
		Hasher:     crypto.NewPasswordHasher(crypto.DefaultArgon2Params),
		Sessions:   sessions,
		Engine:     authz.New(cfg.Mongo.ReservedDatabases...),
		SessionTTL: cfg.Session.TTL,
		MongoURI:   cfg.Mongo.URI,
	})

	created, err := services.Users.EnsureDefaultAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("failed to bootstrap admin user")
	case created:
		logger.Info().Str("username", cfg.Admin.Username).Msg("created bootstrap admin user")
	}

	srv := api.NewServer(logger, services, cfg, probes)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var metricsServer *http.Server
	if cfg.HTTP.MetricsListenAddr != "" {
		metricsServer = metrics.NewServer(cfg.HTTP.MetricsListenAddr)
		go func() {
			logger.Info().Str("addr", cfg.HTTP.MetricsListenAddr).Msg("starting metrics server")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTP.ListenAddr).Msg("starting mongoadmin API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	if metricsServer != nil {
		metricsServer.Shutdown(shutdownCtx)
	}
}
