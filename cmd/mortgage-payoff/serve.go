package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/mortgage-payoff/internal/cache"
	"github.com/iwvelando/mortgage-payoff/internal/server"
	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagServerConfig string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection API over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, flagServerConfig, flagLogLevel)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagServerConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
}

// newCache builds the result cache selected in cfg. The returned cleanup
// releases any connection the cache holds.
func newCache(ctx context.Context, logger *zap.Logger, cfg *server.Config) (cache.Cache, func(), error) {
	switch cfg.Cache.Backend {
	case server.CacheBackendNone:
		return nil, func() {}, nil
	case server.CacheBackendRedis:
		r := cache.NewRedisFromAddress(cfg.Cache.RedisAddress, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.KeyPrefix)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := r.Ping(pingCtx); err != nil {
			_ = r.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Cache.RedisAddress, err)
		}
		logger.Info("using redis result cache",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Cache.RedisAddress),
		)
		return r, func() {
			if err := r.Close(); err != nil {
				logger.Warn("failed to close redis client", zap.String("op", "main.serve"), zap.Error(err))
			}
		}, nil
	}
	return cache.NewMemory(nil), func() {}, nil
}

func serve(ctx context.Context, serverConfigPath, logLevel string) error {
	cfg, err := server.LoadConfig(serverConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load server configuration at %s: %w", serverConfigPath, err)
	}

	logger, err := initializeLogger(cfg.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	resultCache, closeCache, err := newCache(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	handler := server.NewHandler(logger, server.Options{
		MaxUploadSize: cfg.UploadSizeBytes(),
		Version:       version,
		Cache:         resultCache,
		CacheTTL:      cfg.CacheTTL(),
	})

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("serving projection API on %s", cfg.Address),
			zap.String("op", "main.serve"),
			zap.String("cache", cfg.Cache.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server", zap.String("op", "main.serve"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}

	logger.Info("server exited", zap.String("op", "main.serve"))
	return nil
}
