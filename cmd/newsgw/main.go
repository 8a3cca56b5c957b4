package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	newsgateway "github.com/ferro-labs/news-gateway"
	"github.com/ferro-labs/news-gateway/internal/auth"
	"github.com/ferro-labs/news-gateway/internal/logging"
	"github.com/ferro-labs/news-gateway/internal/version"
)

func main() {
	if err := run(); err != nil {
		logging.Logger.Error("newsgw stopped", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads .env, the optional NEWSGW_CONFIG file and the environment
// overrides, in that order.
func loadConfig() (newsgateway.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return newsgateway.Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := newsgateway.DefaultConfig()
	if path := os.Getenv("NEWSGW_CONFIG"); path != "" {
		loaded, err := newsgateway.LoadConfig(path)
		if err != nil {
			return newsgateway.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	newsgateway.ApplyEnv(&cfg, os.Getenv)

	if err := newsgateway.ValidateConfig(cfg); err != nil {
		return newsgateway.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	log := logging.Logger

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := newsgateway.NewProvider(cfg.Upstream)
	if err != nil {
		return fmt.Errorf("upstream provider: %w", err)
	}
	caches, closeCaches, err := newsgateway.NewCaches(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache backend: %w", err)
	}
	defer func() {
		if err := closeCaches(); err != nil {
			log.Warn("closing cache backend", "error", err)
		}
	}()

	gw, err := newsgateway.New(provider, caches,
		newsgateway.WithCountry(cfg.Upstream.Country),
		newsgateway.WithLanguage(cfg.Upstream.Language),
	)
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	verifier, defaulted, err := auth.FromCredentials(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.PasswordHash)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if defaulted {
		log.Warn("no credentials configured, using built-in user", "user", auth.DefaultUsername)
	}

	r := newRouter(gw, verifier, routerOptions{
		realm:       cfg.Auth.Realm,
		corsOrigins: cfg.Server.CORSOrigins,
	})
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  cfg.Server.IdleTimeout.Std(),
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		log.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("newsgw listening",
		"version", version.Short(),
		"addr", cfg.Server.Addr,
		"upstream", gw.Upstream(),
		"cache", string(cfg.Cache.Backend),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	<-drained
	log.Info("server stopped")
	return nil
}

func shutdownTimeout(cfg newsgateway.Config) time.Duration {
	if d := cfg.Server.ShutdownTimeout.Std(); d > 0 {
		return d
	}
	return 15 * time.Second
}
