package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/petermazzocco/go-photo-gallery/internal/auth"
	"github.com/petermazzocco/go-photo-gallery/internal/blob"
	"github.com/petermazzocco/go-photo-gallery/internal/config"
	"github.com/petermazzocco/go-photo-gallery/internal/handlers"
	"github.com/petermazzocco/go-photo-gallery/internal/logging"
	"github.com/petermazzocco/go-photo-gallery/internal/metrics"
	"github.com/petermazzocco/go-photo-gallery/internal/store"
	"github.com/petermazzocco/go-photo-gallery/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	db, err := store.Open(cfg.Database)
	if err != nil {
		logger.Error("connect to database", "driver", cfg.Database.Driver, "err", err)
		os.Exit(1)
	}

	handler, err := newHandler(context.Background(), cfg, db, logger)
	if err != nil {
		logger.Error("build server", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newHandler wires the blob store, session store, metrics and upload
// pipeline around an open database and returns the router.
func newHandler(ctx context.Context, cfg config.Config, db *gorm.DB, logger *slog.Logger) (http.Handler, error) {
	blobs, err := blob.New(ctx, cfg.Blob)
	if err != nil {
		return nil, err
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		logger.Warn("SESSION_SECRET is empty, sessions will not survive a restart")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}

	m := metrics.New()
	photos := store.NewPhotoStore(db)
	app := &handlers.App{
		Users:    store.NewUserStore(db),
		Photos:   photos,
		Pipeline: upload.New(blobs, photos, m, logger),
		Sessions: auth.NewSessions(secret, cfg.SecureCookies),
		Metrics:  m,
		Ping:     func(ctx context.Context) error { return store.Ping(ctx, db) },
		Log:      logger,
	}
	return handlers.NewRouter(app, handlers.RouterOptions{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		AllowedOrigins:     cfg.CORSOrigins,
	}), nil
}
