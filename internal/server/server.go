// Package server boots the service dependencies and runs the HTTP server
// until the process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/config"
	_ "github.com/shashiranjanraj/catalog/database/migrations" // registers migrations
	"github.com/shashiranjanraj/catalog/internal/kernel"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/migration"
	"github.com/shashiranjanraj/catalog/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// Runtime holds the booted dependencies.
type Runtime struct {
	Products *services.ProductService
	closers  []func()
}

// Boot loads config and connects logging, the database, the cache and the
// storage disks. Cache and storage failures degrade with a warning; config
// and database failures are fatal.
func Boot(ctx context.Context) (*Runtime, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	rt := &Runtime{}

	if uri := config.LogMongoURI(); uri != "" {
		closeLogs, err := logger.EnableMongo(uri, config.LogMongoDatabase(), config.LogMongoCollection())
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			rt.closers = append(rt.closers, closeLogs)
		}
	}

	if err := database.Connect(); err != nil {
		rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, func() { _ = database.Close() })

	store, err := cache.Connect(ctx)
	if err != nil {
		logger.Warn("cache disabled", "driver", config.CacheDriver(), "error", err)
	}
	if c, ok := store.(io.Closer); ok {
		rt.closers = append(rt.closers, func() { _ = c.Close() })
	}

	if err := storage.Connect(ctx); err != nil {
		logger.Warn("storage: s3 disk disabled", "error", err)
	}

	rt.Products = services.NewProductService(repositories.NewProductRepository(nil), store)
	return rt, nil
}

// Close releases everything Boot opened, in reverse order.
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

// Start boots the runtime, runs pending migrations when AUTO_MIGRATE is on
// and serves HTTP on APP_PORT until SIGINT or SIGTERM.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if config.AutoMigrate() {
		if _, err := migration.New(database.DB).Run(); err != nil {
			return err
		}
	}

	k, err := kernel.NewHTTPKernel(rt.Products, services.NewHTTPSource())
	if err != nil {
		return fmt.Errorf("kernel: %w", err)
	}

	return Serve(ctx, ":"+config.AppPort(), k.Handler())
}

// Serve runs handler on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("http: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http: shutdown: %w", err)
	}
	return nil
}
