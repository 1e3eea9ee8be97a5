package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rogerio-castellano/product-registration/internal/config"
	"github.com/rogerio-castellano/product-registration/internal/db"
	"github.com/rogerio-castellano/product-registration/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-registration/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-registration/internal/http/router"
	"github.com/rogerio-castellano/product-registration/internal/logging"
	"github.com/rogerio-castellano/product-registration/internal/redissvc"
	"github.com/rogerio-castellano/product-registration/internal/repo"
)

// @title Product Registration API
// @version 1.0
// @description Register, fetch and edit products through JSON action requests.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	var products repo.ProductRepository = repo.NewPostgresProductRepository(db.NewSQLExecutor(database, cfg.QueryTimeout))

	if cfg.CacheEnabled() {
		rdb, err := redissvc.New(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		products = repo.NewCachedProductRepository(products, rdb, cfg.CacheTTL, logger)
		logger.Info("product cache enabled", "redis_addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	srv := handlers.NewServer(products, logger, handlers.Options{
		EditMode:     handlers.EditMode(cfg.EditMode),
		MaxBodyBytes: cfg.MaxBodyBytes,
		Pinger:       database,
	})

	limiter := rl.New(cfg.RateLimitRPS, cfg.RateLimitBurst)

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: router.NewRouter(srv, router.Options{
			Logger:         logger,
			Limiter:        limiter,
			SwaggerEnabled: cfg.SwaggerEnabled,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		limiter.StartVisitorCleanupLoop(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("server running", "addr", cfg.HTTPAddr, "edit_mode", cfg.EditMode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
