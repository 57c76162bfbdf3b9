package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms_backend/internal/course"
	"lms_backend/internal/educator"
	apphttp "lms_backend/internal/http"
	"lms_backend/internal/http/router"
	"lms_backend/internal/user"
	"lms_backend/internal/webhook"
	"lms_backend/platform/config"
	"lms_backend/platform/db"
	"lms_backend/platform/logger"
	"lms_backend/platform/media"
	"lms_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// connectors open the backing services. Tests swap them out.
type connectors struct {
	database func(ctx context.Context, cfg *config.Config) (*db.Client, error)
	media    func(ctx context.Context, cfg *config.Config) (*media.MinIOService, error)
}

func defaultConnectors() connectors {
	return connectors{
		database: func(ctx context.Context, cfg *config.Config) (*db.Client, error) {
			return db.Connect(ctx, cfg)
		},
		media: func(ctx context.Context, cfg *config.Config) (*media.MinIOService, error) {
			return media.Connect(ctx, cfg)
		},
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.GetHTTPAddr())
	gin.SetMode(ginMode(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, defaultConnectors()); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// run connects the backing services, serves HTTP until ctx is cancelled and
// then shuts down gracefully. Connection failures return before the port is bound.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger, connect connectors) error {
	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var database *db.Client
	if err := withRetry(ctx, log, "database connection", cfg.GetStartupConnectAttempts(), cfg.GetStartupConnectDelay(), func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, cfg.GetStartupConnectTimeout())
		defer cancel()
		c, err := connect.database(attemptCtx, cfg)
		if err != nil {
			return err
		}
		database = c
		return nil
	}); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database Connected", "database", cfg.GetMongoDatabase())

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		if err := database.Close(closeCtx); err != nil {
			log.Error("failed to disconnect database", "error", err)
			return
		}
		log.Info("database disconnected")
	}()

	var mediaSvc *media.MinIOService
	if err := withRetry(ctx, log, "media host connection", cfg.GetStartupConnectAttempts(), cfg.GetStartupConnectDelay(), func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, cfg.GetStartupConnectTimeout())
		defer cancel()
		svc, err := connect.media(attemptCtx, cfg)
		if err != nil {
			return err
		}
		mediaSvc = svc
		return nil
	}); err != nil {
		return fmt.Errorf("failed to connect to media host: %w", err)
	}
	log.Info("media host connected", "bucket", cfg.GetMediaBucket())

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	webhookModule, err := webhook.NewModule(database.Database(), cfg, val, log)
	if err != nil {
		return fmt.Errorf("failed to initialize webhook module: %w", err)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   database,
		Webhooks: webhookModule,
		Modules: []apphttp.Module{
			user.NewModule(database.Database()),
			course.NewModule(database.Database()),
			educator.NewModule(database.Database(), mediaSvc, val, log),
		},
	}

	engine, err := router.New(app)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.GetHTTPAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GetHTTPAddr(), err)
	}

	return serve(ctx, &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}, ln, cfg.GetPort(), cfg.GetShutdownTimeout(), log)
}

// serve runs srv on ln until ctx is cancelled or the server fails.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, port int, shutdownTimeout time.Duration, log *logger.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(fmt.Sprintf("Server is running on port %d", port), "port", port)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func ginMode(cfg *config.Config) string {
	if cfg.IsDevelopment() {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
