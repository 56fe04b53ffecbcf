// Package app contains the application setup for the product service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productboard/internal/config"
	"github.com/abgdnv/productboard/internal/product/handler"
	"github.com/abgdnv/productboard/internal/product/migrations"
	"github.com/abgdnv/productboard/internal/product/service"
	"github.com/abgdnv/productboard/internal/product/store"
	"github.com/abgdnv/productboard/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/productboard/pkg/config"
	"github.com/abgdnv/productboard/pkg/messaging"
	pnats "github.com/abgdnv/productboard/pkg/nats"
	"github.com/abgdnv/productboard/pkg/server"
	"github.com/go-chi/chi/v5"
)

const serviceName = "product-service"

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	MetricsPath    string
}

func SetupDependencies(productStore store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		ProductService: service.NewService(productStore, publisher),
		Logger:         logger,
	}
}

// SetupStore opens the configured product store. The returned func releases it.
func SetupStore(ctx context.Context, cfg pkgconfig.DatabaseConfig, logger *slog.Logger) (store.ProductStore, func(), error) {
	if cfg.Driver == pkgconfig.DriverMemory {
		logger.Warn("Using in-memory product store, data will not survive a restart")
		return store.NewInMemoryStore(), func() {}, nil
	}

	if cfg.Migrate {
		if err := migrations.Up(cfg.URL); err != nil {
			return nil, nil, err
		}
		logger.Info("Database migrations applied")
	}

	dbPool, err := bootstrap.NewDbPool(ctx, cfg.URL, cfg.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	logger.Info("Successfully connected to the database!")
	return store.NewPgStore(dbPool), dbPool.Close, nil
}

// SetupPublisher connects to NATS JetStream when enabled and makes sure the
// product stream exists. Without NATS events are dropped.
func SetupPublisher(ctx context.Context, cfg pkgconfig.NATSConfig, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Enabled {
		return messaging.NoopPublisher{}, func() {}, nil
	}
	nc, err := pnats.NewClient(cfg.Url, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := pnats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err := pnats.EnsureStream(ctx, js, cfg.Stream, messaging.ProductsSubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS", slog.String("url", cfg.Url), slog.String("stream", cfg.Stream))
	drain := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", slog.Any("error", err))
		}
	}
	return pnats.NewNatsPublisher(js), drain, nil
}

// SetupHttpHandler builds the router with middleware and routes.
// Used by E2E tests to serve the API without a listener.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(serviceName, deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the product service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := handler.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
	if deps.MetricsHandler != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Method(http.MethodGet, path, deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the product service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, SetupHttpHandler(deps))
}
