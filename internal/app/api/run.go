// Package api boots the order service HTTP process.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	"github.com/orderhub/order-service/internal/auth"
	catalogclient "github.com/orderhub/order-service/internal/clients/http/catalog"
	inventoryclient "github.com/orderhub/order-service/internal/clients/http/inventory"
	ordersmemory "github.com/orderhub/order-service/internal/domains/orders/adapters/memory"
	ordersobs "github.com/orderhub/order-service/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/orderhub/order-service/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/orderhub/order-service/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/orderhub/order-service/internal/domains/orders/application"
	ordersports "github.com/orderhub/order-service/internal/domains/orders/ports"
	"github.com/orderhub/order-service/internal/httpapi"
	"github.com/orderhub/order-service/internal/platform/migrations"
	platformobservability "github.com/orderhub/order-service/internal/platform/observability"
	platformpostgres "github.com/orderhub/order-service/internal/platform/postgres"
)

// Run boots the order HTTP API with observability, storage, downstream
// clients, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "order-service"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo := buildOrderRepository(ctx, cfg, logger)
	defer cleanupRepo()

	catalog, err := catalogclient.NewClient(cfg.ProductServiceURL, nil)
	if err != nil {
		return fmt.Errorf("failed to configure product catalog client: %w", err)
	}
	stock, err := inventoryclient.NewClient(cfg.StockServiceURL, nil)
	if err != nil {
		return fmt.Errorf("failed to configure stock inventory client: %w", err)
	}

	coreService := ordersapp.NewService(repo, catalog, stock, ordersapp.WithLogger(logger))
	orderService := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running order creation inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	verifierOpts := []auth.VerifierOption{}
	if cfg.JWTIssuer != "" {
		verifierOpts = append(verifierOpts, auth.WithIssuer(cfg.JWTIssuer))
	}
	if cfg.JWTAudience != "" {
		verifierOpts = append(verifierOpts, auth.WithAudience(cfg.JWTAudience))
	}
	verifier, err := auth.NewTokenVerifier(cfg.JWTSecret, verifierOpts...)
	if err != nil {
		return fmt.Errorf("failed to configure token verifier: %w", err)
	}
	guard := httpapi.NewGuard(verifier, auth.DefaultPolicy())

	router := httpapi.NewRouter(
		httpapi.NewOrderAPI(orderService, orderWorkflows),
		guard,
		otelgin.Middleware(serviceName),
	)

	addr := ":" + cfg.Port
	logger.Info("order API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("order API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildOrderRepository(ctx context.Context, cfg Config, logger *slog.Logger) (ordersports.Repository, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order repository")
		return ordersmemory.NewRepository(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		_ = platformpostgres.Close(db)
		return ordersmemory.NewRepository(), func() {}
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(db), func() { _ = platformpostgres.Close(db) }
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
