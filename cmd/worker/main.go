package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogclient "github.com/orderhub/order-service/internal/clients/http/catalog"
	inventoryclient "github.com/orderhub/order-service/internal/clients/http/inventory"
	ordersmemory "github.com/orderhub/order-service/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/orderhub/order-service/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/orderhub/order-service/internal/domains/orders/ports"
	orderworkflows "github.com/orderhub/order-service/internal/durable/temporal/workflows/orders"
	"github.com/orderhub/order-service/internal/platform/migrations"
	platformobservability "github.com/orderhub/order-service/internal/platform/observability"
	platformpostgres "github.com/orderhub/order-service/internal/platform/postgres"
	orderactivities "github.com/orderhub/order-service/internal/platform/temporal/activities/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "order-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo := buildOrderRepository(ctx, logger)
	defer cleanupRepo()

	catalog, err := catalogclient.NewClient(os.Getenv("PRODUCT_SERVICE_URL"), nil)
	if err != nil {
		logger.Error("failed to configure product catalog client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	stock, err := inventoryclient.NewClient(os.Getenv("STOCK_SERVICE_URL"), nil)
	if err != nil {
		logger.Error("failed to configure stock inventory client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	activities := orderactivities.NewActivities(repo, catalog, stock)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderCreationWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderCreationWorkflowName})
	w.RegisterActivityWithOptions(activities.ResolveProduct, activity.RegisterOptions{Name: orderactivities.ResolveProductActivityName})
	w.RegisterActivityWithOptions(activities.ReserveStock, activity.RegisterOptions{Name: orderactivities.ReserveStockActivityName})
	w.RegisterActivityWithOptions(activities.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})
	w.RegisterActivityWithOptions(activities.ReleaseStock, activity.RegisterOptions{Name: orderactivities.ReleaseStockActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderCreationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderRepository(ctx context.Context, logger *slog.Logger) (ordersports.Repository, func()) {
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order repository")
		return ordersmemory.NewRepository(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("worker failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("worker failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		_ = platformpostgres.Close(db)
		return ordersmemory.NewRepository(), func() {}
	}
	logger.Info("worker order repository configured with postgres")
	return orderspostgres.NewRepository(db), func() { _ = platformpostgres.Close(db) }
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
