package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersapp "github.com/orderhub/order-service/internal/domains/orders/application"
	types "github.com/orderhub/order-service/internal/domains/orders/application/types"
	ordersdomain "github.com/orderhub/order-service/internal/domains/orders/domain"
	ordersports "github.com/orderhub/order-service/internal/domains/orders/ports"
)

const tracerName = "github.com/orderhub/order-service/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) Create(ctx context.Context, cmd types.CreateOrderCommand) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Create",
		trace.WithAttributes(
			attribute.Int64("order.product_id", cmd.ProductID),
			attribute.Int("order.quantity", int(cmd.Quantity)),
		))
	defer span.End()

	s.logInfo(ctx, "creating order",
		slog.Int64("order.product_id", cmd.ProductID),
		slog.Int("order.quantity", int(cmd.Quantity)),
		slog.String("order.user_id", cmd.UserID))
	result, err := s.inner.Create(ctx, cmd)
	if err != nil {
		s.metrics.recordCreateFailed(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to create order",
			slog.Int64("order.product_id", cmd.ProductID))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "order created",
		slog.Int64("order.id", result.ID),
		slog.String("order.user_id", result.UserID))
	return result, nil
}

func (s *Service) Replace(ctx context.Context, id int64, cmd types.ReplaceOrderCommand) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Replace", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "replacing order", slog.Int64("order.id", id))
	result, err := s.inner.Replace(ctx, id, cmd)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to replace order", slog.Int64("order.id", id))
	}
	s.logInfo(ctx, "order replaced", slog.Int64("order.id", result.ID))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", id))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	ordersDeleted metric.Int64Counter
	createsFailed metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	createsFailed, _ := m.Int64Counter("orders.service.create_failures", metric.WithDescription("Number of failed order creations by reason"))
	return serviceMetrics{ordersCreated: ordersCreated, ordersDeleted: ordersDeleted, createsFailed: createsFailed}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCreateFailed(ctx context.Context, err error) {
	if m.createsFailed == nil {
		return
	}
	reason := "infrastructure"
	switch {
	case errors.Is(err, ordersapp.ErrProductNotFound):
		reason = "product_not_found"
	case errors.Is(err, ordersapp.ErrStockUnavailable):
		reason = "stock_unavailable"
	case errors.Is(err, ordersapp.ErrInvalidInput):
		reason = "invalid_input"
	}
	m.createsFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

var _ ordersports.Service = (*Service)(nil)
