package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	types "github.com/orderhub/order-service/internal/domains/orders/application/types"
	"github.com/orderhub/order-service/internal/domains/orders/domain"
	"github.com/orderhub/order-service/internal/domains/orders/ports"
)

// Service is the sole authority for order lifecycle transitions and the only
// component that sequences cross-service calls.
type Service struct {
	repo    ports.Repository
	catalog ports.ProductCatalog
	stock   ports.StockAdjuster
	logger  *slog.Logger
}

type Option func(*Service)

// WithLogger routes reservation-release failures to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires the orders service with its collaborators.
func NewService(repo ports.Repository, catalog ports.ProductCatalog, stock ports.StockAdjuster, opts ...Option) *Service {
	s := &Service{repo: repo, catalog: catalog, stock: stock, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns all stored orders in storage order.
func (s *Service) List(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// GetByID loads a single order or ports.ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// Create runs the order-creation sequence: resolve the product, reserve
// stock, persist, and release the reservation if persistence fails. The
// three remote steps are strictly sequential; each later step depends on the
// success of the earlier one.
func (s *Service) Create(ctx context.Context, cmd types.CreateOrderCommand) (*domain.Order, error) {
	order, err := domain.NewOrder(cmd.ProductID, cmd.Quantity, cmd.TotalPrice, cmd.OrderDate, cmd.UserID)
	if err != nil {
		return nil, mapError(err)
	}

	if _, err := s.catalog.GetProduct(ctx, cmd.ProductID); err != nil {
		if errors.Is(err, ports.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, cmd.ProductID)
		}
		return nil, err
	}

	reason := fmt.Sprintf("reserved for order by %s", cmd.UserID)
	if err := s.stock.Adjust(ctx, cmd.ProductID, -cmd.Quantity, reason); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStockUnavailable, err)
	}

	saved, err := s.repo.Insert(ctx, order)
	if err != nil {
		s.releaseReservation(ctx, cmd.ProductID, cmd.Quantity)
		return nil, err
	}
	return saved, nil
}

// releaseReservation reverses a stock reservation after a failed insert.
// Best effort: a failed release is logged and never masks the insert error.
func (s *Service) releaseReservation(ctx context.Context, productID int64, quantity int32) {
	// The request context may already be cancelled; the release must still go out.
	if err := s.stock.Adjust(context.WithoutCancel(ctx), productID, quantity, "rollback: order persistence failed"); err != nil {
		s.logger.ErrorContext(ctx, "failed to release stock reservation after persistence failure",
			slog.Int64("product.id", productID),
			slog.Int("quantity", int(quantity)),
			slog.String("error", err.Error()))
	}
}

// Replace overwrites an existing order wholesale. No re-validation against
// the catalog or inventory services is performed here.
func (s *Service) Replace(ctx context.Context, id int64, cmd types.ReplaceOrderCommand) (*domain.Order, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := existing.Replace(cmd.ProductID, cmd.Quantity, cmd.TotalPrice, cmd.OrderDate, cmd.UserID); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Update(ctx, existing)
}

// Delete removes an order. No stock release is performed on delete.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
