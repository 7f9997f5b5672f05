package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	orderstypes "github.com/orderhub/order-service/internal/domains/orders/application/types"
	"github.com/orderhub/order-service/internal/domains/orders/domain"
	ordersports "github.com/orderhub/order-service/internal/domains/orders/ports"
)

const (
	// ResolveProductActivityName checks the referenced product exists in the catalog.
	ResolveProductActivityName = "orders.activities.ResolveProduct"
	// ReserveStockActivityName decrements available stock ahead of persistence.
	ReserveStockActivityName = "orders.activities.ReserveStock"
	// PersistOrderActivityName stores the order aggregate.
	PersistOrderActivityName = "orders.activities.PersistOrder"
	// ReleaseStockActivityName returns a reservation after a failed persist.
	ReleaseStockActivityName = "orders.activities.ReleaseStock"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	repo    ordersports.Repository
	catalog ordersports.ProductCatalog
	stock   ordersports.StockAdjuster
}

// NewActivities wires the orders collaborators into the Temporal activities bundle.
func NewActivities(repo ordersports.Repository, catalog ordersports.ProductCatalog, stock ordersports.StockAdjuster) *Activities {
	return &Activities{repo: repo, catalog: catalog, stock: stock}
}

// StockAdjustmentInput carries one signed inventory adjustment.
type StockAdjustmentInput struct {
	ProductID int64
	Delta     int32
	Reason    string
}

// ResolveProduct verifies the product exists. A definitive catalog miss is
// returned as a non-retryable error so the workflow fails fast instead of
// retrying a lookup that cannot succeed.
func (a *Activities) ResolveProduct(ctx context.Context, productID int64) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.catalog == nil {
		logger.Error("resolve product activity not initialized", "productId", productID)
		return errors.New("resolve product activity not initialized")
	}
	logger.Info("ResolveProduct activity started", "productId", productID)
	if _, err := a.catalog.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, ordersports.ErrProductNotFound) {
			logger.Error("ResolveProduct: product missing", "productId", productID)
			return temporal.NewNonRetryableApplicationError(err.Error(), "ProductNotFound", err)
		}
		logger.Error("ResolveProduct activity failed", "productId", productID, "error", err)
		return err
	}
	logger.Info("ResolveProduct activity completed", "productId", productID)
	return nil
}

// ReserveStock applies a negative delta to inventory. Explicit rejections are
// non-retryable; transport failures are left to the retry policy.
func (a *Activities) ReserveStock(ctx context.Context, input StockAdjustmentInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.stock == nil {
		logger.Error("reserve stock activity not initialized", "productId", input.ProductID)
		return errors.New("reserve stock activity not initialized")
	}
	logger.Info("ReserveStock activity started", "productId", input.ProductID, "delta", input.Delta)
	if err := a.stock.Adjust(ctx, input.ProductID, input.Delta, input.Reason); err != nil {
		if errors.Is(err, ordersports.ErrStockRejected) {
			logger.Error("ReserveStock: adjustment rejected", "productId", input.ProductID, "delta", input.Delta)
			return temporal.NewNonRetryableApplicationError(err.Error(), "StockRejected", err)
		}
		logger.Error("ReserveStock activity failed", "productId", input.ProductID, "error", err)
		return err
	}
	logger.Info("ReserveStock activity completed", "productId", input.ProductID, "delta", input.Delta)
	return nil
}

// PersistOrder stores a new order aggregate and returns it with its identifier.
func (a *Activities) PersistOrder(ctx context.Context, cmd orderstypes.CreateOrderCommand) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.repo == nil {
		logger.Error("persist order activity not initialized", "productId", cmd.ProductID)
		return nil, errors.New("persist order activity not initialized")
	}
	logger.Info("PersistOrder activity started", "productId", cmd.ProductID, "userId", cmd.UserID)
	order, err := domain.NewOrder(cmd.ProductID, cmd.Quantity, cmd.TotalPrice, cmd.OrderDate, cmd.UserID)
	if err != nil {
		logger.Error("PersistOrder rejected invalid order", "productId", cmd.ProductID, "error", err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidOrder", err)
	}
	saved, err := a.repo.Insert(ctx, order)
	if err != nil {
		logger.Error("PersistOrder activity failed", "productId", cmd.ProductID, "error", err)
		return nil, err
	}
	logger.Info("PersistOrder activity completed", "orderId", saved.ID)
	return saved, nil
}

// ReleaseStock returns a reservation with a positive delta. It is the
// compensation for ReserveStock and must tolerate repeated attempts.
func (a *Activities) ReleaseStock(ctx context.Context, input StockAdjustmentInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.stock == nil {
		logger.Error("release stock activity not initialized", "productId", input.ProductID)
		return errors.New("release stock activity not initialized")
	}
	logger.Info("ReleaseStock activity started", "productId", input.ProductID, "delta", input.Delta)
	if err := a.stock.Adjust(ctx, input.ProductID, input.Delta, input.Reason); err != nil {
		logger.Error("ReleaseStock activity failed", "productId", input.ProductID, "error", err)
		return err
	}
	logger.Info("ReleaseStock activity completed", "productId", input.ProductID, "delta", input.Delta)
	return nil
}
