package sequences

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/orderhub/order-service/internal/domains/orders/application/types"
	"github.com/orderhub/order-service/internal/domains/orders/domain"
	orderactivities "github.com/orderhub/order-service/internal/platform/temporal/activities/orders"
)

// RunOrderCreationSequence executes the ordered activities that place an
// order: resolve the product, reserve stock, persist. A persistence failure
// triggers a compensating stock release before the error propagates.
func RunOrderCreationSequence(ctx workflow.Context, cmd orderstypes.CreateOrderCommand) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order creation sequence started", "productId", cmd.ProductID, "userId", cmd.UserID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	if err := workflow.ExecuteActivity(ctx, orderactivities.ResolveProductActivityName, cmd.ProductID).Get(ctx, nil); err != nil {
		logger.Error("order creation sequence: product resolution failed", "productId", cmd.ProductID, "error", err)
		return nil, err
	}

	reservation := orderactivities.StockAdjustmentInput{
		ProductID: cmd.ProductID,
		Delta:     -cmd.Quantity,
		Reason:    fmt.Sprintf("reserved for order by %s", cmd.UserID),
	}
	if err := workflow.ExecuteActivity(ctx, orderactivities.ReserveStockActivityName, reservation).Get(ctx, nil); err != nil {
		logger.Error("order creation sequence: stock reservation failed", "productId", cmd.ProductID, "error", err)
		return nil, err
	}

	var order domain.Order
	if err := workflow.ExecuteActivity(ctx, orderactivities.PersistOrderActivityName, cmd).Get(ctx, &order); err != nil {
		logger.Error("order creation sequence: persistence failed, releasing reservation", "productId", cmd.ProductID, "error", err)
		releaseReservation(ctx, cmd)
		return nil, err
	}

	logger.Info("order creation sequence completed", "orderId", order.ID)
	return &order, nil
}

// releaseReservation runs the compensating release on a disconnected context
// so cancellation of the parent workflow cannot strand the reservation. The
// release is best effort; its failure never masks the persistence error.
func releaseReservation(ctx workflow.Context, cmd orderstypes.CreateOrderCommand) {
	logger := workflow.GetLogger(ctx)
	release := orderactivities.StockAdjustmentInput{
		ProductID: cmd.ProductID,
		Delta:     cmd.Quantity,
		Reason:    fmt.Sprintf("rollback: order persistence failed for %s", cmd.UserID),
	}
	detachedCtx, cancel := workflow.NewDisconnectedContext(ctx)
	defer cancel()
	if err := workflow.ExecuteActivity(detachedCtx, orderactivities.ReleaseStockActivityName, release).Get(detachedCtx, nil); err != nil {
		logger.Error("order creation sequence: reservation release failed", "productId", cmd.ProductID, "error", err)
	}
}
