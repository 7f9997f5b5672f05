package orders

import (
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/orderhub/order-service/internal/domains/orders/application/types"
	"github.com/orderhub/order-service/internal/domains/orders/domain"
	"github.com/orderhub/order-service/internal/durable/temporal/sequences"
)

const (
	// OrderCreationWorkflowName is the public identifier for registering the workflow.
	OrderCreationWorkflowName = "orders.workflows.Creation"
	// OrderCreationTaskQueue is the queue consumed by the worker processing order workflows.
	OrderCreationTaskQueue = "ORDER_CREATION"
)

// OrderCreationWorkflowInput captures the payload required to place an order.
type OrderCreationWorkflowInput struct {
	Command orderstypes.CreateOrderCommand
	TraceID string
}

// OrderCreationWorkflow orchestrates product resolution, stock reservation,
// and persistence for a new order, releasing the reservation if persistence
// fails.
func OrderCreationWorkflow(ctx workflow.Context, input OrderCreationWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderCreationWorkflow started", withTraceID(input.TraceID, "productId", input.Command.ProductID, "userId", input.Command.UserID)...)
	order, err := sequences.RunOrderCreationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderCreationWorkflow failed", withTraceID(input.TraceID, "productId", input.Command.ProductID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderCreationWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
