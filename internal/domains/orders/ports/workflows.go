package ports

import (
	"context"

	types "github.com/orderhub/order-service/internal/domains/orders/application/types"
	"github.com/orderhub/order-service/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs the order-creation sequence, durably when a
// Temporal cluster is available and inline otherwise.
type WorkflowOrchestrator interface {
	CreateOrder(ctx context.Context, cmd types.CreateOrderCommand) (*domain.Order, error)
}
