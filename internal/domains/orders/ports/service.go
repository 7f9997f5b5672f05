package ports

import (
	"context"

	types "github.com/orderhub/order-service/internal/domains/orders/application/types"
	"github.com/orderhub/order-service/internal/domains/orders/domain"
)

// Service exposes order use cases to adapters. Create runs the full
// reservation sequence; Replace and Delete are plain store pass-throughs.
type Service interface {
	List(ctx context.Context) ([]*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, cmd types.CreateOrderCommand) (*domain.Order, error)
	Replace(ctx context.Context, id int64, cmd types.ReplaceOrderCommand) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}
