package ports

import (
	"context"
	"errors"

	"github.com/orderhub/order-service/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders. Insert assigns a previously unused identifier
// and a successful insert is immediately visible to a subsequent GetByID.
type Repository interface {
	Insert(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Order, error)
}
