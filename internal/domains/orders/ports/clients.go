package ports

import (
	"context"
	"errors"

	"github.com/orderhub/order-service/internal/domains/orders/domain"
)

var (
	// ErrProductNotFound means the catalog answered and the product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrCatalogUnavailable covers transport failures and unexpected catalog responses.
	ErrCatalogUnavailable = errors.New("product catalog unavailable")
	// ErrStockRejected means the inventory service explicitly declined the
	// adjustment, typically for insufficient available quantity.
	ErrStockRejected = errors.New("stock adjustment rejected")
	// ErrStockUnreachable covers transport failures and unexpected inventory responses.
	ErrStockUnreachable = errors.New("stock service unreachable")
)

// ProductCatalog looks up products in the remote catalog service. Absence is
// reported as ErrProductNotFound, distinct from ErrCatalogUnavailable, so
// callers can retry only the latter.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// StockAdjuster applies signed quantity deltas to remote inventory records.
// A negative delta reserves stock, a positive delta releases it. The reason
// is a human-readable tag carried to the inventory service's audit trail.
type StockAdjuster interface {
	Adjust(ctx context.Context, productID int64, delta int32, reason string) error
}
