package application

import (
	"errors"
	"fmt"

	"github.com/orderhub/order-service/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrProductNotFound signals the referenced catalog product does not exist.
	ErrProductNotFound = errors.New("referenced product not found")
	// ErrStockUnavailable signals the stock reservation failed, either because
	// the inventory service declined it or because it could not be reached.
	// The cause is wrapped so callers can still tell the two apart.
	ErrStockUnavailable = errors.New("stock unavailable for order")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrEmptyUserID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
