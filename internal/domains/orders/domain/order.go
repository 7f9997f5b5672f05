package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrNegativePrice    = errors.New("total price must not be negative")
	ErrEmptyUserID      = errors.New("user id is required")
)

// Order models a purchase of a single catalog product. The id is zero until
// the repository assigns one on insert and immutable afterwards. UserID is the
// verified identity of the caller that created the order, never a value taken
// from a request body.
type Order struct {
	ID         int64
	ProductID  int64
	Quantity   int32
	TotalPrice decimal.Decimal
	OrderDate  time.Time
	UserID     string
}

// NewOrder validates and constructs an Order aggregate. A zero orderDate
// defaults to the current UTC time.
func NewOrder(productID int64, quantity int32, totalPrice decimal.Decimal, orderDate time.Time, userID string) (*Order, error) {
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}
	order := &Order{
		ProductID:  productID,
		Quantity:   quantity,
		TotalPrice: totalPrice,
		OrderDate:  orderDate,
		UserID:     userID,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if o.TotalPrice.IsNegative() {
		return ErrNegativePrice
	}
	if o.UserID == "" {
		return ErrEmptyUserID
	}
	return nil
}

// Replace overwrites every mutable field wholesale. There are no partial
// patch semantics; the id stays untouched.
func (o *Order) Replace(productID int64, quantity int32, totalPrice decimal.Decimal, orderDate time.Time, userID string) error {
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}
	replaced := Order{
		ID:         o.ID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalPrice: totalPrice,
		OrderDate:  orderDate,
		UserID:     userID,
	}
	if err := replaced.Validate(); err != nil {
		return err
	}
	*o = replaced
	return nil
}
