// Package types holds serializable command shapes shared by the orders
// service port and the durable workflow layer.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderCommand carries the fields for a new order. UserID is the
// verified principal identity injected by the gateway; any owner value from
// the request body is discarded before this command is built. RequestID
// correlates retries of the same submission and keys the durable workflow id.
type CreateOrderCommand struct {
	ProductID  int64
	Quantity   int32
	TotalPrice decimal.Decimal
	OrderDate  time.Time
	UserID     string
	RequestID  string
}

// ReplaceOrderCommand overwrites every mutable field of an existing order.
// There are no partial patch semantics.
type ReplaceOrderCommand struct {
	ProductID  int64
	Quantity   int32
	TotalPrice decimal.Decimal
	OrderDate  time.Time
	UserID     string
}
