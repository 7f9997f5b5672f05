package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	types "github.com/orderhub/order-service/internal/domains/orders/application/types"
	ordersdomain "github.com/orderhub/order-service/internal/domains/orders/domain"
)

// Order is the transport-layer shape of an order. The userId field is
// populated on responses only; on requests it is ignored in favor of the
// verified caller identity.
type Order struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"productId"`
	Quantity   int32           `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	OrderDate  time.Time       `json:"orderDate"`
	UserID     string          `json:"userId"`
}

// ToCreateCommand builds the create command from a request payload. The
// payload's userId is discarded; identity comes only from the verified
// credential.
func ToCreateCommand(payload Order, userID, requestID string) types.CreateOrderCommand {
	return types.CreateOrderCommand{
		ProductID:  payload.ProductID,
		Quantity:   payload.Quantity,
		TotalPrice: payload.TotalPrice,
		OrderDate:  payload.OrderDate,
		UserID:     userID,
		RequestID:  requestID,
	}
}

// ToReplaceCommand builds the wholesale-replacement command from a request
// payload. Unlike create, the replacement owner is taken from the body, as
// update replaces every field.
func ToReplaceCommand(payload Order) types.ReplaceOrderCommand {
	return types.ReplaceOrderCommand{
		ProductID:  payload.ProductID,
		Quantity:   payload.Quantity,
		TotalPrice: payload.TotalPrice,
		OrderDate:  payload.OrderDate,
		UserID:     payload.UserID,
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		ID:         order.ID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		OrderDate:  order.OrderDate,
		UserID:     order.UserID,
	}
}

// FromDomainOrders converts a list of domain orders.
func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}
