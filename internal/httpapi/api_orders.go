package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ordermapper "github.com/orderhub/order-service/internal/domains/orders/adapters/http/mapper"
	"github.com/orderhub/order-service/internal/domains/orders/application/types"
	"github.com/orderhub/order-service/internal/domains/orders/domain"
	"github.com/orderhub/order-service/internal/domains/orders/ports"
	apierrors "github.com/orderhub/order-service/internal/shared/errors"
)

// OrderAPI wires HTTP transport with the orders service and its create
// workflow.
type OrderAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service. The
// orchestrator may be nil, in which case creation runs through the service
// directly.
func NewOrderAPI(service ports.Service, workflows ports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Get /api/orders
// List all orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrders(orders))
}

// Get /api/orders/:orderId
// Find order by ID
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}

// Post /api/orders
// Place a new order; the owner is always the authenticated caller.
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		responder.Respond(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
		return
	}
	var payload ordermapper.Order
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	cmd := ordermapper.ToCreateCommand(payload, principal.Subject, requestID(c))
	saved, err := api.createOrder(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromDomainOrder(saved))
}

func (api *OrderAPI) createOrder(ctx context.Context, cmd types.CreateOrderCommand) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.CreateOrder(ctx, cmd)
	}
	return api.service.Create(ctx, cmd)
}

// Put /api/orders/:orderId
// Replace an existing order wholesale
func (api *OrderAPI) ReplaceOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload ordermapper.Order
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.Replace(c.Request.Context(), id, ordermapper.ToReplaceCommand(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(updated))
}

// Delete /api/orders/:orderId
// Remove an order
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// requestID returns the caller-supplied X-Request-Id or mints one. It keys
// workflow deduplication, so every create carries one.
func requestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-Id"); id != "" {
		return id
	}
	return uuid.NewString()
}

// parseIDParam treats non-numeric and non-positive ids as unroutable, the
// same way a typed route constraint would.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		responder.Respond(c, apierrors.NewNotFoundProblem("order", raw))
		return 0, false
	}
	return id, true
}
