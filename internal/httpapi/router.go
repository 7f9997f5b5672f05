// Package httpapi exposes the orders service over HTTP with bearer-token
// authentication and per-operation role checks.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderhub/order-service/internal/auth"
)

// NewRouter builds the gin engine with the order routes guarded by the
// given policy. The health endpoint stays unauthenticated. Middleware must
// be installed here: gin snapshots the handler chain at route registration,
// so anything attached after NewRouter returns never runs for these routes.
func NewRouter(api OrderAPI, guard *Guard, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	orders := router.Group("/api/orders")
	orders.Use(guard.Authenticate())
	orders.GET("", guard.Authorize(auth.OpListOrders), api.ListOrders)
	orders.POST("", guard.Authorize(auth.OpCreateOrder), api.CreateOrder)
	orders.GET("/:orderId", guard.Authorize(auth.OpGetOrder), api.GetOrder)
	orders.PUT("/:orderId", guard.Authorize(auth.OpReplaceOrder), api.ReplaceOrder)
	orders.DELETE("/:orderId", guard.Authorize(auth.OpDeleteOrder), api.DeleteOrder)

	return router
}
