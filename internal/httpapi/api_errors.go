package httpapi

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/orderhub/order-service/internal/domains/orders/application"
	"github.com/orderhub/order-service/internal/domains/orders/ports"
	apierrors "github.com/orderhub/order-service/internal/shared/errors"
)

// responder translates service errors into problem documents shared by
// handlers and middleware.
var responder = apierrors.NewResponder("", mapOrderServiceError)

// mapOrderServiceError covers the error taxonomy of the orders service:
// validation failures are 400, missing orders are 404, and orders that
// reference a missing product or unreservable stock are 422.
func mapOrderServiceError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("order not found"), true
	case errors.Is(err, application.ErrProductNotFound):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrStockUnavailable):
		return apierrors.ErrUnprocessable.WithDetail("stock could not be reserved"), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondServiceError maps a service error onto the wire.
func respondServiceError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

// respondBadRequest reports a malformed request body or parameter.
func respondBadRequest(c *gin.Context, err error) {
	responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}
